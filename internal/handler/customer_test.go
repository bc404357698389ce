package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/customers-api/internal/errs"
	"github.com/deppfellow/customers-api/internal/handler"
	"github.com/deppfellow/customers-api/internal/model/customer"
	"github.com/deppfellow/customers-api/internal/repository"
	"github.com/deppfellow/customers-api/internal/router"
	"github.com/deppfellow/customers-api/internal/service"
	"github.com/deppfellow/customers-api/internal/testutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *echo.Echo {
	t.Helper()

	srv := testutil.NewTestServer(t)
	services, err := service.NewServices(srv, repository.NewRepositories(srv))
	require.NoError(t, err)

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func newRouterWithStore(t *testing.T, store repository.CustomerStore) *echo.Echo {
	t.Helper()

	srv := testutil.NewTestServer(t)
	services := &service.Services{Customer: service.NewCustomerService(srv, store)}

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func create(t *testing.T, e *echo.Echo, body string) customer.Customer {
	t.Helper()
	rec := do(e, http.MethodPost, "/customers", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[customer.Customer](t, rec)
}

func TestCreateThenGet(t *testing.T) {
	e := newRouter(t)

	created := create(t, e, `{"name":"Ada","surname":"Lovelace","email":"ada@example.com","price_per_hour":120.5}`)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, "Lovelace", created.Surname)
	require.NotNil(t, created.Email)
	assert.Equal(t, "ada@example.com", *created.Email)
	assert.Equal(t, 120.5, created.PricePerHour)

	// Reads are repeatable.
	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodGet, fmt.Sprintf("/customers/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created, decode[customer.Customer](t, rec))
	}
}

func TestCreate_EmailIsOptionalAndSerializedAsNull(t *testing.T) {
	e := newRouter(t)

	rec := do(e, http.MethodPost, "/customers", `{"name":"Grace","surname":"Hopper","price_per_hour":90}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[map[string]any](t, rec)
	email, present := body["email"]
	assert.True(t, present)
	assert.Nil(t, email)
}

func TestCreate_IgnoresClientID(t *testing.T) {
	e := newRouter(t)

	created := create(t, e, `{"id":999,"name":"Alan","surname":"Turing","price_per_hour":80}`)
	assert.NotEqual(t, int64(999), created.ID)

	rec := do(e, http.MethodGet, "/customers/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_BadRequest(t *testing.T) {
	e := newRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing required fields", `{"email":"x@example.com"}`},
		{"wrong type", `{"name":"A","surname":"B","price_per_hour":"lots"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/customers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(e, http.MethodPost, "/customers", `{}`)
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Len(t, body.Errors, 3)

	// Nothing was written.
	list := decode[[]customer.Customer](t, do(e, http.MethodGet, "/customers", ""))
	assert.Empty(t, list)
}

func TestGet_NotFound(t *testing.T) {
	e := newRouter(t)

	rec := do(e, http.MethodGet, "/customers/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "Customer not found", body.Message)
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestInvalidID(t *testing.T) {
	e := newRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := do(e, method, "/customers/abc", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestList(t *testing.T) {
	e := newRouter(t)

	rec := do(e, http.MethodGet, "/customers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	var created []customer.Customer
	for i := 0; i < 3; i++ {
		created = append(created, create(t, e, fmt.Sprintf(`{"name":"n%d","surname":"s","price_per_hour":%d}`, i, 10+i)))
	}

	rec = do(e, http.MethodGet, "/customers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[[]customer.Customer](t, rec))
}

func TestDelete(t *testing.T) {
	e := newRouter(t)

	keep := create(t, e, `{"name":"Keep","surname":"Me","price_per_hour":1}`)
	gone := create(t, e, `{"name":"Drop","surname":"Me","email":"drop@example.com","price_per_hour":2}`)

	rec := do(e, http.MethodDelete, fmt.Sprintf("/customers/%d", gone.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gone, decode[customer.Customer](t, rec))

	rec = do(e, http.MethodGet, fmt.Sprintf("/customers/%d", gone.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/customers/%d", gone.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	list := decode[[]customer.Customer](t, do(e, http.MethodGet, "/customers", ""))
	assert.Equal(t, []customer.Customer{keep}, list)
}

func TestUnknownRoute(t *testing.T) {
	e := newRouter(t)

	rec := do(e, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, do(e, http.MethodGet, "/customers", "").Header().Get("X-Request-ID"))
}

// ------------------------------------------------------------

type fakeStore struct {
	row  *customer.Row
	rows []customer.Row
	err  error
}

func (f *fakeStore) InsertCustomer(context.Context, customer.InsertParams) (*customer.Row, error) {
	return f.row, f.err
}

func (f *fakeStore) GetCustomerByID(context.Context, int64) (*customer.Row, error) {
	return f.row, f.err
}

func (f *fakeStore) ListCustomers(context.Context) ([]customer.Row, error) {
	return f.rows, f.err
}

func (f *fakeStore) DeleteCustomerByID(context.Context, int64) (*customer.Row, error) {
	return f.row, f.err
}

func TestRowWithoutIDIsServerError(t *testing.T) {
	id := int64(1)
	store := &fakeStore{
		row:  &customer.Row{Name: "No", Surname: "ID", PricePerHour: 1},
		rows: []customer.Row{{ID: &id, Name: "Ok", Surname: "Row"}, {Name: "No", Surname: "ID"}},
	}
	e := newRouterWithStore(t, store)

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/customers", `{"name":"a","surname":"b","price_per_hour":1}`},
		{http.MethodGet, "/customers/1", ""},
		{http.MethodGet, "/customers", ""},
		{http.MethodDelete, "/customers/1", ""},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.target, func(t *testing.T) {
			rec := do(e, r.method, r.target, r.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decode[errs.HTTPError](t, rec)
			assert.Equal(t, "CUSTOMER_MAPPING_FAILED", body.Code)
		})
	}
}

func TestStoreFailureIsServerError(t *testing.T) {
	e := newRouterWithStore(t, &fakeStore{
		err: fmt.Errorf("failed to collect rows from table:customers: %w", &pgconn.PgError{Code: "08006", Severity: "FATAL"}),
	})

	rec := do(e, http.MethodGet, "/customers", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "RECORD_UNAVAILABLE", decode[errs.HTTPError](t, rec).Code)
}

func TestPathIDWinsOverBodyID(t *testing.T) {
	e := newRouter(t)

	first := create(t, e, `{"name":"A","surname":"One","price_per_hour":1}`)
	second := create(t, e, `{"name":"B","surname":"Two","price_per_hour":2}`)
	conflicting := fmt.Sprintf(`{"id":%d}`, first.ID)
	target := fmt.Sprintf("/customers/%d", second.ID)

	rec := do(e, http.MethodGet, target, conflicting)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, second, decode[customer.Customer](t, rec))

	rec = do(e, http.MethodDelete, target, conflicting)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, second, decode[customer.Customer](t, rec))

	list := decode[[]customer.Customer](t, do(e, http.MethodGet, "/customers", ""))
	assert.Equal(t, []customer.Customer{first}, list)
}
