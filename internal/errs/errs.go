// Package errs defines the error types the API returns to clients
// and the internal failure kinds that are translated into them.
//
// Every error that leaves a handler ends up as an HTTPError body, so
// clients always see the same shape regardless of where it failed.
package errs
