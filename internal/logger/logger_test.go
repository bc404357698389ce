package logger

import (
	"testing"

	"github.com/deppfellow/customers-api/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerWithService_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	logger := NewLoggerWithService(cfg, NewLoggerService(cfg))
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestLoggerService_DisabledWithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	service := NewLoggerService(cfg)
	assert.Nil(t, service.GetApplication())

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := []struct {
		level zerolog.Level
		want  tracelog.LogLevel
	}{
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tracelog.LogLevel(GetPgxTraceLogLevel(tt.level)))
		})
	}
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	base := zerolog.Nop()
	assert.Equal(t, base, WithTraceContext(base, nil))
}
