package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(redact bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), redact: redact}, logs
}

func TestLogger_RedactsSecrets(t *testing.T) {
	l, logs := observed(true)
	l.Info("login", "api_key", "abc", "Authorization", "Bearer x", "count", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
	assert.EqualValues(t, 3, fields["count"])
}

func TestLogger_HashesEmail(t *testing.T) {
	l, logs := observed(true)
	l.Info("graded", "email", "Student@Example.com")
	l.Info("graded", "email", "student@example.com")

	a := logs.All()[0].ContextMap()["email"]
	b := logs.All()[1].ContextMap()["email"]
	assert.Equal(t, a, b)
	assert.Contains(t, a, "hash:")
}

func TestLogger_RedactsJWTValues(t *testing.T) {
	l, logs := observed(true)
	l.Warn("odd", "value", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhZG1pbiJ9.sig")
	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["value"])
}

func TestLogger_RedactionDisabled(t *testing.T) {
	l, logs := observed(false)
	l.With("secret", "s3cr3t").Debug("x")
	assert.Equal(t, "s3cr3t", logs.All()[0].ContextMap()["secret"])
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New("loud", "json", true)
	assert.Error(t, err)
}
