package logging

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/chatops/internal/config"
)

func TestSecretField(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	logger.Info(context.Background(), "client ready", Secret("github_token", config.Secret("ghp_abcdef")))

	logs := observed.All()
	require.Len(t, logs, 1)
	obj, ok := logs[0].ContextMap()["github_token"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "[REDACTED:10]", obj["github_token"])
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("authorization", "Bearer abc")
	assert.Equal(t, "[REDACTED:10]", f.String)
}

func encodeWith(t *testing.T, enc zapcore.Encoder, msg string, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Unix(0, 0), Message: msg}, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

func TestRedactingEncoder(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	token := "ghp_" + strings.Repeat("x", 36)

	out := encodeWith(t, enc, "posting with "+token,
		zap.String("token", "raw"),
		zap.String("Webhook_Secret", "raw2"),
		zap.String("body", "/set-bin app"),
		zap.Error(errors.New("auth failed for "+token)),
	)

	assert.NotContains(t, out, token)
	assert.NotContains(t, out, "raw")
	assert.Contains(t, out, "/set-bin app")
	assert.Contains(t, out, "auth failed for [REDACTED]")
}

func TestRedactingEncoder_WithFields(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	child := enc.Clone()
	child.AddString("password", "hunter2")
	child.AddString("user", "octocat")

	out := encodeWith(t, child, "m")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "octocat")
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: false})
	require.NoError(t, err)

	out := encodeWith(t, enc, "m", zap.String("token", "visible"))
	assert.Contains(t, out, "visible")
}

func TestNewRedactingEncoder_BadPattern(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: true, Patterns: []string{"("}})
	assert.Error(t, err)
}
