package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestContextHandler_StampsTraceAndSession(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := WithTraceID(context.Background(), "t-1")
	ctx = context.WithValue(ctx, SessionIDKey, "0123456789abcdef")
	l.InfoContext(ctx, "hello")
	l.InfoContext(context.Background(), "plain")

	recs := lines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "t-1", recs[0][TraceIDKey])
	assert.Equal(t, "01234567", recs[0][SessionIDKey])
	assert.NotContains(t, recs[1], TraceIDKey)
	assert.Equal(t, "t-1", TraceID(ctx))
	assert.Empty(t, TraceID(context.Background()))
}

func TestTee_RemoteOnlyGetsTracedOrWarnings(t *testing.T) {
	var local, remote bytes.Buffer
	h := NewTee(
		log.NewJSONHandler(&local, nil),
		NewRemoteFilter(log.NewJSONHandler(&remote, &log.HandlerOptions{Level: log.LevelDebug})),
	)
	l := log.New(&ContextHandler{h})

	l.InfoContext(WithTraceID(context.Background(), "t-1"), "traced")
	l.Info("untraced")
	l.Warn("warning")
	l.Debug("debug only remote")

	assert.Len(t, lines(t, &local), 3)
	remoteRecs := lines(t, &remote)
	require.Len(t, remoteRecs, 2)
	assert.Equal(t, "traced", remoteRecs[0]["msg"])
	assert.Equal(t, "warning", remoteRecs[1]["msg"])
}

func TestRedact(t *testing.T) {
	out := Redact([]byte(`{"username":"alice","password":"secret1","gemini_api_key": "sk-1"}`))
	assert.NotContains(t, out, "secret1")
	assert.NotContains(t, out, "sk-1")
	assert.Contains(t, out, `"password":"[PROTECTED]"`)
	assert.Contains(t, out, "alice")

	form := Redact([]byte("username=alice&password=secret1&confirm_password=secret1"))
	assert.Equal(t, "username=alice&password=[PROTECTED]&confirm_password=[PROTECTED]", form)

	long := Redact(bytes.Repeat([]byte("a"), bodyLogLimit+10))
	assert.True(t, strings.HasSuffix(long, "...[truncated]"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, log.LevelInfo, ParseLevel("nonsense"))
}
