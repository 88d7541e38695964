package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = zerolog.New(&buf)
	t.Cleanup(func() { globalLogger = prev })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestErrorLog(t *testing.T) {
	t.Run("error and formatted message", func(t *testing.T) {
		buf := captureGlobal(t)
		ErrorLog(context.Background(), errors.New("backend down"), "save step %s failed", "dexterity")

		entry := lastEntry(t, buf)
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, "backend down", entry["error"])
		assert.Equal(t, "save step dexterity failed", entry["message"])
	})

	t.Run("message containing verbs is passed through", func(t *testing.T) {
		buf := captureGlobal(t)
		ErrorLog(context.Background(), errors.New("boom"), "%s", "100% failed")

		entry := lastEntry(t, buf)
		assert.Equal(t, "100% failed", entry["message"])
	})

	t.Run("nil error", func(t *testing.T) {
		buf := captureGlobal(t)
		ErrorLog(context.Background(), nil, "command failed")

		entry := lastEntry(t, buf)
		assert.Equal(t, "command failed", entry["message"])
		assert.NotContains(t, entry, "error")
	})

	t.Run("context logger wins", func(t *testing.T) {
		global := captureGlobal(t)
		var buf bytes.Buffer
		ctx := zerolog.New(&buf).WithContext(context.Background())
		ctx = WithLogger(ctx, map[string]interface{}{"emp_no": "E100"})

		ErrorLog(ctx, errors.New("boom"), "lookup failed")

		entry := lastEntry(t, &buf)
		assert.Equal(t, "E100", entry["emp_no"])
		assert.Empty(t, global.String())
	})
}
