package logging

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEncodeMapsZapFields(t *testing.T) {
	w := &GELFWriter{host: "box", service: "a1site"}
	line := []byte(`{"level":"warn","ts":1735689600.5,"msg":"store slow","sheet":"Pickup Requests","rows":3,"id":"abc","ok":true,"req":{"path":"/relay"}}` + "\n")

	out, err := w.encode(line, time.Unix(0, 0))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "1.1", got["version"])
	assert.Equal(t, "box", got["host"])
	assert.Equal(t, "store slow", got["short_message"])
	assert.Equal(t, 4.0, got["level"])
	assert.Equal(t, 1735689600.5, got["timestamp"])
	assert.Equal(t, "Pickup Requests", got["_sheet"])
	assert.Equal(t, 3.0, got["_rows"])
	assert.Equal(t, "abc", got["_field_id"])
	assert.Equal(t, "true", got["_ok"])
	assert.Equal(t, `{"path":"/relay"}`, got["_req"])
	assert.Equal(t, "a1site", got["_service"])
	assert.NotContains(t, got, "_id")
}

func TestEncodeRejectsNonJSON(t *testing.T) {
	w := &GELFWriter{host: "box"}
	_, err := w.encode([]byte("plain text"), time.Now())
	assert.Error(t, err)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestLoggerTeesToGELF(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	logger, cleanup, err := New(Options{Level: "info", Format: "json", GELFAddr: pc.LocalAddr().String(), Service: "a1site"})
	require.NoError(t, err)
	defer cleanup()

	logger.Debug("dropped by level")
	logger.Error("relay failed", zap.String("form_type", "pickupForm"))

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 65535)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &got))
	assert.Equal(t, "relay failed", got["short_message"])
	assert.Equal(t, 3.0, got["level"])
	assert.Equal(t, "pickupForm", got["_form_type"])
	assert.Equal(t, "a1site", got["_service"])
}
