package logging

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// GELFWriter sends each written zap JSON entry as one GELF 1.1 message over
// UDP. Writes never fail the log call.
type GELFWriter struct {
	conn    net.Conn
	host    string
	service string
}

// NewGELFWriter dials addr (e.g. "graylog:12201").
func NewGELFWriter(addr, service string) (*GELFWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial gelf %s: %w", addr, err)
	}
	host, _ := os.Hostname()
	if host == "" {
		host = service
	}
	return &GELFWriter{conn: conn, host: host, service: service}, nil
}

func (w *GELFWriter) Write(p []byte) (int, error) {
	payload, err := w.encode(p, time.Now())
	if err != nil {
		return len(p), nil
	}
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

func (w *GELFWriter) Sync() error { return nil }

func (w *GELFWriter) Close() error { return w.conn.Close() }

// syslog severities by zap level name.
var severity = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// encode turns one zap JSON line into a GELF message. zap's reserved keys map
// to GELF's; everything else becomes an "_"-prefixed extra field.
func (w *GELFWriter) encode(line []byte, now time.Time) ([]byte, error) {
	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, err
	}

	msg := map[string]any{
		"version":   "1.1",
		"host":      w.host,
		"level":     6,
		"timestamp": float64(now.UnixNano()) / 1e9,
		"_service":  w.service,
	}
	for k, v := range entry {
		switch k {
		case msgKey:
			msg["short_message"] = v
		case levelKey:
			if s, ok := v.(string); ok {
				if lvl, ok := severity[strings.ToLower(s)]; ok {
					msg["level"] = lvl
				}
			}
		case timeKey:
			if ts, ok := v.(float64); ok {
				msg["timestamp"] = ts
			}
		case "id":
			// "_id" is reserved by GELF.
			msg["_field_id"] = flatten(v)
		default:
			msg["_"+k] = flatten(v)
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = "-"
	}
	return json.Marshal(msg)
}

// flatten keeps strings and numbers; GELF extra fields cannot be objects.
func flatten(v any) any {
	switch v.(type) {
	case string, float64:
		return v
	case bool:
		return fmt.Sprint(v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
