package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	t.Cleanup(func() { logger.Store(prev) })
	Configure(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-1")
	LoggerFromContext(ctx).Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", line["request_id"])
	}
}

func TestConfigureLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	t.Cleanup(func() { logger.Store(prev) })
	Configure(&buf, "warn", "text")

	Logger().Info("dropped")
	Logger().Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "msg=kept") {
		t.Fatalf("expected text-format warn line, got %s", out)
	}
}
