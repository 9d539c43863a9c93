package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/openskills/internal/logging"
)

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
		JSON:   false,
	})

	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected output to contain 'key=value', got: %s", output)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.Info("test message", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if entry["msg"] != "test message" {
		t.Errorf("expected msg='test message', got: %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key='value', got: %v", entry["key"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelWarn,
		Output: &buf,
	})

	logger.Info("should be filtered")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be filtered") {
		t.Errorf("info message leaked through warn-level filter: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("warn message missing: %s", output)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Output: &buf})

	ctx := logging.NewContext(context.Background(), logger)
	got := logging.FromContext(ctx)
	if got != logger {
		t.Error("FromContext did not return the attached logger")
	}

	if logging.FromContext(context.Background()) != nil {
		t.Error("FromContext returned a logger for a bare context")
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := map[string]struct {
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		"root":      {attr: logging.Root("/skills"), wantKey: logging.KeyRoot, wantVal: "/skills"},
		"skill":     {attr: logging.Skill("deploy"), wantKey: logging.KeySkill, wantVal: "deploy"},
		"path":      {attr: logging.Path("/a/b"), wantKey: logging.KeyPath, wantVal: "/a/b"},
		"operation": {attr: logging.Operation("load"), wantKey: logging.KeyOperation, wantVal: "load"},
		"code":      {attr: logging.Code("duplicate-name"), wantKey: logging.KeyCode, wantVal: "duplicate-name"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("Value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}

	count := logging.Count(7)
	if count.Key != logging.KeyCount || count.Value.Int64() != 7 {
		t.Errorf("Count attr = %v", count)
	}

	errAttr := logging.Err(errors.New("boom"))
	if errAttr.Key != logging.KeyError {
		t.Errorf("Err attr key = %q", errAttr.Key)
	}
	if nilAttr := logging.Err(nil); nilAttr.Key != "" {
		t.Errorf("Err(nil) = %v, want empty attr", nilAttr)
	}
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{
		Level:  logging.LevelDebug,
		Output: &buf,
	}))

	done := logging.Timer("load")
	done()

	output := buf.String()
	if !strings.Contains(output, "operation completed") {
		t.Errorf("Timer log missing completion message: %s", output)
	}
	if !strings.Contains(output, "operation=load") {
		t.Errorf("Timer log missing operation attr: %s", output)
	}
	if !strings.Contains(output, "duration=") {
		t.Errorf("Timer log missing duration attr: %s", output)
	}
}
