package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriterProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("customer_id", "c1").Msg("customer created")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 (debug must be filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry["service"] != "crm-service" || entry["customer_id"] != "c1" || entry["message"] != "customer created" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewWithWriterDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Debug().Msg("stage done")

	if !strings.Contains(buf.String(), "stage done") {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}
