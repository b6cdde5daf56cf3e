package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"", zerolog.WarnLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.Disabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := setupLogger("", tt.input, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setupLogger(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if logger.GetLevel() != tt.expected {
				t.Errorf("expected level %v, got %v", tt.expected, logger.GetLevel())
			}
		})
	}
}

func TestSetupLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := setupLogger("", "info", &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "song.mp3").Msg("Embedded lyrics")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "Embedded lyrics") || !strings.Contains(out, "song.mp3") {
		t.Errorf("expected console output, got:\n%s", out)
	}
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lrcup.log")
	var buf bytes.Buffer
	logger, err := setupLogger(path, "warn", &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Warn().Int("failed", 2).Msg("Sync complete")

	if buf.Len() != 0 {
		t.Errorf("nothing should reach stderr, got %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", data, err)
	}
	if entry["message"] != "Sync complete" || entry["level"] != "warn" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestSetupLogger_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "lrcup.log")
	if _, err := setupLogger(path, "", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unwritable log file")
	}
}
