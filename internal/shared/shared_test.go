package shared

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("With Writer", func(t *testing.T) {
		var buf bytes.Buffer

		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %s", buf.String())
		}
	})

	t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Error("expected a logger")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("Creates Parent Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nested", "app.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		logger.Info("file log line")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "file log line") {
			t.Errorf("expected log line in file, got %s", string(data))
		}
	})
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" || second == "" {
		t.Fatal("expected non-empty IDs")
	}
	if first == second {
		t.Error("expected distinct IDs")
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(state) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(state))
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state == other {
		t.Error("expected distinct state tokens")
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"title": "Dune"}

	t.Run("Pretty", func(t *testing.T) {
		data, err := MarshalJSON(payload, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "\n") {
			t.Error("expected indented output")
		}
	})

	t.Run("Compact", func(t *testing.T) {
		data, err := MarshalJSON(payload, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(string(data), "\n") {
			t.Error("expected compact output")
		}

		var decoded map[string]string
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if decoded["title"] != "Dune" {
			t.Errorf("expected payload to round trip, got %v", decoded)
		}
	})
}

func TestValidateJSON(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		if err := ValidateJSON([]byte(`{"title": "Dune"}`)); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if err := ValidateJSON([]byte("{not json")); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestVerifyAndReadFile(t *testing.T) {
	t.Run("Existing File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		if err := os.WriteFile(path, []byte("contents"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "contents" {
			t.Errorf("expected file contents, got %s", string(data))
		}
	})

	t.Run("Empty Path", func(t *testing.T) {
		if _, err := VerifyAndReadFile(""); err == nil {
			t.Error("expected error for empty path")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := VerifyAndReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
