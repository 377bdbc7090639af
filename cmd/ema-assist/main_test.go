package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
)

func TestRunPrintsCatalogSchema(t *testing.T) {
	var out bytes.Buffer
	if err := run(config{printSchema: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(out.Bytes(), &schema); err != nil {
		t.Fatalf("expected JSON schema, got %v", err)
	}
}

func TestRunDumpsBuiltInCatalogThatLoadsBack(t *testing.T) {
	var out bytes.Buffer
	if err := run(config{mode: "voice", dumpCatalog: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "voice.yaml")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	catalog, err := loadCatalog(config{mode: "voice", catalogPath: path})
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	engine := intents.NewEngine(catalog)
	if got, expected := engine.Resolve("बेकरी कहां है", locales.Secondary), "बेकरी सेक्शन प्रवेश द्वार के पास गलियारा 1 में है।"; got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestLoadCatalogRejectsChannelMismatch(t *testing.T) {
	var out bytes.Buffer
	if err := run(config{mode: "chat", dumpCatalog: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "chat.yaml")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	_, err := loadCatalog(config{mode: "voice", catalogPath: path})
	if err == nil || !strings.Contains(err.Error(), "not voice") {
		t.Fatalf("expected channel mismatch error, got %v", err)
	}
}

func TestRunRejectsUnknownMode(t *testing.T) {
	if err := run(config{mode: "video"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
