package db

import (
	"strings"
	"testing"
)

func TestOpenWithoutInit(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "evp init") {
		t.Fatalf("expected init hint, got %v", err)
	}
}

func TestInitializeThenOpen(t *testing.T) {
	dir := t.TempDir()

	database, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	database.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open after Initialize failed: %v", err)
	}
	defer reopened.Close()

	version, err := reopened.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version != SchemaVersion {
		t.Fatalf("got schema version %d, want %d", version, SchemaVersion)
	}
}

func TestGenerateEntityID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateEntityID("ev-")
		if err != nil {
			t.Fatalf("generateEntityID failed: %v", err)
		}
		if !strings.HasPrefix(id, "ev-") || len(id) != len("ev-")+8 {
			t.Fatalf("unexpected ID shape: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %q", id)
		}
		seen[id] = true
	}
}
