package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCreatesSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lisbon-diary")
	created, err := Write(dir, Data{ProjectID: "abc123"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(created) == 0 {
		t.Fatal("expected files to be created")
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "wanderpress.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, want := range []string{`name: "Lisbon Diary"`, `project_id: "abc123"`, `dataset: "production"`} {
		if !strings.Contains(string(cfg), want) {
			t.Errorf("config missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".env.example")); err != nil {
		t.Errorf("expected .env.example: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "static")); err != nil {
		t.Errorf("expected static dir: %v", err)
	}
}

func TestWriteRefusesExistingDir(t *testing.T) {
	if _, err := Write(t.TempDir(), Data{}); err == nil {
		t.Fatal("expected an error for an existing directory")
	}
}

func TestToTitle(t *testing.T) {
	tests := map[string]string{"my-blog": "My Blog", "myblog": "Myblog", "": ""}
	for in, want := range tests {
		if got := ToTitle(in); got != want {
			t.Errorf("ToTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
