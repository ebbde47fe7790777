package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-ballotmaker")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-ballotmaker" {
			t.Errorf("expected path /tmp/test-ballotmaker, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-ballotmaker")

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-ballotmaker/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("ExportsDir", func(t *testing.T) {
		expected := "/tmp/test-ballotmaker/exports"
		if dir.ExportsDir() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ExportsDir())
		}
	})

	t.Run("ExportPath", func(t *testing.T) {
		expected := "/tmp/test-ballotmaker/exports/spacetown.xlsx"
		if got := dir.ExportPath("/data/edf/spacetown.json", "xlsx"); got != expected {
			t.Errorf("expected %s, got %s", expected, got)
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, err := New(filepath.Join(tmpDir, "ballotmaker-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.ExportsDir()); os.IsNotExist(err) {
		t.Error("exports directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	dir, _ := New(t.TempDir())

	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	if err := os.WriteFile(dir.ConfigPath(), []byte("namespace: ElectionResults\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}
