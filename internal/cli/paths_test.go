package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name, xdg, want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestTaskDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")

	dir, err := taskDir()
	if err != nil {
		t.Fatalf("taskDir: %v", err)
	}
	if want := filepath.Join("/tmp/custom-data", appName, "tasks"); dir != want {
		t.Errorf("taskDir = %q, want %q", dir, want)
	}
}
