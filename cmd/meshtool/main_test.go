package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meshload/internal/assets"
	"github.com/Faultbox/meshload/internal/config"
	"github.com/Faultbox/meshload/pkg/formats"
	"github.com/Faultbox/meshload/pkg/mesh"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func writeTestMesh(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0644); err != nil {
		t.Fatalf("failed to write test mesh: %v", err)
	}
	return path
}

func TestCacheThenLoad(t *testing.T) {
	path := writeTestMesh(t)
	cfg := config.Default()

	if assets.CacheFresh(path) {
		t.Fatal("cache should not exist yet")
	}
	if err := cmdCache(cfg, []string{path}); err != nil {
		t.Fatalf("cache command failed: %v", err)
	}
	if !assets.CacheFresh(path) {
		t.Fatal("expected cache files after cache command")
	}
	if err := cmdLoad(cfg, []string{path}); err != nil {
		t.Fatalf("load command failed: %v", err)
	}
	if err := cmdVerify(cfg, []string{path}); err != nil {
		t.Fatalf("verify command failed: %v", err)
	}
}

func TestVerifyStaleCache(t *testing.T) {
	path := writeTestMesh(t)
	cfg := config.Default()

	if err := cmdCache(cfg, []string{path}); err != nil {
		t.Fatalf("cache command failed: %v", err)
	}

	// Editing the source makes the cache stale.
	if err := os.WriteFile(path, []byte(triangleOBJ+"v 5 5 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := cmdVerify(cfg, []string{path})
	if !errors.Is(err, formats.ErrCacheIntegrity) {
		t.Errorf("expected stale cache error, got %v", err)
	}
}

func TestInfoPreferCache(t *testing.T) {
	path := writeTestMesh(t)
	cfg := config.Default()
	cfg.Cache.Prefer = true

	// Without a cache, info falls back to parsing.
	if err := cmdInfo(cfg, []string{path}); err != nil {
		t.Fatalf("info command failed: %v", err)
	}
	if assets.CacheFresh(path) {
		t.Error("info must not write a cache unless configured")
	}

	cfg.Mesh.SearchPaths = []string{filepath.Dir(path)}
	if err := cmdInfo(cfg, []string{filepath.Base(path)}); err != nil {
		t.Fatalf("info by name failed: %v", err)
	}
}

func TestMissingArgs(t *testing.T) {
	cfg := config.Default()
	for name, cmd := range map[string]func(*config.Config, []string) error{
		"info":   cmdInfo,
		"cache":  cmdCache,
		"verify": cmdVerify,
		"load":   cmdLoad,
	} {
		if err := cmd(cfg, nil); err == nil {
			t.Errorf("%s: expected usage error without arguments", name)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshtool.yaml")
	if err := cmdConfig(config.Default(), []string{path}); err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file: %v", err)
	}
}

func TestPrintMesh(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
		excluded []string
	}{
		{
			name:     "triangle",
			src:      triangleOBJ,
			expected: []string{"Triangles:  1\n", "Bounds:     (0, 0, 0) - (1, 1, 0)"},
			excluded: []string{"(empty)"},
		},
		{
			name:     "no faces",
			src:      "v 0 0 0\nv 1 0 0\n",
			expected: []string{"Vertices:   2\n", "Triangles:  0 (empty)"},
			excluded: []string{"Bounds", "Degenerate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mesh.obj")
			if err := os.WriteFile(path, []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}
			m, err := mesh.Load(path, false)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			var buf bytes.Buffer
			printMesh(&buf, m, "obj")
			out := buf.String()

			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %q in output:\n%s", exp, out)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %q in output:\n%s", exc, out)
				}
			}
		})
	}
}
