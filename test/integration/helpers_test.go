//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // PROJECTKIT_HOME, contains config.yaml and templates/
	WorkDir string // where generated projects are written
}

// setupTestEnv creates isolated temp directories and points PROJECTKIT_HOME
// at one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
	}
	t.Setenv("PROJECTKIT_HOME", env.HomeDir)

	if err := os.MkdirAll(filepath.Join(env.HomeDir, "templates"), 0755); err != nil {
		t.Fatalf("creating templates dir: %v", err)
	}
	return env
}

// setupUserTemplate writes a small template with a custom placeholder into
// the user template directory and returns its root.
func setupUserTemplate(t *testing.T, homeDir, name string) string {
	t.Helper()

	root := filepath.Join(homeDir, "templates", name)
	writeFile(t, filepath.Join(root, "template.yaml"), `name: `+name+`
version: 1.0.0
description: Go service skeleton
placeholders:
  - name: ProjectName
    token: myservice
    format: identifier
    required: true
  - name: ModulePath
    token: example.com/myservice
    format: text
    default: "github.com/acme/{{lower .ProjectName}}"
binary_extensions: [.bin]
exclude: ["*.orig"]
executable: ["bin/*"]
`)
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/myservice\n")
	writeFile(t, filepath.Join(root, "cmd", "myservice", "main.go"), "package main // myservice\n")
	writeFile(t, filepath.Join(root, "bin", "run-myservice"), "#!/bin/sh\nexec myservice\n")
	writeFile(t, filepath.Join(root, "data", "blob.bin"), "myservice")
	writeFile(t, filepath.Join(root, "notes.orig"), "myservice")
	return root
}

// writeFile creates path with content, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
