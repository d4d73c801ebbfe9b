package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// TempGitRepo creates a temporary git repository for testing
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a new temporary git repository
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "release-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	repo := &TempGitRepo{Path: tmpDir, T: t}

	// Initialize and configure git user (required for commits)
	for _, args := range [][]string{
		{"init"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
	} {
		if err := repo.git(args...); err != nil {
			os.RemoveAll(tmpDir)
			t.Fatalf("failed to init git repo: %v", err)
		}
	}

	repo.CreateFile("README.md", "# Test Repository\n")
	repo.Commit("Initial commit")

	return repo
}

// Cleanup removes the temporary git repository
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// CreateFile creates a file in the repository
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()

	if err := r.git("add", "."); err != nil {
		r.T.Fatalf("failed to stage files: %v", err)
	}
	if err := r.git("commit", "-m", message); err != nil {
		r.T.Fatalf("failed to commit: %v", err)
	}
}

func (r *TempGitRepo) git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	return cmd.Run()
}

// ThreeModuleReactor is an app root with two child modules, as manifests
// keyed by their path relative to the reactor root.
var ThreeModuleReactor = map[string]string{
	"module.toml": `group = "com.x"
artifact = "app"
version = "1.0-SNAPSHOT"
name = "App"
modules = ["module-a", "module-b"]
`,
	"module-a/module.toml": `artifact = "module-a"
version = "2.0-SNAPSHOT"
`,
	"module-b/module.toml": `artifact = "module-b"
version = "1.0"
`,
}

// WriteFiles writes files, keyed by path relative to root, into fs
func WriteFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}
