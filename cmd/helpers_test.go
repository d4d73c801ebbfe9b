package cmd

import (
	"bytes"
	"testing"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/store"
	"github.com/pders01/git-release/internal/testutil"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const testRoot = "/work/reactor"

// setupReactor points the commands at an in-memory three module reactor
// and resets every flag to its default.
func setupReactor(t *testing.T) (afero.Fs, *bytes.Buffer) {
	t.Helper()

	viper.Reset()
	config.SetDefaults()
	viper.Set("log.level", "error")

	fs := afero.NewMemMapFs()
	testutil.WriteFiles(t, fs, testRoot, testutil.ThreeModuleReactor)

	out := &bytes.Buffer{}
	oldFs, oldIn, oldOut, oldTerminal := appFs, stdin, stdout, isTerminal
	appFs, stdout = fs, out
	isTerminal = func() bool { return false }

	cfgFile = ""
	reactorDir = testRoot
	batchMode = true
	dryRun = false
	releaseVersions = nil
	developmentVersions = nil
	mapBranchCreation = false

	t.Cleanup(func() {
		appFs, stdin, stdout, isTerminal = oldFs, oldIn, oldOut, oldTerminal
		reactorDir = "."
		viper.Reset()
	})

	return fs, out
}

func loadState(t *testing.T, fs afero.Fs) *models.ReleaseDescriptor {
	t.Helper()

	exists, err := afero.Exists(fs, testRoot+"/release.toml")
	if err != nil || !exists {
		t.Fatalf("release state was not written")
	}

	state, err := store.Load(fs, testRoot+"/release.toml")
	if err != nil {
		t.Fatalf("failed to load release state: %v", err)
	}
	return state
}

func assertVersions(t *testing.T, kind string, got, want map[string]string) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("%s versions: got %v, want %v", kind, got, want)
		return
	}
	for id, v := range want {
		if got[id] != v {
			t.Errorf("%s version of %s: got %q, want %q", kind, id, got[id], v)
		}
	}
}
