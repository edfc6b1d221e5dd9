// Package tests gives tests access to the scenario corpus.
package tests

import (
	"path/filepath"
	"runtime"
	"testing"
)

// ScenariosPath returns the directory holding the scenario corpus.
func ScenariosPath() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "scenarios")
}

// ScenarioFiles returns the paths of all scenarios of the corpus, sorted.
func ScenarioFiles(tb testing.TB) []string {
	tb.Helper()

	paths, err := filepath.Glob(filepath.Join(ScenariosPath(), "*.toml"))
	if err != nil {
		tb.Fatal(err)
	}
	if len(paths) == 0 {
		tb.Fatalf("no scenario found in %s", ScenariosPath())
	}
	return paths
}
