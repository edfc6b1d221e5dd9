package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ldmasim/emu"
	"ldmasim/emu/log"
	"ldmasim/tests"
)

func TestRunScenarios(t *testing.T) {
	log.Disable()

	paths := tests.ScenarioFiles(t)
	var traceOut bytes.Buffer
	results, err := runScenarios(context.Background(), paths, emu.DefaultConfig(), &traceOut)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for i, res := range results {
		sc, err := emu.LoadScenario(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, sc.Name)
		if res.Name != sc.Name {
			t.Errorf("result %d is %s, want %s", i, res.Name, sc.Name)
		}
	}

	var out bytes.Buffer
	if failed := report(&out, results, false); failed != 0 {
		t.Errorf("%d scenarios failed:\n%s", failed, out.String())
	}

	// Every trace line is prefixed by the name of its scenario.
	lines := strings.Split(strings.TrimSuffix(traceOut.String(), "\n"), "\n")
	if len(lines) == 0 {
		t.Fatal("empty trace")
	}
	for _, l := range lines {
		ok := false
		for _, name := range names {
			ok = ok || strings.HasPrefix(l, name+" ")
		}
		if !ok {
			t.Errorf("unprefixed trace line %q", l)
		}
	}
}

func TestRunScenariosError(t *testing.T) {
	log.Disable()

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[[step]]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	paths := append(tests.ScenarioFiles(t), bad)
	if _, err := runScenarios(context.Background(), paths, emu.DefaultConfig(), nil); err == nil {
		t.Errorf("runScenarios succeeded with an invalid scenario")
	}
}

func TestReport(t *testing.T) {
	results := []*emu.Result{
		{Name: "ok"},
		{Name: "ko", Failures: []emu.Failure{{Step: 2, Msg: "irq = wide=0 ch=none, want wide=1 ch=none"}}},
	}

	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{"verbose", false, `PASS  ok
FAIL  ko
      step 3: irq = wide=0 ch=none, want wide=1 ch=none
1/2 scenarios passed
`},
		{"quiet", true, `FAIL  ko
      step 3: irq = wide=0 ch=none, want wide=1 ch=none
1/2 scenarios passed
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if failed := report(&out, results, tt.quiet); failed != 1 {
				t.Errorf("report() = %d, want 1", failed)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyLogModules(t *testing.T) {
	tests := []struct {
		list    string
		wantErr bool
	}{
		{"dma,xbar", false},
		{" dma , irq ", false},
		{"all", false},
		{"no", false},
		{"all,no", true},
		{"no,dma", true},
		{"dma,gpu", true},
	}
	for _, tt := range tests {
		err := applyLogModules(tt.list)
		if (err != nil) != tt.wantErr {
			t.Errorf("applyLogModules(%q) error = %v, wantErr %t", tt.list, err, tt.wantErr)
		}
	}
	log.Disable()
}
