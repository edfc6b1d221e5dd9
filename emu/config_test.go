package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
	"ldmasim/hw/ldma"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	log.Disable()

	tests := []struct {
		name    string
		content string
		want    Config
	}{
		{
			name:    "empty",
			content: "",
			want:    DefaultConfig(),
		},
		{
			name: "partial",
			content: `
[general]
family = "ldma33"
[controller]
write_back = false
`,
			want: Config{
				General: GeneralConfig{Family: "ldma33"},
				Pull:    PullConfig{Freq: 1_000_000, Limit: 15},
			},
		},
		{
			name: "invalid values",
			content: `
[general]
family = "z80"
log = "dma,xbar"
[pull]
freq = 0
limit = -3
`,
			want: Config{
				General:    GeneralConfig{Family: "efr32xg22", Log: "dma,xbar"},
				Pull:       PullConfig{Freq: 1_000_000, Limit: 15},
				Controller: ControllerConfig{WriteBack: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(writeFile(t, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v, want a not-exist error", err)
	}
	if _, err := LoadConfig(writeFile(t, "[pull\n")); err == nil {
		t.Errorf("LoadConfig succeeded on invalid TOML")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pull.Limit = 4
	cfg.Controller.WriteBack = false

	buf, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(writeFile(t, string(buf)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	if diff := cmp.Diff(ldma.DefaultOptions(), cfg.Options()); diff != "" {
		t.Errorf("default options mismatch (-want +got):\n%s", diff)
	}

	if !cfg.Options().WriteBack {
		t.Errorf("descriptor write-back off by default")
	}

	cfg.Pull = PullConfig{Freq: 32768, Limit: 1}
	cfg.Controller.WriteBack = false
	want := ldma.Options{WriteBack: false, PullFreq: 32768 * sim.Hz, PullLimit: 1}
	if diff := cmp.Diff(want, cfg.Options()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}
