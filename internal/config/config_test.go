package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"AssetDir", cfg.AssetDir, "assets"},
		{"OutputSuffix", cfg.OutputSuffix, ".sb3"},
		{"Color", cfg.Color, "auto"},
		{"WatchDebounceMS", cfg.WatchDebounceMS, 300},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "asset_dir",
			envKey: "JS2SB3_ASSET_DIR",
			envVal: "/opt/assets",
			field:  func(c Config) any { return c.AssetDir },
			want:   "/opt/assets",
		},
		{
			name:   "color",
			envKey: "JS2SB3_COLOR",
			envVal: "never",
			field:  func(c Config) any { return c.Color },
			want:   "never",
		},
		{
			name:   "watch_debounce_ms",
			envKey: "JS2SB3_WATCH_DEBOUNCE_MS",
			envVal: "750",
			field:  func(c Config) any { return c.WatchDebounceMS },
			want:   750,
		},
		{
			name:   "verbose",
			envKey: "JS2SB3_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg, err := Load(viper.New())
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestUnmarshalTOML_DecodesSettingsFile(t *testing.T) {
	data := []byte(`
asset_dir = "my-assets"
output_suffix = ".sb3"
color = "always"
watch_debounce_ms = 500
verbose = true
`)
	cfg, err := unmarshalTOML(data)
	if err != nil {
		t.Fatalf("unmarshalTOML() returned unexpected error: %v", err)
	}
	if cfg.AssetDir != "my-assets" {
		t.Errorf("AssetDir = %q, want %q", cfg.AssetDir, "my-assets")
	}
	if cfg.WatchDebounceMS != 500 {
		t.Errorf("WatchDebounceMS = %d, want 500", cfg.WatchDebounceMS)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}
