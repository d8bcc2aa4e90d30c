package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scale.Rotation != 1.0 || cfg.Scale.Speed != 1.0 {
		t.Errorf("scales should default to identity, got %+v", cfg.Scale)
	}
	if cfg.Period <= 0 {
		t.Error("period should be positive")
	}
	if cfg.Sensor.Kind != "fixed" || cfg.Sensor.X != 1.0 || cfg.Sensor.Y != 2.0 {
		t.Errorf("unexpected default sensor %+v", cfg.Sensor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "scale:\n  rotation: 0.5\nperiod: 250ms\nsensor:\n  kind: orbit\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scale.Rotation != 0.5 {
		t.Errorf("expected rotation 0.5, got %v", cfg.Scale.Rotation)
	}
	if cfg.Scale.Speed != 1.0 {
		t.Errorf("unset speed should keep default, got %v", cfg.Scale.Speed)
	}
	if cfg.Period != 250*time.Millisecond {
		t.Errorf("expected 250ms period, got %s", cfg.Period)
	}
	if cfg.Sensor.Kind != "orbit" || cfg.Sensor.Radius != DefaultRadius {
		t.Errorf("unexpected sensor %+v", cfg.Sensor)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("spring-target")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadIntoLayersOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("scale:\n  speed: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("slow-orbit")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if cfg.Sensor.Kind != "orbit" || cfg.Ticks != 126 || cfg.Scale.Rotation != 0.5 {
		t.Errorf("preset fields lost: sensor=%s ticks=%d rotation=%v", cfg.Sensor.Kind, cfg.Ticks, cfg.Scale.Rotation)
	}
	if cfg.Scale.Speed != 3 {
		t.Errorf("expected file speed 3, got %v", cfg.Scale.Speed)
	}

	if err := LoadInto(filepath.Join(t.TempDir(), "missing.yaml"), cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("period: [\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"nan rotation", func(c *Config) { c.Scale.Rotation = math.NaN() }},
		{"inf speed", func(c *Config) { c.Scale.Speed = math.Inf(1) }},
		{"zero period", func(c *Config) { c.Period = 0 }},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }},
		{"negative noise", func(c *Config) { c.Sensor.Noise = -1 }},
		{"oscillator without dt", func(c *Config) { c.Sensor.Kind = "oscillator"; c.Sensor.Dt = 0 }},
		{"replay without run", func(c *Config) { c.Sensor.Kind = "replay" }},
		{"mqtt without broker", func(c *Config) { c.Sink.Kind = "mqtt"; c.Sink.Broker = "" }},
		{"bad qos", func(c *Config) { c.Sink.QoS = 3 }},
		{"unknown integrator", func(c *Config) { c.Sensor.Integrator = "verlet" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBroker, "tcp://broker:1883")
	t.Setenv(EnvTopic, "fleet/7/cmd")
	t.Setenv(EnvRotationScale, "0.25")
	t.Setenv(EnvSpeedScale, "3")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Sink.Broker != "tcp://broker:1883" || cfg.Sink.Topic != "fleet/7/cmd" {
		t.Errorf("unexpected sink %+v", cfg.Sink)
	}
	if cfg.Scale.Rotation != 0.25 || cfg.Scale.Speed != 3 {
		t.Errorf("unexpected scale %+v", cfg.Scale)
	}

	t.Setenv(EnvSpeedScale, "fast")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected parse error for non-numeric scale")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(EnvTopic+"=from/dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTopic, "")
	os.Unsetenv(EnvTopic)

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if got := os.Getenv(EnvTopic); got != "from/dotenv" {
		t.Errorf("expected topic from .env, got %q", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("double-rotation")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scale.Rotation != 2.0 {
		t.Errorf("expected rotation 2.0, got %f", cfg.Scale.Rotation)
	}
	if cfg.Sink.Kind != DefaultSink {
		t.Errorf("preset should keep default sink, got %s", cfg.Sink.Kind)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
