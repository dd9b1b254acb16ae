package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/decker502/particlefield/internal/particle"
	"github.com/decker502/particlefield/pkg/components"
	"github.com/quasilyte/gdata/v2"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *Options)
	}{
		{
			name:        "empty document keeps defaults",
			yamlContent: ``,
			validate: func(t *testing.T, o *Options) {
				if o.Particles.Number.Value != 80 {
					t.Errorf("expected default number 80, got %d", o.Particles.Number.Value)
				}
				if o.Particles.Move.ResolvedOutMode() != components.OutModeBounce {
					t.Errorf("expected bounce out mode, got %v", o.Particles.Move.ResolvedOutMode())
				}
				if len(o.Interactors) != len(DefaultInteractorOrder) {
					t.Errorf("expected default interactor order, got %v", o.Interactors)
				}
			},
		},
		{
			name: "partial override",
			yamlContent: `
particles:
  number:
    value: 100
  size: "[2 5]"
  move:
    outMode: bounce-vertical
interactivity:
  events:
    onHover:
      mode: [attract, grab]
`,
			validate: func(t *testing.T, o *Options) {
				if o.Particles.Number.Value != 100 {
					t.Errorf("expected number 100, got %d", o.Particles.Number.Value)
				}
				if o.Particles.Size != particle.Range(2, 5) {
					t.Errorf("expected size [2 5], got %v", o.Particles.Size)
				}
				if o.Particles.Move.ResolvedOutMode() != components.OutModeBounceVertical {
					t.Errorf("expected bounce-vertical, got %v", o.Particles.Move.ResolvedOutMode())
				}
				// 未覆盖的字段保持默认值
				if o.Particles.Move.Speed != 2 {
					t.Errorf("expected default speed 2, got %v", o.Particles.Move.Speed)
				}
				if !o.Interactivity.Events.OnHover.Has(ModeGrab) || !o.Interactivity.Events.OnHover.Has(ModeAttract) {
					t.Errorf("expected attract+grab hover modes, got %v", o.Interactivity.Events.OnHover.Mode)
				}
			},
		},
		{
			name: "scalar mode",
			yamlContent: `
interactivity:
  events:
    onClick:
      mode: repulse
`,
			validate: func(t *testing.T, o *Options) {
				if !o.Interactivity.Events.OnClick.Has(ModeRepulse) || o.Interactivity.Events.OnClick.Has(ModePush) {
					t.Errorf("expected click mode [repulse], got %v", o.Interactivity.Events.OnClick.Mode)
				}
			},
		},
		{
			name: "out of range values are clamped",
			yamlContent: `
particles:
  number:
    value: -5
  opacity: 3
  size: "[-2 4]"
  links:
    opacity: -1
    frequency: 7
interactivity:
  modes:
    attract:
      distance: -10
      speed: -1
infection:
  delay: -3
  stages:
    - rate: -1
      infectedStage: 9
`,
			validate: func(t *testing.T, o *Options) {
				if o.Particles.Number.Value != 0 {
					t.Errorf("expected number clamped to 0, got %d", o.Particles.Number.Value)
				}
				if o.Particles.Opacity != 1 {
					t.Errorf("expected opacity clamped to 1, got %v", o.Particles.Opacity)
				}
				if o.Particles.Size.Min != 0 || o.Particles.Size.Max != 4 {
					t.Errorf("expected size [0 4], got %v", o.Particles.Size)
				}
				if o.Particles.Links.Opacity != 0 || o.Particles.Links.Frequency != 1 {
					t.Errorf("expected link opacity 0 and frequency 1, got %v %v", o.Particles.Links.Opacity, o.Particles.Links.Frequency)
				}
				if o.Interactivity.Modes.Attract.Distance != 0 || o.Interactivity.Modes.Attract.Speed != 0 {
					t.Errorf("expected attract distance/speed clamped to 0")
				}
				if o.Infection.Delay != 0 {
					t.Errorf("expected infection delay 0, got %v", o.Infection.Delay)
				}
				if o.Infection.Stages[0].Rate != 0 || o.Infection.Stages[0].InfectedStage != nil {
					t.Errorf("expected stage rate 0 and no infectedStage, got %+v", o.Infection.Stages[0])
				}
			},
		},
		{
			name: "emitters get defaults",
			yamlContent: `
emitters:
  - position: {x: 10, y: 90}
    rate:
      delay: 0
  - name: named
    particles:
      outMode: destroy
`,
			validate: func(t *testing.T, o *Options) {
				if len(o.Emitters) != 2 {
					t.Fatalf("expected 2 emitters, got %d", len(o.Emitters))
				}
				first := o.Emitters[0]
				if first.Name != "emitter-0" {
					t.Errorf("expected generated name, got %q", first.Name)
				}
				if first.Rate.Delay.Min != 0.01 {
					t.Errorf("expected delay clamped to 0.01, got %v", first.Rate.Delay)
				}
				if first.Rate.Quantity != particle.Fixed(1) {
					t.Errorf("expected default quantity 1, got %v", first.Rate.Quantity)
				}
				second := o.Emitters[1]
				if second.Position.X != 50 || second.Position.Y != 50 {
					t.Errorf("expected default centre position, got %+v", second.Position)
				}
				mode, ok := second.Particles.ResolvedOutMode()
				if !ok || mode != components.OutModeDestroy {
					t.Errorf("expected destroy override, got %v %v", mode, ok)
				}
			},
		},
		{
			name: "unknown out mode",
			yamlContent: `
particles:
  move:
    outMode: teleport
`,
			wantErr:     true,
			errContains: "outMode",
		},
		{
			name: "invalid color",
			yamlContent: `
particles:
  color: "not-a-color"
`,
			wantErr:     true,
			errContains: "invalid color",
		},
		{
			name: "unknown emitter direction",
			yamlContent: `
emitters:
  - direction: sideways
`,
			wantErr:     true,
			errContains: "direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseOptions([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, opts)
			}
		})
	}
}

func TestMerge_DoesNotModifyBase(t *testing.T) {
	base := Default()
	merged, err := Merge(base, []byte("particles:\n  number:\n    value: 3\ninteractors: [links]\n"))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if base.Particles.Number.Value != 80 {
		t.Errorf("base was modified: number = %d", base.Particles.Number.Value)
	}
	if len(base.Interactors) != len(DefaultInteractorOrder) {
		t.Errorf("base interactors were modified: %v", base.Interactors)
	}
	if merged.Particles.Number.Value != 3 || len(merged.Interactors) != 1 {
		t.Errorf("merge not applied: %+v", merged.Interactors)
	}
}

func TestLoadOptions_LayeredFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	overlayPath := filepath.Join(dir, "overlay.yaml")

	if err := os.WriteFile(basePath, []byte("particles:\n  number:\n    value: 10\n  move:\n    speed: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(overlayPath, []byte("particles:\n  number:\n    value: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(basePath, overlayPath)
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if opts.Particles.Number.Value != 20 {
		t.Errorf("expected overlay number 20, got %d", opts.Particles.Number.Value)
	}
	if opts.Particles.Move.Speed != 5 {
		t.Errorf("expected base speed 5, got %v", opts.Particles.Move.Speed)
	}

	if _, err := LoadOptions(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		random  bool
		wantErr bool
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}, false, false},
		{"#0f0", color.RGBA{G: 255, A: 255}, false, false},
		{"random", color.RGBA{}, true, false},
		{"blue", color.RGBA{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v", tt.input, err)
			}
			if tt.wantErr {
				return
			}
			if c.Random != tt.random {
				t.Errorf("random = %v, want %v", c.Random, tt.random)
			}
			if !tt.random && c.RGBA != tt.want {
				t.Errorf("rgba = %v, want %v", c.RGBA, tt.want)
			}
			if tt.random && c.Resolve(nil).A != 255 {
				t.Error("random colour must be opaque")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if len(names) == 0 {
		t.Fatal("expected built-in presets")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadPreset(name); err != nil {
				t.Errorf("preset %s failed to load: %v", name, err)
			}
		})
	}

	if _, err := LoadPreset("does-not-exist"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetStore_NilManager(t *testing.T) {
	store := NewPresetStore(nil)

	if store.Available() {
		t.Error("nil manager must not be available")
	}
	if err := store.SaveLast(Default()); err != nil {
		t.Errorf("SaveLast in degraded mode should be a no-op, got %v", err)
	}
	opts, ok, err := store.LoadLast()
	if opts != nil || ok || err != nil {
		t.Errorf("LoadLast in degraded mode = %v, %v, %v", opts, ok, err)
	}
}

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T) *gdata.Manager {
	appName := fmt.Sprintf("particlefield_test_%d", time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return manager
}

func TestPresetStore_RoundTrip(t *testing.T) {
	manager := createTestGdataManager(t)
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewPresetStore(manager)

	original, err := LoadPreset("infection")
	if err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}
	if err := store.SaveLast(original); err != nil {
		t.Fatalf("SaveLast failed: %v", err)
	}

	loaded, ok, err := store.LoadLast()
	if err != nil || !ok {
		t.Fatalf("LoadLast = %v, %v", ok, err)
	}
	if loaded.Particles.Number.Value != original.Particles.Number.Value {
		t.Errorf("number = %d, want %d", loaded.Particles.Number.Value, original.Particles.Number.Value)
	}
	if loaded.StagesCount() != original.StagesCount() {
		t.Errorf("stages = %d, want %d", loaded.StagesCount(), original.StagesCount())
	}
	if !loaded.Infection.Cure {
		t.Error("cure flag lost in round trip")
	}
}
