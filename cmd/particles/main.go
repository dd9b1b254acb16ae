// Package main provides a preset browser for trying the built-in particle
// field presets side by side.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--filter <keyword>    Initial filter by preset name (e.g., --filter=link)
//	--preset <name>       Start with a specific preset
//	--auto-play           Automatically cycle through presets every 5 seconds
//	--seed <n>            Seed every preset with n (0 = time based)
//
// Controls:
//
//	Mouse             - Hover and click modes of the current preset
//	Left/Right Arrow  - Switch to previous/next preset
//	Home/End          - Jump to first/last preset
//	1-9               - Quick jump to preset by index
//	P                 - Toggle pause
//	F or /            - Enter search mode
//	R                 - Restart the current preset
//	Q/Escape          - Quit
//
// Search Mode (press F or /):
//
//	Type letters      - Filter presets by name
//	Backspace         - Delete last character
//	Enter/Escape      - Exit search mode
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/interactions"
	"github.com/decker502/particlefield/pkg/render"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	autoPlayInterval = 5 * time.Second
)

var errQuit = errors.New("quit requested")

var (
	filterFlag   = flag.String("filter", "", "Initial filter by preset name keyword")
	presetFlag   = flag.String("preset", "", "Start with specific preset name")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through presets every 5 seconds")
	seedFlag     = flag.Int64("seed", 0, "Seed applied to every preset (0 = time based)")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// PresetBrowser implements ebiten.Game for cycling through presets.
type PresetBrowser struct {
	registry  *engine.Registry
	container *engine.Container
	renderer  *render.ScreenRenderer

	// Preset lists
	allPresets      []string
	filteredPresets []string
	currentIndex    int

	// Search mode
	searchMode  bool
	searchQuery string

	// Auto-play mode
	autoPlay       bool
	lastSwitchTime time.Time

	snapshot      engine.Snapshot
	statusMessage string
}

// NewPresetBrowser creates the browser and starts the first preset.
func NewPresetBrowser() (*PresetBrowser, error) {
	allNames := config.PresetNames()
	if len(allNames) == 0 {
		return nil, fmt.Errorf("no presets found")
	}

	initialQuery := *filterFlag
	filtered := filterPresets(allNames, initialQuery)
	if len(filtered) == 0 {
		log.Printf("Warning: No presets match initial filter %q, showing all", initialQuery)
		filtered = allNames
		initialQuery = ""
	}

	startIndex := 0
	if *presetFlag != "" {
		for i, name := range filtered {
			if name == *presetFlag {
				startIndex = i
				break
			}
		}
	}

	b := &PresetBrowser{
		registry:        interactions.NewRegistry(),
		renderer:        render.NewScreenRenderer(),
		allPresets:      allNames,
		filteredPresets: filtered,
		currentIndex:    startIndex,
		searchQuery:     initialQuery,
		autoPlay:        *autoPlayFlag,
		lastSwitchTime:  time.Now(),
	}
	b.renderer.Background = color.RGBA{25, 25, 38, 255}

	if err := b.startCurrentPreset(); err != nil {
		return nil, err
	}
	log.Printf("Preset browser initialized: %d presets, %d after filter", len(allNames), len(filtered))
	return b, nil
}

// filterPresets returns presets matching the query (case-insensitive substring match)
func filterPresets(allNames []string, query string) []string {
	if query == "" {
		return allNames
	}

	queryLower := strings.ToLower(query)
	filtered := make([]string, 0)
	for _, name := range allNames {
		if strings.Contains(strings.ToLower(name), queryLower) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// startCurrentPreset replaces the container with a fresh one for the
// selected preset.
func (b *PresetBrowser) startCurrentPreset() error {
	if len(b.filteredPresets) == 0 {
		b.statusMessage = "No presets to start"
		return nil
	}
	name := b.filteredPresets[b.currentIndex]

	opts, err := config.LoadPreset(name, []byte(fmt.Sprintf("seed: %d\n", *seedFlag)))
	if err != nil {
		b.statusMessage = fmt.Sprintf("Error: %v", err)
		return err
	}

	if b.container != nil {
		b.container.Destroy()
	}
	b.container = engine.NewContainer(b.registry, opts, screenWidth, screenHeight)
	b.container.Start()

	b.statusMessage = fmt.Sprintf("Started: %s", name)
	log.Printf("Current preset: %s (%d/%d)", name, b.currentIndex+1, len(b.filteredPresets))
	return nil
}

// Update updates the browser state
func (b *PresetBrowser) Update() error {
	if b.searchMode {
		b.updateSearchMode()
	} else if err := b.updateNormalMode(); err != nil {
		return err
	}

	b.updatePointer()
	b.snapshot = b.container.Update(1000.0 / float64(ebiten.TPS()))
	return nil
}

// updateSearchMode handles input when in search mode
func (b *PresetBrowser) updateSearchMode() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		b.searchMode = false
		b.statusMessage = fmt.Sprintf("Search: %q (%d results)", b.searchQuery, len(b.filteredPresets))
		if len(b.filteredPresets) > 0 {
			b.startCurrentPreset()
		}
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(b.searchQuery) > 0 {
			b.searchQuery = b.searchQuery[:len(b.searchQuery)-1]
			b.applySearch()
		}
		return
	}

	runes := ebiten.AppendInputChars(nil)
	if len(runes) > 0 {
		for _, r := range runes {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				b.searchQuery += string(r)
			}
		}
		b.applySearch()
	}
}

// applySearch filters the preset list and resets the index
func (b *PresetBrowser) applySearch() {
	b.filteredPresets = filterPresets(b.allPresets, b.searchQuery)
	b.currentIndex = 0
	log.Printf("Search query: %q, Results: %d", b.searchQuery, len(b.filteredPresets))
}

// updateNormalMode handles input when in normal mode
func (b *PresetBrowser) updateNormalMode() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		b.searchMode = true
		b.statusMessage = "Search mode: Type to filter presets..."
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if b.container.State() == engine.StatePaused {
			b.container.Play()
			b.statusMessage = "Resumed"
		} else if b.container.Pause() {
			b.statusMessage = "PAUSED - Press P to resume"
		}
		return nil
	}

	for i := 1; i <= 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key(int(ebiten.Key0) + i)) {
			if i-1 < len(b.filteredPresets) {
				b.currentIndex = i - 1
				b.startCurrentPreset()
			}
			return nil
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		b.jumpPresets(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		b.jumpPresets(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		b.currentIndex = 0
		b.startCurrentPreset()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		if len(b.filteredPresets) > 0 {
			b.currentIndex = len(b.filteredPresets) - 1
			b.startCurrentPreset()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		b.startCurrentPreset()
	}

	if b.autoPlay && time.Since(b.lastSwitchTime) > autoPlayInterval {
		b.jumpPresets(1)
		b.lastSwitchTime = time.Now()
	}
	return nil
}

// updatePointer forwards the cursor and left button to the container.
func (b *PresetBrowser) updatePointer() {
	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= screenWidth || y >= screenHeight {
		b.container.MouseLeave()
		return
	}
	b.container.MouseMove(float64(x), float64(y))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.container.MouseDown(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		b.container.MouseUp()
	}
}

// jumpPresets moves forward or backward by delta presets and restarts
func (b *PresetBrowser) jumpPresets(delta int) {
	if len(b.filteredPresets) == 0 {
		return
	}
	b.currentIndex = (b.currentIndex + delta) % len(b.filteredPresets)
	if b.currentIndex < 0 {
		b.currentIndex += len(b.filteredPresets)
	}
	b.startCurrentPreset()
}

// Draw renders the snapshot and the overlay UI
func (b *PresetBrowser) Draw(screen *ebiten.Image) {
	b.renderer.Draw(screen, b.snapshot)
	b.drawUI(screen)
}

// drawUI draws the overlay UI with preset info and controls
func (b *PresetBrowser) drawUI(screen *ebiten.Image) {
	if len(b.filteredPresets) == 0 {
		ebitenutil.DebugPrintAt(screen, "No presets match current filter", 10, 10)
		return
	}

	title := fmt.Sprintf("Preset Browser - %s (%d/%d)", b.filteredPresets[b.currentIndex], b.currentIndex+1, len(b.filteredPresets))
	ebitenutil.DebugPrintAt(screen, title, 10, 10)

	if b.searchQuery != "" {
		searchStatus := fmt.Sprintf("Filter: %q (%d/%d presets)", b.searchQuery, len(b.filteredPresets), len(b.allPresets))
		ebitenutil.DebugPrintAt(screen, searchStatus, 10, 30)
	}

	opts := b.container.Options()
	info := fmt.Sprintf("Particles: %d  Links: %d  Triangles: %d  Interactors: %s",
		len(b.snapshot.Particles), len(b.snapshot.Links), len(b.snapshot.Triangles), strings.Join(opts.Interactors, ","))
	ebitenutil.DebugPrintAt(screen, info, 10, 50)

	if b.searchMode {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SEARCH: %s_", b.searchQuery), 10, 70)
		ebitenutil.DebugPrintAt(screen, "(Type to filter, Backspace to delete, Enter/Esc to exit)", 10, 90)
	} else if b.statusMessage != "" {
		ebitenutil.DebugPrintAt(screen, b.statusMessage, 10, 70)
	}

	controls := []string{
		"Navigation: <-/-> = Next/Prev  Home/End = First/Last  1-9 = Quick Jump",
		"Actions:    R = Restart  P = Pause  F/Slash = Search  Q = Quit",
	}
	y := screenHeight - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}

	if b.autoPlay {
		ebitenutil.DebugPrintAt(screen, "AUTO-PLAY MODE", screenWidth-150, 10)
	}
}

// Layout returns the browser's logical screen size
func (b *PresetBrowser) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	// 默认静音运行；如需详细调试，传入 --verbose
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	browser, err := NewPresetBrowser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize preset browser: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Particle Field Preset Browser")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(browser); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Preset browser failed: %v\n", err)
		os.Exit(1)
	}
	log.Println("Preset browser closed")
}
