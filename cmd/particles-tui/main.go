// Package main runs the particle field inside a terminal.
//
// Usage:
//
//	go run ./cmd/particles-tui [flags]
//
// Flags:
//
//	--preset <name>   Built-in preset (default "default")
//	--config <file>   YAML options file layered on top of the preset
//	--verbose         Log to particles-tui.log
//
// Controls:
//
//	Mouse      - Hover and click modes (terminal mouse reporting)
//	P / Space  - Toggle pause
//	R          - Reload options
//	Q / Esc    - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/interactions"
	"github.com/decker502/particlefield/pkg/render"
)

const frameInterval = 33 * time.Millisecond // ~30 FPS

var (
	presetFlag  = flag.String("preset", config.DefaultPreset, "Built-in preset name")
	configFlag  = flag.String("config", "", "YAML options file layered on top of the preset")
	verboseFlag = flag.Bool("verbose", false, "Write logs to particles-tui.log")
)

// TerminalViewer drives a container from tcell events and a frame ticker.
type TerminalViewer struct {
	screen    tcell.Screen
	renderer  *render.TerminalRenderer
	container *engine.Container
	buttons   tcell.ButtonMask
	lastFrame time.Time
}

func loadOptions() (*config.Options, error) {
	var overlays [][]byte
	if *configFlag != "" {
		data, err := os.ReadFile(*configFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to read options %s: %w", *configFlag, err)
		}
		overlays = append(overlays, data)
	}
	return config.LoadPreset(*presetFlag, overlays...)
}

// NewTerminalViewer initializes the screen and the container.
func NewTerminalViewer() (*TerminalViewer, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	renderer := render.NewTerminalRenderer(screen)
	width, height := renderer.CanvasSize()
	container := engine.NewContainer(interactions.NewRegistry(), opts, width, height)
	container.Start()

	log.Printf("[TUI] Started preset %s on %.0fx%.0f canvas", *presetFlag, width, height)
	return &TerminalViewer{
		screen:    screen,
		renderer:  renderer,
		container: container,
		lastFrame: time.Now(),
	}, nil
}

// handleEvent returns false when the viewer should quit.
func (v *TerminalViewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return false
		case ev.Rune() == 'p' || ev.Rune() == ' ':
			if v.container.State() == engine.StatePaused {
				v.container.Play()
			} else {
				v.container.Pause()
			}
		case ev.Rune() == 'r':
			opts, err := loadOptions()
			if err != nil {
				log.Printf("[TUI] Warning: reload failed: %v", err)
				break
			}
			v.container.Reload(opts)
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := v.renderer.CanvasPoint(col, row)
		v.container.MouseMove(x, y)

		pressed := ev.Buttons()&tcell.Button1 != 0
		wasPressed := v.buttons&tcell.Button1 != 0
		if pressed && !wasPressed {
			v.container.MouseDown(x, y)
		} else if !pressed && wasPressed {
			v.container.MouseUp()
		}
		v.buttons = ev.Buttons()

	case *tcell.EventFocus:
		if !ev.Focused {
			v.container.MouseLeave()
		}

	case *tcell.EventResize:
		v.screen.Sync()
		width, height := v.renderer.CanvasSize()
		v.container.Resize(width, height)
		log.Printf("[TUI] Resized to %.0fx%.0f", width, height)
	}
	return true
}

func (v *TerminalViewer) frame() {
	now := time.Now()
	elapsed := float64(now.Sub(v.lastFrame).Microseconds()) / 1000
	v.lastFrame = now
	v.renderer.Draw(v.container.Update(elapsed))
}

func (v *TerminalViewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.frame()
		}
	}
}

func (v *TerminalViewer) cleanup() {
	v.container.Destroy()
	v.screen.Fini()
}

func main() {
	flag.Parse()

	// 终端被占用，日志只能写文件
	log.SetOutput(io.Discard)
	if *verboseFlag {
		f, err := os.OpenFile("particles-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	viewer, err := NewTerminalViewer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer viewer.cleanup()

	viewer.run()
}
