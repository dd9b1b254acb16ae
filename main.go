// Command particlefield opens a window with an interactive particle field.
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--preset <name>     Built-in preset (default, links, infection, emitters)
//	--config <file>     YAML options layered on top (repeatable)
//	--width/--height    Initial canvas size
//	--stats             Show TPS and particle count
//	--verbose           Enable verbose logging (default off)
//
// Controls:
//
//	Mouse        - Hover and click modes
//	P / Space    - Toggle pause
//	R            - Reload options
//	S            - Save options
//	Tab          - Toggle stats
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/particlefield/pkg/app"
	"github.com/decker502/particlefield/pkg/config"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var configPaths stringList
	presetFlag := flag.String("preset", "", "Built-in preset: "+strings.Join(config.PresetNames(), ", "))
	widthFlag := flag.Int("width", app.DefaultWidth, "Initial canvas width")
	heightFlag := flag.Int("height", app.DefaultHeight, "Initial canvas height")
	statsFlag := flag.Bool("stats", false, "Show TPS and particle count")
	verboseFlag := flag.Bool("verbose", false, "Enable verbose logging (default off)")
	flag.Var(&configPaths, "config", "YAML options file (repeatable)")
	flag.Parse()

	application, err := app.NewApp(app.Config{
		Verbose:     *verboseFlag,
		Preset:      *presetFlag,
		ConfigPaths: configPaths,
		Width:       *widthFlag,
		Height:      *heightFlag,
		ShowStats:   *statsFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("Particle Field")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(application)
	application.Shutdown()
	if err != nil {
		// 非 verbose 模式下 log 输出被丢弃，错误直接写 stderr
		fmt.Fprintf(os.Stderr, "Game loop failed: %v\n", err)
		os.Exit(1)
	}
}
