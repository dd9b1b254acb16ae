package app

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/decker502/particlefield/pkg/config"
)

// optionsSource remembers where the options came from so that they can be
// read again on reload.
//
// 优先级：
//  1. 指定预设（+ 配置文件）
//  2. 仅配置文件（叠加在默认值上）
//  3. 上次保存的配置
//  4. 默认预设
type optionsSource struct {
	preset string
	paths  []string
	store  *config.PresetStore
}

func (s *optionsSource) load() (*config.Options, error) {
	overlays := make([][]byte, 0, len(s.paths))
	for _, path := range s.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read options %s: %w", path, err)
		}
		overlays = append(overlays, data)
	}

	switch {
	case s.preset != "":
		return config.LoadPreset(s.preset, overlays...)
	case len(overlays) > 0:
		return config.ParseOptions(overlays...)
	}

	opts, ok, err := s.store.LoadLast()
	if err != nil {
		// 存档损坏不致命，回退到默认预设
		log.Printf("[App] Warning: %v (falling back to preset %s)", err, config.DefaultPreset)
	}
	if ok {
		return opts, nil
	}
	return config.LoadPreset(config.DefaultPreset)
}

func (s *optionsSource) describe() string {
	var parts []string
	if s.preset != "" {
		parts = append(parts, "preset "+s.preset)
	}
	if len(s.paths) > 0 {
		parts = append(parts, strings.Join(s.paths, ", "))
	}
	if len(parts) == 0 {
		if s.store.HasSaved() {
			return "saved options"
		}
		return "preset " + config.DefaultPreset
	}
	return strings.Join(parts, " + ")
}
