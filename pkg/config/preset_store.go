package config

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
)

// 存储路径常量
const (
	presetObject       = "presets"
	presetLastProperty = "last"
)

// PresetStore 用户配置存储
// 将用户最后使用的选项（YAML）保存到 gdata 跨平台存储中。
// Only options are stored; particle state is never persisted.
type PresetStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，不持久化）
}

// NewPresetStore creates a store backed by the gdata manager.
// A nil manager gives a store that never persists (degraded mode).
func NewPresetStore(gdataManager *gdata.Manager) *PresetStore {
	return &PresetStore{gdataManager: gdataManager}
}

// OpenPresetStore opens the gdata storage for appName. Failure to open is
// not fatal: the returned store runs in degraded mode and the error is logged.
func OpenPresetStore(appName string) *PresetStore {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[PresetStore] Warning: gdata unavailable: %v (options will not be saved)", err)
		return NewPresetStore(nil)
	}
	return NewPresetStore(manager)
}

// Available reports whether the store can persist data.
func (ps *PresetStore) Available() bool {
	return ps != nil && ps.gdataManager != nil
}

// HasSaved reports whether saved options exist.
func (ps *PresetStore) HasSaved() bool {
	if !ps.Available() {
		return false
	}
	return ps.gdataManager.ObjectPropExists(presetObject, presetLastProperty)
}

// SaveLast stores opts as the user's last options.
//
// 返回：
//   - error: 序列化或保存失败时返回错误；降级模式下返回 nil
func (ps *PresetStore) SaveLast(opts *Options) error {
	if !ps.Available() {
		return nil
	}

	data, err := opts.Marshal()
	if err != nil {
		return err
	}

	if err := ps.gdataManager.SaveObjectProp(presetObject, presetLastProperty, data); err != nil {
		return fmt.Errorf("failed to save options: %w", err)
	}

	log.Printf("[PresetStore] Options saved (%d bytes)", len(data))
	return nil
}

// LoadLast returns the saved options merged over the defaults.
// ok is false when nothing has been saved or the store is degraded.
func (ps *PresetStore) LoadLast() (opts *Options, ok bool, err error) {
	if !ps.HasSaved() {
		return nil, false, nil
	}

	data, err := ps.gdataManager.LoadObjectProp(presetObject, presetLastProperty)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load saved options: %w", err)
	}

	opts, err = ParseOptions(data)
	if err != nil {
		return nil, false, fmt.Errorf("saved options are invalid: %w", err)
	}
	return opts, true, nil
}
