// Package app 提供粒子场窗口应用的核心包装器
//
// 该包将启动逻辑从 main 包提取出来：加载配置、创建容器、
// 把 ebiten 的鼠标/键盘输入转交给容器，并用 render.ScreenRenderer 绘制快照。
package app

import (
	"fmt"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/interactions"
	"github.com/decker502/particlefield/pkg/render"
)

// AppName is the gdata application name used for saved options.
const AppName = "particlefield"

// Default window size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 640
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Preset 内置预设名称（如 "links"），为空时优先使用上次保存的配置
	Preset string
	// ConfigPaths 叠加在预设之上的 YAML 文件
	ConfigPaths []string
	// Width/Height 初始画布尺寸
	Width  int
	Height int
	// ShowStats 在左上角显示 TPS 和粒子数
	ShowStats bool
}

// App 是粒子场应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	source    *optionsSource
	store     *config.PresetStore
	container *engine.Container
	renderer  *render.ScreenRenderer
	pointer   pointerTracker
	touches   touchMemory
	snapshot  engine.Snapshot
	showStats bool

	width, height int
}

// NewApp 创建并初始化应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	store := config.OpenPresetStore(AppName)
	source := &optionsSource{preset: cfg.Preset, paths: cfg.ConfigPaths, store: store}

	opts, err := source.load()
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	log.Printf("[App] Options loaded from %s", source.describe())

	container := engine.NewContainer(interactions.NewRegistry(), opts, float64(cfg.Width), float64(cfg.Height))
	container.Start()
	applyFPSLimit(opts)

	return &App{
		source:    source,
		store:     store,
		container: container,
		renderer:  render.NewScreenRenderer(),
		showStats: cfg.ShowStats,
		width:     cfg.Width,
		height:    cfg.Height,
	}, nil
}

// Update 更新粒子场
// 每个 tick 调用一次（默认每秒 60 次）
func (a *App) Update() error {
	a.handleKeys()

	a.pointer.update(a.container, readPointer(&a.touches), a.width, a.height)

	a.snapshot = a.container.Update(1000.0 / float64(ebiten.TPS()))
	return nil
}

// handleKeys 处理快捷键
//
//	P / Space - 暂停/继续
//	R         - 重新加载配置（热重载）
//	S         - 保存当前配置
//	Tab       - 显示/隐藏统计信息
func (a *App) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.ReloadOptions(); err != nil {
			log.Printf("[App] Warning: reload failed: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.store.SaveLast(a.container.Options()); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.showStats = !a.showStats
	}
}

// TogglePause pauses a running container or resumes a paused one.
func (a *App) TogglePause() {
	if a.container.State() == engine.StatePaused {
		a.container.Play()
		log.Printf("[App] Resumed")
		return
	}
	if a.container.Pause() {
		log.Printf("[App] Paused")
	}
}

// ReloadOptions reads the options again from their source and hands them to
// the container; they take effect at the next frame.
func (a *App) ReloadOptions() error {
	opts, err := a.source.load()
	if err != nil {
		return err
	}
	a.container.Reload(opts)
	applyFPSLimit(opts)
	log.Printf("[App] Options reloaded from %s", a.source.describe())
	return nil
}

// Draw 绘制当前快照
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.snapshot)
	if a.showStats {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.0f  particles %d  %s",
			ebiten.ActualTPS(), len(a.snapshot.Particles), a.container.State()))
	}
}

// Layout 使用窗口的实际尺寸作为画布尺寸，尺寸变化时通知容器
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.container.Resize(float64(outsideWidth), float64(outsideHeight))
		log.Printf("[App] Canvas resized to %dx%d", outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Container 返回粒子容器
func (a *App) Container() *engine.Container {
	return a.container
}

// Shutdown 保存当前配置并销毁容器
func (a *App) Shutdown() {
	if err := a.store.SaveLast(a.container.Options()); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	a.container.Destroy()
}

func applyFPSLimit(opts *config.Options) {
	if opts.FPSLimit > 0 {
		ebiten.SetTPS(opts.FPSLimit)
	}
}
