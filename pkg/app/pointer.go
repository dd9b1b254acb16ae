package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerSample 当前帧的指针输入
// 统一处理鼠标和触摸输入，优先检测触摸
type pointerSample struct {
	X, Y int
	// Present 指针是否可用于悬停（鼠标总是可用，触摸只在手指按下时可用）
	Present      bool
	JustPressed  bool
	JustReleased bool
}

// 保存最后一次触摸位置（触摸释放时已无法读取位置）
type touchMemory struct {
	lastX, lastY int
}

// readPointer 读取本帧的鼠标/触摸状态
func readPointer(mem *touchMemory) pointerSample {
	// 首先检查触摸输入（移动设备）
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		mem.lastX, mem.lastY = x, y
		return pointerSample{
			X: x, Y: y,
			Present:     true,
			JustPressed: len(inpututil.AppendJustPressedTouchIDs(nil)) > 0,
		}
	}
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		// 手指抬起：先释放点击，悬停随之结束
		return pointerSample{X: mem.lastX, Y: mem.lastY, JustReleased: true}
	}

	// 其次检查鼠标输入（桌面设备）
	x, y := ebiten.CursorPosition()
	return pointerSample{
		X: x, Y: y,
		Present:      true,
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

// pointerTracker turns pointer samples into container mouse events:
// a move while the pointer is over the canvas and a single leave when it exits.
type pointerTracker struct {
	inside     bool
	lastX      int
	lastY      int
	hasLastPos bool
}

// mouseTarget is the part of the container the tracker drives.
type mouseTarget interface {
	MouseMove(x, y float64)
	MouseLeave()
	MouseDown(x, y float64)
	MouseUp()
}

// update forwards one sample. Presses outside the canvas are ignored;
// releases are always forwarded so that a drag ending outside still ends the
// click.
func (t *pointerTracker) update(target mouseTarget, s pointerSample, width, height int) {
	inside := s.Present && s.X >= 0 && s.Y >= 0 && s.X < width && s.Y < height

	if inside {
		if !t.inside || !t.hasLastPos || s.X != t.lastX || s.Y != t.lastY {
			target.MouseMove(float64(s.X), float64(s.Y))
		}
		t.lastX, t.lastY, t.hasLastPos = s.X, s.Y, true
		if s.JustPressed {
			target.MouseDown(float64(s.X), float64(s.Y))
		}
	}
	if s.JustReleased {
		target.MouseUp()
	}
	if !inside {
		if t.inside {
			target.MouseLeave()
		}
		t.hasLastPos = false
	}
	t.inside = inside
}
