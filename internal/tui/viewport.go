package tui

// Direction is a navigation intent from the keyboard.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Viewport owns the scroll window and selection cursor over the workload
// list. Top is the first visible index, Current the cursor offset inside
// the window, so the selected absolute index is Top+Current. Bottom is the
// workload count for the current tick and MaxLines the number of grid rows
// the terminal offers. Stride is the row count of one grid column; left and
// right jump the cursor by a whole column without ever scrolling Top.
type Viewport struct {
	Top      int
	Current  int
	MaxLines int
	Bottom   int
	Page     int // Bottom / MaxLines, informational only
	Stride   int
}

// NewViewport creates a viewport with the given window height and column
// stride. Both are clamped to at least one row.
func NewViewport(maxLines, stride int) Viewport {
	if maxLines < 1 {
		maxLines = 1
	}
	if stride < 1 {
		stride = 1
	}
	return Viewport{MaxLines: maxLines, Stride: stride}
}

// Apply advances the viewport by one navigation step. The rules are ordered
// and the first one whose guard holds fires; when none does the move is
// silently ignored and the state is unchanged. Up and down may slide the
// window, left and right only move the cursor within it.
func (v *Viewport) Apply(d Direction) {
	switch d {
	case DirUp:
		if v.Top > 0 && v.Current == 0 {
			v.Top--
			return
		}
		if v.Top > 0 || v.Current > 0 {
			v.Current--
		}

	case DirDown:
		next := v.Current + 1
		if next == v.MaxLines && v.Top+v.MaxLines < v.Bottom {
			v.Top++
			return
		}
		if next < v.MaxLines && v.Top+next < v.Bottom {
			v.Current = next
		}

	case DirRight:
		next := v.Current + v.Stride
		if next < v.MaxLines && v.Top+next < v.Bottom {
			v.Current = next
		}

	case DirLeft:
		if v.Current >= v.Stride {
			v.Current -= v.Stride
		}
	}
}

// PageUp and PageDown move by whole windows. On the last page the cursor is
// pulled back so it cannot land past the final workload.
func (v *Viewport) PageUp() {
	if v.MaxLines <= 0 || v.Bottom == 0 {
		return
	}
	if (v.Top+v.Current)/v.MaxLines > 0 {
		v.Top -= v.MaxLines
		if v.Top < 0 {
			v.Top = 0
		}
	}
	v.clamp()
}

func (v *Viewport) PageDown() {
	if v.MaxLines <= 0 || v.Bottom == 0 {
		return
	}
	currentPage := (v.Top + v.Current) / v.MaxLines
	lastPage := v.Bottom / v.MaxLines
	if currentPage >= lastPage {
		return
	}
	if currentPage+1 == lastPage {
		// The last page may hold fewer rows than a full window.
		if rem := v.Bottom % v.MaxLines; rem > 0 && v.Current > rem-1 {
			v.Current = rem - 1
		}
	}
	if v.Top+v.MaxLines < v.Bottom {
		v.Top += v.MaxLines
	}
	v.clamp()
}

// SetBottom installs the workload count for this tick and re-clamps the
// window so the selection never points past the last workload.
func (v *Viewport) SetBottom(n int) {
	v.Bottom = n
	if v.MaxLines > 0 {
		v.Page = n / v.MaxLines
	}
	v.clamp()
}

// Resize installs a new window height, as reported by the terminal, and
// re-clamps before the next paint.
func (v *Viewport) Resize(maxLines int) {
	if maxLines < 1 {
		maxLines = 1
	}
	abs := v.Absolute()
	v.MaxLines = maxLines
	v.Page = v.Bottom / maxLines
	v.Select(abs)
}

// Select places the cursor on an absolute index, scrolling the window the
// minimal amount needed to make it visible.
func (v *Viewport) Select(abs int) {
	if v.Bottom == 0 {
		v.Top, v.Current = 0, 0
		return
	}
	if abs < 0 {
		abs = 0
	}
	if abs > v.Bottom-1 {
		abs = v.Bottom - 1
	}
	switch {
	case abs >= v.Top && abs < v.Top+v.MaxLines:
		v.Current = abs - v.Top
	case abs < v.Top:
		v.Top = abs
		v.Current = 0
	default:
		v.Top = abs - v.MaxLines + 1
		v.Current = abs - v.Top
	}
}

// Absolute returns the selected index, Top+Current.
func (v *Viewport) Absolute() int {
	return v.Top + v.Current
}

// clamp restores the viewport invariants after the bottom or window height
// changed underneath the cursor.
func (v *Viewport) clamp() {
	if v.Bottom == 0 {
		v.Top, v.Current = 0, 0
		return
	}
	if v.Top < 0 {
		v.Top = 0
	}
	if v.Top > v.Bottom-1 {
		v.Top = v.Bottom - 1
	}
	if v.Current >= v.MaxLines {
		v.Current = v.MaxLines - 1
	}
	if v.Current < 0 {
		v.Current = 0
	}
	if v.Top+v.Current > v.Bottom-1 {
		v.Current = v.Bottom - 1 - v.Top
	}
}
