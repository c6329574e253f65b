package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"stevedore/internal/docker"
	"stevedore/internal/history"
)

type fakeInventory struct {
	items []docker.Workload
	err   error
}

func (f *fakeInventory) List(ctx context.Context) ([]docker.Workload, error) {
	return f.items, f.err
}

type fakeExecutor struct {
	calls []string
	err   error
}

func (f *fakeExecutor) Restart(ctx context.Context, id string) error {
	f.calls = append(f.calls, id)
	return f.err
}

func testConfig() Config {
	cfg := *DefaultConfig()
	cfg.Grid.RowsPerColumn = 3
	cfg.Grid.ColumnWidth = 12
	cfg.Docker.Refresh.Duration = time.Second
	return cfg
}

// step feeds one message through Update and returns the new model plus cmd.
func step(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestApp(t *testing.T, items []docker.Workload) (App, *fakeExecutor) {
	t.Helper()
	exec := &fakeExecutor{}
	a := NewApp(&fakeInventory{items: items}, exec, nil, testConfig())
	a, _ = step(t, a, tea.WindowSizeMsg{Width: 80, Height: 14})
	a, _ = step(t, a, workloadsMsg{items: items})
	return a, exec
}

func plainView(a App) string {
	return ansi.Strip(a.View())
}

func TestEmptyInventoryFooter(t *testing.T) {
	a, _ := newTestApp(t, nil)
	view := plainView(a)
	for _, want := range []string{"0 UP", "0 RESTART", "0 DOWN"} {
		if !strings.Contains(view, want) {
			t.Fatalf("footer missing %q:\n%s", want, view)
		}
	}
}

func TestActivateOnEmptyIsNoOp(t *testing.T) {
	a, exec := newTestApp(t, nil)
	a, cmd := step(t, a, key("enter"))
	if cmd != nil {
		t.Fatalf("enter on empty grid returned a command")
	}
	if len(exec.calls) != 0 {
		t.Fatalf("executor called on empty grid: %v", exec.calls)
	}
	if a.last != nil {
		t.Fatalf("last action recorded on empty grid: %+v", a.last)
	}
}

func TestActivateRestartsSelected(t *testing.T) {
	items := []docker.Workload{
		{ID: "id-a", Name: "web"},
		{ID: "id-b", Name: "db"},
		{ID: "id-c", Name: "cache"},
	}
	a, exec := newTestApp(t, items)

	a, _ = step(t, a, key("down"))
	a, _ = step(t, a, key("down"))

	a, cmd := step(t, a, key("enter"))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	msg := cmd()
	done, ok := msg.(restartDoneMsg)
	if !ok {
		t.Fatalf("restart command returned %T", msg)
	}
	if done.id != "id-c" || done.err != nil {
		t.Fatalf("restartDoneMsg = %+v, want id-c dispatched", done)
	}
	if len(exec.calls) != 1 || exec.calls[0] != "id-c" {
		t.Fatalf("executor calls = %v, want exactly [id-c]", exec.calls)
	}

	// The footer reports the dispatch optimistically on the next paint.
	if view := plainView(a); !strings.Contains(view, "RESTART INITIATED ON CONTAINER cache") {
		t.Fatalf("footer missing last action:\n%s", view)
	}
}

func TestRestartFailureShownInFooter(t *testing.T) {
	items := []docker.Workload{{ID: "id-a", Name: "web"}}
	a, exec := newTestApp(t, items)
	exec.err = errors.New("daemon gone")

	a, cmd := step(t, a, key("enter"))
	a, _ = step(t, a, cmd())

	if view := plainView(a); !strings.Contains(view, "RESTART FAILED FOR CONTAINER web") {
		t.Fatalf("footer missing failure:\n%s", view)
	}
}

func TestFetchFailureIsZeroEntities(t *testing.T) {
	items := []docker.Workload{{ID: "id-a", Name: "web"}}
	a, _ := newTestApp(t, items)

	a, cmd := step(t, a, workloadsMsg{err: errors.New("cannot connect")})
	if cmd == nil {
		t.Fatal("fetch failure stopped the tick loop")
	}
	if len(a.workloads) != 0 || a.vp.Bottom != 0 {
		t.Fatalf("fetch failure did not clear the tick: %d workloads", len(a.workloads))
	}

	// One failure stays quiet.
	if view := plainView(a); strings.Contains(view, "UNREACHABLE") {
		t.Fatalf("warning shown after a single failure:\n%s", view)
	}

	a, _ = step(t, a, workloadsMsg{err: errors.New("cannot connect")})
	a, _ = step(t, a, workloadsMsg{err: errors.New("cannot connect")})
	if view := plainView(a); !strings.Contains(view, "DOCKER UNREACHABLE") {
		t.Fatalf("no warning after repeated failures:\n%s", view)
	}

	// Recovery clears the warning.
	a, _ = step(t, a, workloadsMsg{items: items})
	if view := plainView(a); strings.Contains(view, "UNREACHABLE") {
		t.Fatalf("warning survived recovery:\n%s", view)
	}
}

func TestSelectionFollowsIdentity(t *testing.T) {
	items := []docker.Workload{
		{ID: "id-a", Name: "web"},
		{ID: "id-b", Name: "db"},
		{ID: "id-c", Name: "cache"},
	}
	a, _ := newTestApp(t, items)
	a, _ = step(t, a, key("down")) // cursor on id-b

	// The daemon reorders the listing.
	reordered := []docker.Workload{
		{ID: "id-c", Name: "cache"},
		{ID: "id-a", Name: "web"},
		{ID: "id-b", Name: "db"},
	}
	a, _ = step(t, a, workloadsMsg{items: reordered})
	if got := a.vp.Absolute(); got != 2 {
		t.Fatalf("cursor did not follow id-b: index %d", got)
	}
}

func TestSelectionFallsBackWhenGone(t *testing.T) {
	items := []docker.Workload{
		{ID: "id-a", Name: "web"},
		{ID: "id-b", Name: "db"},
		{ID: "id-c", Name: "cache"},
	}
	a, _ := newTestApp(t, items)
	a, _ = step(t, a, key("down"))
	a, _ = step(t, a, key("down")) // cursor on id-c

	a, _ = step(t, a, workloadsMsg{items: items[:2]})
	if got := a.vp.Absolute(); got != 1 {
		t.Fatalf("cursor not clamped after removal: index %d", got)
	}
	if a.selectedID != "id-b" {
		t.Fatalf("selected id = %q, want id-b", a.selectedID)
	}
}

func TestGridShowsOnlyVisibleWindow(t *testing.T) {
	var items []docker.Workload
	for _, n := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"} {
		items = append(items, docker.Workload{ID: n, Name: n})
	}
	a, _ := newTestApp(t, items)
	// Height 14 leaves a 10-row window; shrink it to force scrolling.
	a, _ = step(t, a, tea.WindowSizeMsg{Width: 80, Height: 7}) // 3-row window
	a, _ = step(t, a, workloadsMsg{items: items})

	view := plainView(a)
	for _, want := range []string{"alpha", "bravo", "charlie"} {
		if !strings.Contains(view, want) {
			t.Fatalf("visible workload %q missing:\n%s", want, view)
		}
	}
	for _, not := range []string{"delta", "echo", "foxtrot"} {
		if strings.Contains(view, not) {
			t.Fatalf("off-window workload %q rendered:\n%s", not, view)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"esc", "q"} {
		a, _ := newTestApp(t, nil)
		_, cmd := step(t, a, key(k))
		if cmd == nil {
			t.Fatalf("%s did not quit", k)
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Fatalf("%s returned %v, want tea.Quit", k, msg)
		}
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a, _ = step(t, a, key("?"))
	if view := plainView(a); !strings.Contains(view, "restart the selected container") {
		t.Fatalf("help overlay missing:\n%s", view)
	}
	// Help blocks navigation and a second ? closes it.
	a, _ = step(t, a, key("?"))
	if view := plainView(a); strings.Contains(view, "restart the selected container") {
		t.Fatalf("help overlay did not close:\n%s", view)
	}
}

func TestLastActionSeededFromStore(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a, _ = step(t, a, lastActionMsg{action: history.Action{Name: "web"}, ok: true})
	if view := plainView(a); !strings.Contains(view, "RESTART INITIATED ON CONTAINER web") {
		t.Fatalf("footer not seeded from store:\n%s", view)
	}

	// A fresh action from this session is never clobbered by the seed.
	a.last = &lastAction{name: "db"}
	a, _ = step(t, a, lastActionMsg{action: history.Action{Name: "web"}, ok: true})
	if a.last.name != "db" {
		t.Fatalf("seed clobbered session action: %+v", a.last)
	}
}

func TestCountHealth(t *testing.T) {
	items := []docker.Workload{
		{Health: "healthy"},
		{Health: "healthy"},
		{Health: "starting"},
		{Health: "unhealthy"},
		{Health: ""},
		{Health: "none"},
	}
	c := countHealth(items)
	if c.up != 2 || c.starting != 1 || c.down != 1 || c.absent != 2 {
		t.Fatalf("countHealth = %+v", c)
	}
}
