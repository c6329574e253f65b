package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stevedore/internal/docker"
	"stevedore/internal/history"
)

// Inventory supplies the current workload listing each tick.
type Inventory interface {
	List(ctx context.Context) ([]docker.Workload, error)
}

// Executor dispatches restart requests. Dispatches are fire-and-forget;
// the dashboard never waits on completion.
type Executor interface {
	Restart(ctx context.Context, id string) error
}

// fetchFailThreshold is how many consecutive fetch failures it takes before
// the footer starts warning. A single failed poll stays invisible.
const fetchFailThreshold = 3

// chromeRows are the fixed rows around the grid: title, subtitle, spacer,
// and the footer.
const chromeRows = 4

// recentActionLimit caps the recent-restarts modal.
const recentActionLimit = 15

type tickMsg time.Time

type workloadsMsg struct {
	items []docker.Workload
	err   error
}

type restartDoneMsg struct {
	id   string
	name string
	err  error
}

type lastActionMsg struct {
	action history.Action
	ok     bool
}

type recentActionsMsg struct {
	actions []history.Action
}

// lastAction is the footer's record of the most recent restart dispatch.
type lastAction struct {
	name   string
	failed bool
}

// App is the root bubbletea model. It owns the viewport state exclusively;
// navigation intents and refreshed counts are the only way it changes.
type App struct {
	inv   Inventory
	exec  Executor
	store *history.Store // nil = audit disabled
	cfg   Config
	theme Theme

	workloads  []docker.Workload
	vp         Viewport
	selectedID string // keeps the cursor on the same container across refreshes

	width      int
	height     int
	fetchFails int
	last       *lastAction

	showHelp    bool
	showActions bool
	recent      []history.Action
}

// NewApp creates the dashboard model. The store may be nil when the audit
// log is disabled.
func NewApp(inv Inventory, exec Executor, store *history.Store, cfg Config) App {
	return App{
		inv:   inv,
		exec:  exec,
		store: store,
		cfg:   cfg,
		theme: BuildTheme(cfg.Theme),
		vp:    NewViewport(1, cfg.Grid.RowsPerColumn),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchCmd(a.inv)}
	if a.store != nil {
		cmds = append(cmds, loadLastActionCmd(a.store), pruneCmd(a.store, a.cfg.History.RetentionDays))
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		lines := msg.Height - chromeRows
		if lines < 1 {
			lines = 1
		}
		a.vp.Resize(lines)
		return a, nil

	case tickMsg:
		return a, fetchCmd(a.inv)

	case workloadsMsg:
		if msg.err != nil {
			// Transient fetch failure: show an empty grid this tick and
			// keep polling. The selected id survives for reconciliation
			// once the daemon answers again.
			a.fetchFails++
			a.workloads = nil
			a.vp.SetBottom(0)
		} else {
			a.fetchFails = 0
			a.workloads = msg.items
			a.vp.SetBottom(len(msg.items))
			a.reconcileSelection()
		}
		return a, scheduleTick(a.cfg.Docker.Refresh.Duration)

	case restartDoneMsg:
		if msg.err != nil {
			a.last = &lastAction{name: msg.name, failed: true}
		}
		if a.store != nil {
			outcome := ""
			if msg.err != nil {
				outcome = msg.err.Error()
			}
			return a, recordActionCmd(a.store, history.Action{
				Timestamp:   time.Now(),
				ContainerID: msg.id,
				Name:        msg.name,
				Outcome:     outcome,
			})
		}
		return a, nil

	case lastActionMsg:
		// Seed the footer from the audit log, but never clobber an action
		// taken this session.
		if msg.ok && a.last == nil {
			a.last = &lastAction{name: msg.action.Name, failed: msg.action.Outcome != ""}
		}
		return a, nil

	case recentActionsMsg:
		a.recent = msg.actions
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Help modal blocks all input.
	if a.showHelp {
		if key == "?" || key == "esc" || key == "q" {
			a.showHelp = false
		}
		return a, nil
	}

	if a.showActions {
		if key == "a" || key == "esc" || key == "q" {
			a.showActions = false
		}
		return a, nil
	}

	switch key {
	case "esc", "q":
		return a, tea.Quit

	case "?":
		a.showHelp = true
		return a, nil

	case "a":
		if a.store == nil {
			return a, nil
		}
		a.showActions = true
		return a, recentActionsCmd(a.store)

	case "up", "k":
		a.move(DirUp)
	case "down", "j":
		a.move(DirDown)
	case "left", "h":
		a.move(DirLeft)
	case "right", "l":
		a.move(DirRight)

	case "pgup":
		a.vp.PageUp()
		a.rememberSelection()
	case "pgdown":
		a.vp.PageDown()
		a.rememberSelection()

	case "enter":
		cmd := a.activate()
		return a, cmd
	}

	return a, nil
}

func (a *App) move(d Direction) {
	a.vp.Apply(d)
	a.rememberSelection()
}

// rememberSelection records the id under the cursor so the next refresh can
// find it again even if the daemon reorders the listing.
func (a *App) rememberSelection() {
	if abs := a.vp.Absolute(); abs < len(a.workloads) {
		a.selectedID = a.workloads[abs].ID
	}
}

// reconcileSelection re-derives the cursor from the remembered id after a
// refresh. When the container is gone the clamped positional index stands.
func (a *App) reconcileSelection() {
	if a.selectedID != "" {
		for i, w := range a.workloads {
			if w.ID == a.selectedID {
				a.vp.Select(i)
				break
			}
		}
	}
	a.rememberSelection()
}

// activate dispatches a restart for the selected workload. A no-op when the
// grid is empty. The footer optimistically reports the dispatch; failures
// overwrite it when the worker reports back.
func (a *App) activate() tea.Cmd {
	if len(a.workloads) == 0 {
		return nil
	}
	w := a.workloads[a.vp.Absolute()]
	a.last = &lastAction{name: w.Name}
	return restartCmd(a.exec, w)
}

func fetchCmd(inv Inventory) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		items, err := inv.List(ctx)
		return workloadsMsg{items: items, err: err}
	}
}

func scheduleTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func restartCmd(exec Executor, w docker.Workload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return restartDoneMsg{id: w.ID, name: w.Name, err: exec.Restart(ctx, w.ID)}
	}
}

func recordActionCmd(store *history.Store, a history.Action) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Audit failures never disturb the dashboard.
		_ = store.Record(ctx, a)
		return nil
	}
}

func loadLastActionCmd(store *history.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		action, ok, err := store.Last(ctx)
		if err != nil {
			return nil
		}
		return lastActionMsg{action: action, ok: ok}
	}
}

func recentActionsCmd(store *history.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		actions, err := store.Recent(ctx, recentActionLimit)
		if err != nil {
			return nil
		}
		return recentActionsMsg{actions: actions}
	}
}

func pruneCmd(store *history.Store, retentionDays int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = store.Prune(ctx, time.Duration(retentionDays)*24*time.Hour)
		return nil
	}
}
