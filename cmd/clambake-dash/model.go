package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"clambake/internal/config"
)

// tickMsg triggers the periodic refresh.
type tickMsg time.Time

// snapshotMsg carries a fetched snapshot, or the error that prevented one.
type snapshotMsg struct {
	snap *Snapshot
	err  error
}

// tickCmd schedules the next periodic refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd fetches a snapshot of the coordination database.
func fetchSnapshotCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		snap, err := FetchSnapshot(context.Background(), dbPath)
		return snapshotMsg{snap: snap, err: err}
	}
}

// Tab identifies which data view is active.
type Tab int

const (
	// TabInstances shows registered instances and their heartbeats.
	TabInstances Tab = iota
	// TabTasks shows the task queue.
	TabTasks
	// TabMessages shows the last day of message traffic.
	TabMessages

	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabInstances:
		return "Instances"
	case TabTasks:
		return "Tasks"
	case TabMessages:
		return "Messages"
	default:
		return "?"
	}
}

// keyMap defines the dashboard key bindings.
type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the Bubble Tea model for the clambake dashboard.
type Model struct {
	cfg    *config.Config
	theme  Theme
	styles Styles
	keys   keyMap

	activeTab Tab
	tables    [tabCount]table.Model

	snapshot   *Snapshot
	err        error
	lastUpdate time.Time

	width  int
	height int
}

// newModel creates a Model with empty tables; the first snapshot arrives
// via Init's fetch command.
func newModel(cfg *config.Config) Model {
	theme := DefaultTheme()
	m := Model{
		cfg:    cfg,
		theme:  theme,
		styles: NewStyles(theme),
		keys:   defaultKeyMap(),
	}

	columns := [tabCount][]table.Column{
		TabInstances: instanceColumns(),
		TabTasks:     taskColumns(),
		TabMessages:  messageColumns(),
	}
	for i := range m.tables {
		m.tables[i] = table.New(
			table.WithColumns(columns[i]),
			table.WithFocused(true),
			table.WithHeight(10),
		)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.cfg.DBPath), tickCmd()}
	if watch := watchStateDir(filepath.Dir(m.cfg.DBPath)); watch != nil {
		cmds = append(cmds, watch)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, fetchSnapshotCmd(m.cfg.DBPath)
		}
		// Remaining keys scroll the active table.
		var cmd tea.Cmd
		m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Leave room for the title, tab bar, and status bar.
		tableHeight := msg.Height - 6
		if tableHeight < 3 {
			tableHeight = 3
		}
		for i := range m.tables {
			m.tables[i].SetHeight(tableHeight)
		}

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.snap
		m.lastUpdate = time.Now()
		m.tables[TabInstances].SetRows(instanceRows(msg.snap.Instances))
		m.tables[TabTasks].SetRows(taskRows(msg.snap.Tasks))
		m.tables[TabMessages].SetRows(messageRows(msg.snap.Messages))

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.cfg.DBPath), tickCmd())

	case fsChangeMsg:
		// Refetch immediately and re-arm the watcher for the next batch.
		cmds := []tea.Cmd{fetchSnapshotCmd(m.cfg.DBPath)}
		if watch := watchStateDir(filepath.Dir(m.cfg.DBPath)); watch != nil {
			cmds = append(cmds, watch)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}
