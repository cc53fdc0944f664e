// Package tui is the terminal front-end of the campaign dashboard.
package tui

import (
	"context"
	"maps"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"flashsale-dashboard/internal/models"
)

// DashboardSource computes the dashboard for a filter selection.
// *services.Analytics satisfies it.
type DashboardSource interface {
	Options() (models.FilterOptions, error)
	Dashboard(ctx context.Context, sel models.Selection) (models.Dashboard, error)
}

const (
	columnCategory = iota
	columnPromo
	columnSegment
	columnCount
)

type filterColumn struct {
	title    string
	values   []string
	selected map[string]bool
	cursor   int
}

func newFilterColumn(title string, values []string) filterColumn {
	return filterColumn{
		title:    title,
		values:   values,
		selected: make(map[string]bool, len(values)),
	}
}

// chosen returns the selected values in option order.
func (c filterColumn) chosen() []string {
	out := make([]string, 0, len(c.selected))
	for _, v := range c.values {
		if c.selected[v] {
			out = append(out, v)
		}
	}
	return out
}

func (c *filterColumn) toggle() {
	if len(c.values) == 0 {
		return
	}
	v := c.values[c.cursor]
	if c.selected[v] {
		delete(c.selected, v)
	} else {
		c.selected[v] = true
	}
}

func (c *filterColumn) move(delta int) {
	if len(c.values) == 0 {
		return
	}
	c.cursor = min(max(c.cursor+delta, 0), len(c.values)-1)
}

type Config struct {
	Theme  Theme
	Keys   KeyMap
	Width  int
	Height int
}

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	ctx     context.Context
	source  DashboardSource
	theme   Theme
	keys    KeyMap
	help    help.Model
	columns [columnCount]filterColumn
	active  int
	dash    models.Dashboard
	err     error
	width   int
	height  int
}

// New builds the model and computes the unfiltered dashboard.
func New(ctx context.Context, source DashboardSource, cfg Config) (Model, error) {
	if cfg.Theme.HeatLevels == nil {
		cfg.Theme = Default
	}
	if len(cfg.Keys.Quit.Keys()) == 0 {
		cfg.Keys = DefaultKeyMap()
	}

	opts, err := source.Options()
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:    ctx,
		source: source,
		theme:  cfg.Theme,
		keys:   cfg.Keys,
		help:   help.New(),
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.columns[columnCategory] = newFilterColumn("Product category", opts.Categories)
	m.columns[columnPromo] = newFilterColumn("Promo type", opts.Promos)
	m.columns[columnSegment] = newFilterColumn("User segment", opts.Segments)
	m.help.Width = cfg.Width

	m.refresh()
	return m, m.err
}

// Selection is the current filter state.
func (m Model) Selection() models.Selection {
	return models.Selection{
		Categories: m.columns[columnCategory].chosen(),
		Promos:     m.columns[columnPromo].chosen(),
		Segments:   m.columns[columnSegment].chosen(),
	}
}

func (m Model) Dashboard() models.Dashboard {
	return m.dash
}

func (m *Model) refresh() {
	dash, err := m.source.Dashboard(m.ctx, m.Selection())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.dash = dash
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col := &m.columns[m.active]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextColumn):
		m.active = (m.active + 1) % columnCount
	case key.Matches(msg, m.keys.PrevColumn):
		m.active = (m.active + columnCount - 1) % columnCount
	case key.Matches(msg, m.keys.Up):
		col.move(-1)
	case key.Matches(msg, m.keys.Down):
		col.move(1)
	case key.Matches(msg, m.keys.Toggle):
		// Copies of the model returned by earlier updates share the map.
		col.selected = maps.Clone(col.selected)
		col.toggle()
		m.refresh()
	case key.Matches(msg, m.keys.Clear):
		m.columns[m.active].selected = map[string]bool{}
		m.refresh()
	case key.Matches(msg, m.keys.Reset):
		for i := range m.columns {
			m.columns[i].selected = map[string]bool{}
			m.columns[i].cursor = 0
		}
		m.refresh()
	}
	return m, nil
}

var _ tea.Model = Model{}
