package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, source DashboardSource, in io.Reader, out io.Writer) error {
	m, err := New(ctx, source, Config{Theme: Default, Keys: DefaultKeyMap()})
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal dashboard: %w", err)
	}
	return nil
}
