package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/views/explore"
)

// App is the explorer program model.
type App struct {
	ports   *Ports
	ctx     context.Context
	explore *explore.View
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the explorer with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		explore: explore.NewView(s, nil, ports.Retriever, ports.ResultAction),
	}, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.explore.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("kbase explorer"),
		a.explore.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.explore, cmd = a.explore.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	return a.explore.View()
}

// Explore returns the explore view.
func (a *App) Explore() *explore.View {
	return a.explore
}
