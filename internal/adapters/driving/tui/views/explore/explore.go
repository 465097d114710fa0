// Package explore provides the interactive search view: a query input,
// ranked results and the context a generator would receive.
package explore

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/contextpane"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// ResultLimit is the number of results requested per query.
const ResultLimit = 3

// View is the explorer's single screen.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	pane      *contextpane.Pane
	statusbar *status.Bar

	retriever driving.Retriever
	actions   driving.ResultActionService
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
	query      string
}

// NewView creates the explore view. actions may be nil, which disables copy and open.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retriever driving.Retriever,
	actions driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		pane:       contextpane.New(s),
		statusbar:  status.NewBar(s, km),
		retriever:  retriever,
		actions:    actions,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			v.statusbar.SetMessage(msg.Err.Error())
		} else {
			v.statusbar.SetMessage(msg.Message)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		return v, quit
	}

	if v.focusInput {
		if keymap.Matches(msg.String(), v.keymap.Search) {
			query := v.input.Submit()
			if query == "" {
				return v, nil
			}
			v.query = query
			v.focusInput = false
			v.input.Blur()
			v.statusbar.SetState(status.StateSearching)
			v.statusbar.SetMessage("")
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, quit
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(key, v.keymap.NewSearch):
		return v, v.newSearch()
	case keymap.Matches(key, v.keymap.Copy):
		return v, v.copySelected()
	case keymap.Matches(key, v.keymap.Open):
		return v, v.openSelected()
	default:
		var cmd tea.Cmd
		v.pane, cmd = v.pane.Update(msg)
		return v, cmd
	}
	return v, nil
}

func quit() tea.Msg {
	return messages.Quit{}
}

// newSearch clears the query and returns focus to the input.
func (v *View) newSearch() tea.Cmd {
	v.focusInput = true
	v.input.Reset()
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	return v.input.Focus()
}

// performSearch runs the query and assembles its context off the UI loop.
func (v *View) performSearch(query string) tea.Cmd {
	retriever, ctx := v.retriever, v.ctx
	return func() tea.Msg {
		if retriever == nil {
			return messages.ErrorOccurred{Err: ErrNoRetriever}
		}

		results, err := retriever.Search(ctx, query, domain.SearchOptions{Limit: ResultLimit})
		if err != nil {
			return messages.SearchCompleted{Query: query, Err: err}
		}

		text, err := retriever.GetContext(ctx, query, domain.ContextOptions{})
		if err != nil {
			return messages.SearchCompleted{Query: query, Err: err}
		}
		return messages.SearchCompleted{Query: query, Results: results, Context: text}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != v.query {
		return
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.pane.SetContext(msg.Context)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) copySelected() tea.Cmd {
	ctx := v.ctx
	return v.resultAction("Copied to clipboard", func(a driving.ResultActionService, r *domain.RetrievalResult) error {
		return a.CopyToClipboard(ctx, r)
	})
}

func (v *View) openSelected() tea.Cmd {
	ctx := v.ctx
	return v.resultAction("Opening source", func(a driving.ResultActionService, r *domain.RetrievalResult) error {
		return a.OpenSource(ctx, r)
	})
}

// resultAction runs fn on a copy of the selected result.
func (v *View) resultAction(
	done string,
	fn func(driving.ResultActionService, *domain.RetrievalResult) error,
) tea.Cmd {
	selected := v.list.SelectedResult()
	if selected == nil {
		return nil
	}
	result := *selected
	actions := v.actions
	return func() tea.Msg {
		if actions == nil {
			return messages.ActionCompleted{Err: ErrNoActions}
		}
		if err := fn(actions, &result); err != nil {
			return messages.ActionCompleted{Err: err}
		}
		return messages.ActionCompleted{Message: done}
	}
}

// View renders the explore view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("kbase explorer"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.statusbar.State() == status.StateResults {
		sections = append(sections, v.list.View())
		if pane := v.pane.View(); pane != "" {
			sections = append(sections, "", pane)
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions splits the height between the result list and the context pane.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	body := max(height-8, 4)
	v.input.SetWidth(width)
	v.list.SetDimensions(width, body/2)
	v.pane.SetDimensions(width, body-body/2)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the last submitted query.
func (v *View) Query() string {
	return v.query
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}

// Results returns the current results.
func (v *View) Results() []domain.RetrievalResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Context returns the displayed context excerpt.
func (v *View) Context() string {
	return v.pane.Content()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
