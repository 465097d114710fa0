// Package contextpane shows the context assembled for the current query.
package contextpane

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
)

// PreviewLength is the number of context characters displayed.
const PreviewLength = 1000

// Pane is a scrollable, bordered view of the assembled context.
type Pane struct {
	styles   *styles.Styles
	viewport viewport.Model
	content  string
}

// New creates an empty context pane.
func New(s *styles.Styles) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Pane{
		styles:   s,
		viewport: viewport.New(78, 8),
	}
}

// SetContext replaces the displayed context, keeping the first PreviewLength characters.
func (p *Pane) SetContext(text string) {
	p.content = Preview(text)
	p.viewport.SetContent(p.content)
	p.viewport.GotoTop()
}

// Content returns the displayed text.
func (p *Pane) Content() string {
	return p.content
}

// Update scrolls the pane on page keys.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the pane, or nothing when there is no context.
func (p *Pane) View() string {
	if p.content == "" {
		return ""
	}
	title := p.styles.Subtitle.Render("Context")
	return lipgloss.JoinVertical(lipgloss.Left, title, p.styles.ContextPane.Render(p.viewport.View()))
}

// SetDimensions sizes the pane, border included.
func (p *Pane) SetDimensions(width, height int) {
	frameW, frameH := p.styles.ContextPane.GetFrameSize()
	p.viewport.Width = max(width-frameW, 10)
	p.viewport.Height = max(height-frameH-1, 1)
}

// Preview truncates text to PreviewLength characters, marking the cut.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}
