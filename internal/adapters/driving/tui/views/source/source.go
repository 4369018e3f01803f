// Package source provides the retrieved document view for the TUI.
package source

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vedika/internal/core/domain"
)

// View shows one retrieved document with its metadata.
type View struct {
	styles *styles.Styles

	result       *domain.QueryResult
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new source view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetResult sets the document to display.
func (v *View) SetResult(result domain.QueryResult) {
	v.result = &result
	v.scrollOffset = 0
}

// Result returns the displayed document.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// Update handles messages for the source view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAsk}
		}
	}
	return v, nil
}

func (v *View) visibleLines() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent lists the reserved fields first, then the record fields
// in key order.
func (v *View) buildContent() []string {
	if v.result == nil {
		return nil
	}
	doc := v.result.Document

	lines := []string{
		formatField("ID", doc.ID),
		formatField("Category", doc.Category()),
		formatField("Batch", doc.Metadata[domain.MetadataSourceBatch]),
		formatField("Distance", fmt.Sprintf("%.6f", v.result.Distance)),
		"",
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(doc.EmbeddingText)
	lines = append(lines, strings.Split(wrapped, "\n")...)

	var fields []string
	for key := range doc.Metadata {
		if strings.HasPrefix(key, domain.MetadataFieldPrefix) {
			fields = append(fields, key)
		}
	}
	if len(fields) > 0 {
		sort.Strings(fields)
		lines = append(lines, "", "Fields:")
		for _, key := range fields {
			value := doc.Metadata[key]
			if value == "" {
				value = "Unknown"
			}
			lines = append(lines, fmt.Sprintf("  %s: %s",
				strings.TrimPrefix(key, domain.MetadataFieldPrefix), truncate(value, width-20)))
		}
	}
	return lines
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// View renders the source view.
func (v *View) View() string {
	var b strings.Builder

	title := "Source"
	if v.result != nil {
		if name := v.result.Document.RecordName(); name != "" {
			title = name
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No document selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		line := lines[i]
		switch {
		case line == "Fields:":
			b.WriteString(v.styles.Subtitle.Render(line))
		case strings.HasPrefix(line, "  "):
			b.WriteString(v.styles.Muted.Render(line))
		default:
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
