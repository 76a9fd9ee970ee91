package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"sonar/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Query     string
	TextInput *textinput.Model // non-nil while the form has focus
	K         int

	Searching   bool
	ActiveQuery string
	Elapsed     time.Duration

	Result          *domain.SearchResult
	ErrorMessage    string
	ShowDiagnostics bool

	ResultBody    string // pre-rendered result body, full length
	ScrollOffset  int    // first visible body line
	BodyHeight    int    // rows available for the body
	ScrollPercent float64

	Health        *domain.HealthStatus
	StatusMessage string

	ShowHelp bool

	ShowHistory  bool
	History      []domain.HistoryEntry
	HistoryIndex int
	ConfirmClear bool

	Bubbles string // pre-rendered idle animation frame
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's styles for components drawn by the model.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// ResultBody renders the scrollable body for a finished search.
func (r *Renderer) ResultBody(result *domain.SearchResult, width int, showDiagnostics bool) string {
	return r.resultRender.Render(result, width, showDiagnostics)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80 // Default terminal width
	}
	availableWidth := termWidth - 4 // Account for main container padding

	content.WriteString(r.renderTitleLine(state, availableWidth))
	content.WriteString("\n\n")

	content.WriteString(r.renderFormLine(state, availableWidth))
	content.WriteString("\n\n")

	// Every failure collapses into this single line.
	if state.ErrorMessage != "" {
		content.WriteString(r.styles.StatusError.Render("✗ " + state.ErrorMessage))
		content.WriteString("\n\n")
	}

	content.WriteString(r.renderBody(state))

	// Footer pinned to the bottom
	footer := r.renderFooter(state, availableWidth)
	if footer != "" {
		currentLines := strings.Count(content.String(), "\n") + 1

		// Account for container padding (1 top, 1 bottom from Padding(1, 2))
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22 // Default terminal height minus padding
		}

		footerLines := strings.Count(footer, "\n") + 1
		paddingNeeded := availableLines - currentLines - footerLines
		if paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}

		content.WriteString("\n")
		content.WriteString(footer)
	}

	// Apply main container style
	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.ShowHistory {
		historyContent := r.renderHistoryContent(state)
		return r.popupRender.RenderPopupOverlay(finalContent, historyContent, state.Height, state.Width, r.styles.HistoryBox)
	}

	if state.ShowHelp {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderHelpContent(), state.Height, state.Width, r.styles.HelpBox)
	}

	return finalContent
}

// renderTitleLine builds the logo line with right-aligned indicators.
func (r *Renderer) renderTitleLine(state ViewState, availableWidth int) string {
	logo := r.styles.Title.Render("sonar")

	indicators := []string{}
	if state.Searching {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, fmt.Sprintf("%s %s (%s)",
			spinner[frame], truncate(state.ActiveQuery, 24), formatElapsed(state.Elapsed)))
	}
	if state.ShowDiagnostics {
		indicators = append(indicators, "diagnostics on")
	}

	rightContent := ""
	if len(indicators) > 0 {
		rightContent = r.styles.Dim.Render(strings.Join(indicators, " | "))
	}
	if state.Health != nil {
		dot := lipgloss.NewStyle().
			Foreground(lipgloss.Color(HealthColor(state.Health.OK))).
			Render("●")
		apiText := fmt.Sprintf("%s api", dot)
		if rightContent != "" {
			rightContent = fmt.Sprintf("%s  %s", rightContent, apiText)
		} else {
			rightContent = apiText
		}
	}

	if rightContent == "" {
		return logo
	}

	logoWidth := lipgloss.Width(logo)
	rightWidth := lipgloss.Width(rightContent)
	paddingWidth := availableWidth - logoWidth - rightWidth
	if paddingWidth > 0 {
		return fmt.Sprintf("%s%s%s", logo, strings.Repeat(" ", paddingWidth), rightContent)
	}
	// If not enough space, just show with minimal spacing
	return fmt.Sprintf("%s  %s", logo, rightContent)
}

// renderFormLine builds the query prompt with the k badge on the right.
func (r *Renderer) renderFormLine(state ViewState, availableWidth int) string {
	prompt := r.styles.Prompt.Render("❯ ")

	var field string
	switch {
	case state.TextInput != nil:
		field = state.TextInput.View()
	case state.Query != "":
		field = state.Query
	default:
		field = r.styles.Dim.Render("press / to ask")
	}

	kBadge := r.styles.KBadge.Render(fmt.Sprintf("k=%d", state.K))

	line := prompt + field
	paddingWidth := availableWidth - lipgloss.Width(line) - lipgloss.Width(kBadge)
	if paddingWidth > 0 {
		return fmt.Sprintf("%s%s%s", line, strings.Repeat(" ", paddingWidth), kBadge)
	}
	return fmt.Sprintf("%s  %s", line, kBadge)
}

// renderBody picks the main content area: the finished result, or the
// idle animation with a hint line under it.
func (r *Renderer) renderBody(state ViewState) string {
	if state.Result != nil {
		return r.renderResultWindow(state)
	}

	body := ""
	if state.Bubbles != "" {
		body = state.Bubbles + "\n"
	}
	switch {
	case state.Searching:
		body += r.styles.Dim.Render(fmt.Sprintf("searching \"%s\"", truncate(state.ActiveQuery, 48)))
	case state.ErrorMessage != "":
		body += r.styles.Dim.Render("press enter to retry")
	default:
		body += r.styles.Dim.Render("ask anything and press enter")
	}
	return body
}

// renderResultWindow slices the visible portion out of the result body,
// adding scroll indicators when content continues past an edge.
func (r *Renderer) renderResultWindow(state ViewState) string {
	lines := strings.Split(state.ResultBody, "\n")
	height := state.BodyHeight
	if height <= 0 || len(lines) <= height {
		return state.ResultBody
	}

	offset := state.ScrollOffset
	maxOffset := len(lines) - height
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}

	needsTopIndicator := offset > 0
	needsBottomIndicator := offset < maxOffset

	effectiveHeight := height
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	var out []string
	if needsTopIndicator {
		out = append(out, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	end := offset + effectiveHeight
	if end > len(lines) {
		end = len(lines)
	}
	out = append(out, lines[offset:end]...)
	if needsBottomIndicator {
		itemsBelow := len(lines) - end
		if itemsBelow < 0 {
			itemsBelow = 0
		}
		out = append(out, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	}

	return strings.Join(out, "\n")
}

// renderFooter builds the status line plus context help.
func (r *Renderer) renderFooter(state ViewState, availableWidth int) string {
	var lines []string
	if state.StatusMessage != "" {
		lines = append(lines, r.styles.Status.Render(state.StatusMessage))
	}

	helpText := r.styles.Help.Render(r.shortHelp(state))
	if state.Result != nil && state.ScrollPercent > 0 {
		pct := r.styles.Scroll.Render(fmt.Sprintf("%3.0f%%", state.ScrollPercent*100))
		paddingWidth := availableWidth - lipgloss.Width(helpText) - lipgloss.Width(pct)
		if paddingWidth > 0 {
			helpText = fmt.Sprintf("%s%s%s", helpText, strings.Repeat(" ", paddingWidth), pct)
		}
	}
	lines = append(lines, helpText)

	return strings.Join(lines, "\n")
}

func (r *Renderer) shortHelp(state ViewState) string {
	switch {
	case state.Searching:
		return "esc cancel • ? help • q quit"
	case state.TextInput != nil:
		return "enter search • ↑/↓ sources • esc done"
	case state.Result != nil:
		return "c copy • o pager • 1-9 open source • d diagnostics • ? help"
	default:
		return "/ ask • h history • ? help • q quit"
	}
}

// renderHistoryContent renders the history popup body.
func (r *Renderer) renderHistoryContent(state ViewState) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Heading.Render("Search history"))
	sb.WriteString("\n\n")

	if len(state.History) == 0 {
		sb.WriteString(r.styles.Dim.Render("No searches yet."))
		sb.WriteString("\n")
	} else {
		for i, entry := range state.History {
			query := truncate(entry.Query, 36)
			meta := r.styles.Dim.Render(fmt.Sprintf("  k=%d • %d sources • %s",
				entry.K, entry.SourceCount, timeAgo(entry.CreatedAt)))
			if i == state.HistoryIndex {
				sb.WriteString(r.styles.Prompt.Render("▸ "))
				sb.WriteString(r.styles.Highlight.Render(query))
			} else {
				sb.WriteString("  ")
				sb.WriteString(query)
			}
			sb.WriteString(meta)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if state.ConfirmClear {
		sb.WriteString(r.styles.Confirm.Render("Clear all history? (y/n)"))
	} else {
		sb.WriteString(r.styles.Dim.Render("enter recall • x clear all • esc close"))
	}
	return sb.String()
}

// renderHelpContent renders the help information
func (r *Renderer) renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	// Title
	help.WriteString(titleStyle.Render("Sonar Help"))
	help.WriteString("\n")

	// Query section
	help.WriteString(sectionStyle.Render("Query"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s        %s\n", keyStyle.Render("Enter"), descStyle.Render("Run the search")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("/, i"), descStyle.Render("Edit the query")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("↑/↓"), descStyle.Render("More/fewer sources (in the form)")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("+/-"), descStyle.Render("More/fewer sources")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("r"), descStyle.Render("Run the query again")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("Esc"), descStyle.Render("Cancel a running search")))

	// Results section
	help.WriteString(sectionStyle.Render("Results"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s     %s\n", keyStyle.Render("j/k, ↑/↓"), descStyle.Render("Scroll the answer")))
	help.WriteString(fmt.Sprintf("  %s    %s\n", keyStyle.Render("PgUp/PgDn"), descStyle.Render("Page up/down")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("g/G"), descStyle.Render("Go to top/bottom")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("c"), descStyle.Render("Copy the answer")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("o"), descStyle.Render("Open the answer in a pager")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("1-9"), descStyle.Render("Open a source in the browser")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("d"), descStyle.Render("Toggle diagnostics")))

	// History section
	help.WriteString(sectionStyle.Render("History"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("h"), descStyle.Render("Browse past searches")))
	help.WriteString(fmt.Sprintf("  %s        %s\n", keyStyle.Render("Enter"), descStyle.Render("Recall the selected answer")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("x"), descStyle.Render("Clear all history")))

	// Other section
	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("?"), descStyle.Render("Toggle this help")))
	help.WriteString(fmt.Sprintf("  %s            %s", keyStyle.Render("q"), descStyle.Render("Quit")))

	return help.String()
}

// formatElapsed renders a duration the way it reads in the status line.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// timeAgo renders a timestamp relative to now.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
