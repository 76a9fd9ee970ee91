package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sonar/internal/domain"
)

// ResultRenderer renders a finished search into the scrollable body
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{styles: styles}
}

// Render produces the query echo, the answer and the numbered source
// list. When showDiagnostics is set the raw backend exchange is
// appended below the sources; an empty answer falls back to showing
// the raw body on its own.
func (rr *ResultRenderer) Render(result *domain.SearchResult, width int, showDiagnostics bool) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(rr.styles.Prompt.Render("❯ "))
	sb.WriteString(rr.styles.Dim.Render(result.Response.Query))
	sb.WriteString("\n\n")

	answer := strings.TrimSpace(result.Response.Answer)
	if answer == "" {
		sb.WriteString(rr.styles.Dim.Render("The backend returned no answer."))
		if !showDiagnostics && strings.TrimSpace(result.RawBody) != "" {
			sb.WriteString("\n\n")
			sb.WriteString(rr.styles.Dim.Render(result.RawBody))
		}
	} else {
		sb.WriteString(wrapText(answer, width))
	}
	sb.WriteString("\n")

	if len(result.Response.Sources) > 0 {
		sb.WriteString("\n")
		sb.WriteString(rr.styles.Heading.Render("Sources"))
		sb.WriteString("\n")
		for i, src := range result.Response.Sources {
			sb.WriteString(rr.renderSource(i, src))
		}
	}

	if showDiagnostics {
		sb.WriteString("\n")
		sb.WriteString(rr.renderDiagnostics(result))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSource renders one numbered source line plus its link.
func (rr *ResultRenderer) renderSource(index int, src domain.Source) string {
	title := strings.TrimSpace(src.Title)
	if title == "" {
		title = src.Link
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n",
		rr.styles.SourceIndex.Render(fmt.Sprintf("[%d]", index+1)), title))
	if src.Link != "" && src.Link != title {
		sb.WriteString("    ")
		sb.WriteString(rr.styles.SourceLink.Render(src.Link))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDiagnostics shows the exchange as it came off the wire. The raw
// body is printed verbatim, not re-marshaled, so encoding oddities from
// the backend stay visible.
func (rr *ResultRenderer) renderDiagnostics(result *domain.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(rr.styles.Heading.Render("Diagnostics"))
	sb.WriteString("\n")
	sb.WriteString(rr.styles.Dim.Render(fmt.Sprintf("request   %s", result.ID)))
	sb.WriteString("\n")
	sb.WriteString(rr.styles.Dim.Render(fmt.Sprintf("status    %d", result.Status)))
	sb.WriteString("\n")
	sb.WriteString(rr.styles.Dim.Render(fmt.Sprintf("elapsed   %s", formatElapsed(result.Duration))))
	sb.WriteString("\n")
	sb.WriteString(rr.styles.Dim.Render(fmt.Sprintf("sources   %d (k=%d requested)", len(result.Response.Sources), result.K)))
	sb.WriteString("\n\n")
	sb.WriteString(rr.styles.Dim.Render(result.RawBody))
	sb.WriteString("\n")
	return sb.String()
}

// wrapText wraps text to the given width, leaving it untouched when the
// width is unknown.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
