package tui

import (
	"fmt"
	"strings"

	"vibefeed/internal/models"
	"vibefeed/internal/postview"

	"github.com/charmbracelet/lipgloss"
)

const helpText = "↑/↓ move · 1-5 react · space ❤️ · p picker · c comments · i comment · n post · q quit"

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Social Feed"))
	b.WriteString("\n\n")

	if m.mode == modeCompose {
		b.WriteString(m.styles.Prompt.Render("What's on your mind?"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	snap := m.feed.View()
	for i, post := range snap.Posts {
		b.WriteString(m.renderPost(post, i == m.cursor))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render(helpText))
	return b.String()
}

func (m Model) renderPost(p postview.Snapshot, selected bool) string {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	var lines []string
	if len(p.Feedback) > 0 {
		lines = append(lines, feedbackLine(p.Feedback, inner))
	}
	lines = append(lines,
		fmt.Sprintf("%s %s",
			m.styles.Author.Render(p.Author.Name),
			m.styles.Muted.Render(fmt.Sprintf("@%s · %s", p.Author.Username, p.Timestamp))),
		m.body(p.Content, inner),
	)
	if p.ImageURL != "" {
		lines = append(lines, m.styles.Muted.Render("[image] "+p.ImageURL))
	}
	lines = append(lines, m.counters(p))
	if p.PickerOpen {
		lines = append(lines, m.picker(p.Reaction))
	}
	if p.CommentsOpen {
		lines = append(lines, m.comments(p, selected)...)
	}

	card := m.styles.Card
	if selected {
		card = m.styles.Selected
	}
	return card.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) body(content string, width int) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return m.styles.Body.Width(width).Render(content)
}

func (m Model) counters(p postview.Snapshot) string {
	reaction := m.styles.Counter.Render(fmt.Sprintf("♡ %d", p.Likes))
	if p.Reaction != "" {
		reaction = ReactionStyle(p.Reaction.Color()).Render(fmt.Sprintf("%s %d", p.Reaction.Glyph(), p.Likes))
	}
	return strings.Join([]string{
		reaction,
		m.styles.Counter.Render(fmt.Sprintf("💬 %d", p.Comments)),
		m.styles.Counter.Render(fmt.Sprintf("↗ %d", p.Shares)),
	}, "   ")
}

func (m Model) picker(active models.ReactionKind) string {
	parts := make([]string, 0, 5)
	for i, kind := range models.AllReactionKinds() {
		label := fmt.Sprintf("%d %s", i+1, kind.Glyph())
		if kind == active {
			label = ReactionStyle(kind.Color()).Underline(true).Render(label)
		}
		parts = append(parts, label)
	}
	return m.styles.Picker.Render(strings.Join(parts, "  "))
}

func (m Model) comments(p postview.Snapshot, selected bool) []string {
	var lines []string
	if selected && m.mode == modeComment {
		lines = append(lines, m.styles.Prompt.Render("› ")+m.input.View())
	} else if p.CommentInput != "" {
		lines = append(lines, m.styles.Muted.Render("› "+p.CommentInput))
	}
	for _, c := range p.Thread {
		lines = append(lines, m.styles.Comment.Render(fmt.Sprintf("%s %s\n%s",
			m.styles.Author.Render(c.Author), m.styles.Muted.Render(c.Timestamp), c.Body)))
	}
	return lines
}

// feedbackLine places each glyph at its horizontal position. The terminal
// has no room for the vertical coordinate, so events are ordered left to right.
func feedbackLine(evs []models.FeedbackEvent, width int) string {
	line := ""
	for _, ev := range evs {
		col := int(ev.X / 100 * float64(width-2))
		if pad := col - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		} else if line != "" {
			line += " "
		}
		line += ev.Glyph
	}
	return line
}
