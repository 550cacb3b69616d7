// Package tui renders a feed in the terminal and drives it from the keyboard.
//
// The bubbletea update loop is the only goroutine that touches the feed, and
// feedback expiry arrives on it as a tick message.
package tui

import (
	"time"

	"vibefeed/internal/feed"
	"vibefeed/internal/models"
	"vibefeed/internal/postview"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeComment
	modeCompose
)

// expireMsg asks the model to sweep expired feedback.
type expireMsg struct{ at time.Time }

// Model is the bubbletea model for the feed page.
type Model struct {
	feed   *feed.Feed
	clock  func() time.Time
	styles Styles

	// renderer formats post bodies as markdown; nil falls back to plain text.
	renderer *glamour.TermRenderer

	cursor int
	mode   inputMode
	input  textinput.Model
	// armed is the deadline of the outstanding expiry tick, zero if none.
	armed time.Time

	width  int
	height int
	status string
}

// NewModel creates the feed page. clock must be the clock the feed's posts use.
func NewModel(f *feed.Feed, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	in := textinput.New()
	in.CharLimit = 500
	in.Width = 60
	return Model{
		feed:     f,
		clock:    clock,
		styles:   DefaultStyles(),
		renderer: newRenderer(80),
		input:    in,
		width:    80,
	}
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-12, 10)
		m.renderer = newRenderer(msg.Width)
		return m, nil
	case expireMsg:
		if m.armed.Equal(msg.at) {
			m.armed = time.Time{}
		}
		m.feed.Sweep()
		cmd := m.schedule()
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeComment:
			return m.updateComment(msg)
		case modeCompose:
			return m.updateCompose(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	post := m.current()

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.feed.Len()-1 {
			m.cursor++
		}
	case "1", "2", "3", "4", "5":
		if post == nil {
			break
		}
		kinds := models.AllReactionKinds()
		kind := kinds[int(key[0]-'1')]
		if _, err := post.Select(kind); err != nil {
			m.status = err.Error()
		}
	case " ":
		if post != nil {
			post.QuickToggle()
		}
	case "p":
		if post == nil {
			break
		}
		if post.View().PickerOpen {
			post.ClosePicker()
		} else {
			post.OpenPicker()
		}
	case "c":
		if post != nil {
			post.ToggleComments()
		}
	case "i":
		if post == nil {
			break
		}
		if !post.View().CommentsOpen {
			post.ToggleComments()
		}
		m.mode = modeComment
		m.input.Placeholder = "Write a comment..."
		m.input.SetValue(post.CommentInput())
		cmd := m.input.Focus()
		return m, cmd
	case "n":
		m.mode = modeCompose
		m.input.Placeholder = "Share something interesting..."
		m.input.SetValue(m.feed.Draft())
		cmd := m.input.Focus()
		return m, cmd
	}
	cmd := m.schedule()
	return m, cmd
}

func (m Model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	post := m.current()
	if post == nil {
		m.mode = modeBrowse
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if _, ok := post.AddComment(); ok {
			m.input.SetValue(post.CommentInput())
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	post.SetCommentInput(m.input.Value())
	return m, cmd
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if _, ok := m.feed.Publish(); ok {
			m.cursor = 0
			m.mode = modeBrowse
			m.input.SetValue("")
			m.input.Blur()
			m.status = "Posted"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.feed.SetDraft(m.input.Value())
	return m, cmd
}

// schedule arms an expiry tick for the earliest feedback deadline unless an
// earlier one is already pending.
func (m *Model) schedule() tea.Cmd {
	deadline, ok := m.feed.NextDeadline()
	if !ok {
		return nil
	}
	if !m.armed.IsZero() && !deadline.Before(m.armed) {
		return nil
	}
	m.armed = deadline
	wait := deadline.Sub(m.clock())
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return expireMsg{at: deadline}
	})
}

func (m Model) current() *postview.InteractivePost {
	posts := m.feed.Posts()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return nil
	}
	return posts[m.cursor]
}
