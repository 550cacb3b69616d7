package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"vibefeed/internal/feed"
	"vibefeed/internal/models"
	"vibefeed/internal/postview"
	"vibefeed/internal/seed"

	tea "github.com/charmbracelet/bubbletea"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestModel() (Model, *testClock) {
	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	f := feed.New(seed.Defaults(), postview.Options{
		Clock: clock.Now,
		Rand:  rand.New(rand.NewPCG(9, 9)),
	})
	return NewModel(f, clock.Now), clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func TestModel_ReactionKeys(t *testing.T) {
	m, _ := newTestModel()

	m, cmd := send(t, m, runes("1"))
	if cmd == nil {
		t.Fatal("expected an expiry tick after reacting")
	}
	view := m.feed.View().Posts[0]
	if view.Reaction != models.ReactionLove || view.Likes != 25 {
		t.Fatalf("after 1: reaction=%q likes=%d", view.Reaction, view.Likes)
	}

	m, _ = send(t, m, runes("2"))
	view = m.feed.View().Posts[0]
	if view.Reaction != models.ReactionLike || view.Likes != 25 {
		t.Fatalf("after 2: reaction=%q likes=%d, want like/25", view.Reaction, view.Likes)
	}

	m, _ = send(t, m, runes("2"))
	view = m.feed.View().Posts[0]
	if view.Reaction != "" || view.Likes != 24 {
		t.Fatalf("after 2 again: reaction=%q likes=%d, want none/24", view.Reaction, view.Likes)
	}
}

func TestModel_CursorAndQuickToggle(t *testing.T) {
	m, _ := newTestModel()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped)", m.cursor)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if got := m.feed.View().Posts[2].Likes; got != 19 {
		t.Errorf("likes = %d, want 19", got)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestModel_PickerToggle(t *testing.T) {
	m, _ := newTestModel()

	m, _ = send(t, m, runes("p"))
	if !m.feed.View().Posts[0].PickerOpen {
		t.Fatal("picker should open")
	}
	if !strings.Contains(m.View(), "3 😂") {
		t.Error("picker should be rendered")
	}
	m, _ = send(t, m, runes("3"))
	if m.feed.View().Posts[0].PickerOpen {
		t.Error("selecting closes the picker")
	}
}

func TestModel_FeedbackExpiresOnTick(t *testing.T) {
	m, clock := newTestModel()

	m, cmd := send(t, m, runes("1"))
	if cmd == nil {
		t.Fatal("expected tick")
	}
	if len(m.feed.View().Posts[0].Feedback) != 1 {
		t.Fatal("expected one feedback event")
	}
	if !strings.Contains(m.View(), "❤️") {
		t.Error("feedback glyph should render")
	}

	clock.now = clock.now.Add(2 * time.Second)
	m, _ = send(t, m, expireMsg{at: m.armed})
	if len(m.feed.View().Posts[0].Feedback) != 0 {
		t.Fatal("feedback should be gone after 2s")
	}
	if !m.armed.IsZero() {
		t.Error("no tick should remain armed")
	}
}

func TestModel_AddComment(t *testing.T) {
	m, _ := newTestModel()

	m, _ = send(t, m, runes("i"))
	if m.mode != modeComment {
		t.Fatal("expected comment mode")
	}
	if !m.feed.View().Posts[0].CommentsOpen {
		t.Fatal("comment panel should open")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.feed.View().Posts[0].Comments; got != 8 {
		t.Fatalf("blank comment changed count to %d", got)
	}

	m, _ = send(t, m, runes("Nice!"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	post := m.feed.View().Posts[0]
	if post.Comments != 9 || len(post.Thread) != 1 {
		t.Fatalf("comments=%d thread=%d, want 9/1", post.Comments, len(post.Thread))
	}
	if post.Thread[0].Body != "Nice!" || post.Thread[0].Author != "You" {
		t.Errorf("unexpected comment %+v", post.Thread[0])
	}
	if m.input.Value() != "" || post.CommentInput != "" {
		t.Error("input should be cleared")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse {
		t.Error("esc returns to browse mode")
	}
}

func TestModel_ComposePost(t *testing.T) {
	m, _ := newTestModel()
	m.cursor = 2

	m, _ = send(t, m, runes("n"))
	m, _ = send(t, m, runes("Hello there"))
	if m.feed.Draft() != "Hello there" {
		t.Fatalf("draft = %q", m.feed.Draft())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	posts := m.feed.View().Posts
	if len(posts) != 4 || posts[0].Content != "Hello there" {
		t.Fatalf("new post not prepended: %+v", posts[0])
	}
	if m.cursor != 0 || m.mode != modeBrowse {
		t.Errorf("cursor=%d mode=%d", m.cursor, m.mode)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := send(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFeedbackLine(t *testing.T) {
	evs := []models.FeedbackEvent{
		{Glyph: "👍", X: 0},
		{Glyph: "😢", X: 50},
	}
	line := feedbackLine(evs, 42)
	if !strings.HasPrefix(line, "👍") || !strings.HasSuffix(line, "😢") {
		t.Errorf("unexpected line %q", line)
	}
}

func TestView_PostBody(t *testing.T) {
	m, _ := newTestModel()
	if !strings.Contains(m.View(), "sunset") {
		t.Error("markdown body missing")
	}

	m.renderer = nil
	if !strings.Contains(m.View(), "Beautiful sunset") {
		t.Error("plain body missing")
	}
}
