// Package feed holds the ordered list of posts shown on the home page and
// the composer used to publish new ones.
package feed

import (
	"strings"
	"time"

	"vibefeed/internal/models"
	"vibefeed/internal/postview"
)

// Feed is newest first. Like the posts it owns, it is not safe for
// concurrent use.
type Feed struct {
	opts  postview.Options
	posts []*postview.InteractivePost
	byID  map[string]*postview.InteractivePost
	draft string
}

// New builds a feed from seeds, keeping their order.
func New(seeds []models.PostSeed, opts postview.Options) *Feed {
	opts = opts.WithDefaults()
	f := &Feed{
		opts: opts,
		byID: make(map[string]*postview.InteractivePost, len(seeds)),
	}
	for _, s := range seeds {
		p := postview.New(s, opts)
		f.posts = append(f.posts, p)
		f.byID[s.ID] = p
	}
	return f
}

// Post looks a post up by ID.
func (f *Feed) Post(id string) (*postview.InteractivePost, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return p, nil
}

// Posts returns the posts, newest first.
func (f *Feed) Posts() []*postview.InteractivePost {
	out := make([]*postview.InteractivePost, len(f.posts))
	copy(out, f.posts)
	return out
}

func (f *Feed) Len() int { return len(f.posts) }

func (f *Feed) SetDraft(text string) { f.draft = text }

func (f *Feed) Draft() string { return f.draft }

// Publish turns the draft into a new post at the top of the feed. Blank
// drafts are ignored and left untouched.
func (f *Feed) Publish() (*postview.InteractivePost, bool) {
	if strings.TrimSpace(f.draft) == "" {
		return nil, false
	}
	opts := f.opts
	p := postview.New(models.PostSeed{
		ID:        opts.NewID(),
		Author:    opts.Viewer,
		Content:   f.draft,
		Timestamp: models.RelativeNow,
	}, f.opts)

	f.posts = append([]*postview.InteractivePost{p}, f.posts...)
	f.byID[p.ID()] = p
	f.draft = ""
	opts.Observer.PostPublished(p.ID())
	return p, true
}

// Sweep expires feedback on every post and returns how many events were removed.
func (f *Feed) Sweep() int {
	n := 0
	for _, p := range f.posts {
		n += len(p.Sweep())
	}
	return n
}

// NextDeadline is the earliest feedback expiry across the feed.
func (f *Feed) NextDeadline() (time.Time, bool) {
	var (
		next  time.Time
		found bool
	)
	for _, p := range f.posts {
		d, ok := p.NextDeadline()
		if ok && (!found || d.Before(next)) {
			next, found = d, true
		}
	}
	return next, found
}

// Snapshot is a read-only projection of the whole feed.
type Snapshot struct {
	Draft string
	Posts []postview.Snapshot
}

func (f *Feed) View() Snapshot {
	s := Snapshot{Draft: f.draft, Posts: make([]postview.Snapshot, len(f.posts))}
	for i, p := range f.posts {
		s.Posts[i] = p.View()
	}
	return s
}
