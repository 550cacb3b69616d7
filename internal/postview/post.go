// Package postview implements the interactive state of a single post: the
// viewer's reaction, the like counter derived from it, the floating reaction
// feedback and the locally appended comment thread.
package postview

import (
	"math/rand/v2"
	"strings"
	"time"

	"vibefeed/internal/feedback"
	"vibefeed/internal/models"
	"vibefeed/internal/reaction"

	"github.com/google/uuid"
)

// Options configure posts created by New. Zero values select defaults.
type Options struct {
	Viewer   models.Author
	Lifetime time.Duration
	Rand     *rand.Rand
	Clock    func() time.Time
	NewID    func() string
	Observer Observer
}

// WithDefaults fills zero fields with their defaults.
func (o Options) WithDefaults() Options {
	if o.Viewer.Name == "" {
		o.Viewer = models.DefaultViewer
	}
	if o.Lifetime <= 0 {
		o.Lifetime = feedback.Lifetime
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// InteractivePost is one post as seen by the local viewer. It is not safe
// for concurrent use; its owner serialises all calls.
type InteractivePost struct {
	seed     models.PostSeed
	opts     Options
	state    reaction.State
	likes    int
	feedback *feedback.Queue

	commentsOpen bool
	input        string
	// thread is newest first.
	thread []models.Comment
}

// New creates a post view seeded with server data.
func New(seed models.PostSeed, opts Options) *InteractivePost {
	opts = opts.WithDefaults()
	return &InteractivePost{
		seed:     seed,
		opts:     opts,
		likes:    seed.Likes,
		feedback: feedback.NewQueue(opts.Lifetime, opts.Rand),
	}
}

func (p *InteractivePost) ID() string { return p.seed.ID }

// Seed returns the immutable server data.
func (p *InteractivePost) Seed() models.PostSeed { return p.seed }

// Apply runs ev through the reaction machine and performs its effects.
func (p *InteractivePost) Apply(ev reaction.Event) (reaction.Effects, error) {
	next, fx, err := reaction.Transition(p.state, ev)
	if err != nil {
		return fx, err
	}
	p.state = next
	p.likes += fx.CounterDelta
	if fx.Feedback != "" {
		emitted := p.feedback.Emit(fx.Feedback, p.opts.Clock())
		p.opts.Observer.FeedbackEmitted(p.seed.ID, emitted)
	}
	if ev.Type == reaction.Select || ev.Type == reaction.QuickToggle {
		p.opts.Observer.ReactionApplied(p.seed.ID, ev, fx, p.likes)
	}
	return fx, nil
}

// Select picks kind from the picker.
func (p *InteractivePost) Select(kind models.ReactionKind) (reaction.Effects, error) {
	return p.Apply(reaction.SelectEvent(kind))
}

// QuickToggle handles a click on the main reaction button.
func (p *InteractivePost) QuickToggle() reaction.Effects {
	fx, _ := p.Apply(reaction.Event{Type: reaction.QuickToggle})
	return fx
}

func (p *InteractivePost) OpenPicker() {
	p.state.PickerOpen = true
}

func (p *InteractivePost) ClosePicker() {
	p.state.PickerOpen = false
}

// Reaction returns the current reaction, empty when unset.
func (p *InteractivePost) Reaction() models.ReactionKind { return p.state.Kind }

// LikeCount is the seeded like count adjusted by the viewer's reaction.
func (p *InteractivePost) LikeCount() int { return p.likes }

// Sweep drops expired feedback events and returns them.
func (p *InteractivePost) Sweep() []models.FeedbackEvent {
	expired := p.feedback.Expire(p.opts.Clock())
	if len(expired) > 0 {
		p.opts.Observer.FeedbackExpired(p.seed.ID, expired)
	}
	return expired
}

// NextDeadline is the earliest pending feedback expiry.
func (p *InteractivePost) NextDeadline() (time.Time, bool) {
	return p.feedback.NextDeadline()
}

// Feedback returns the feedback events visible now.
func (p *InteractivePost) Feedback() []models.FeedbackEvent {
	return p.feedback.Live(p.opts.Clock())
}

func (p *InteractivePost) ToggleComments() {
	p.commentsOpen = !p.commentsOpen
}

func (p *InteractivePost) SetCommentInput(text string) {
	p.input = text
}

func (p *InteractivePost) CommentInput() string { return p.input }

// AddComment prepends the input buffer as a comment by the viewer and clears
// the buffer. Blank input is ignored and left in place.
func (p *InteractivePost) AddComment() (models.Comment, bool) {
	if strings.TrimSpace(p.input) == "" {
		return models.Comment{}, false
	}
	c := models.Comment{
		ID:        p.opts.NewID(),
		Author:    p.opts.Viewer.Name,
		Body:      p.input,
		AvatarURL: p.opts.Viewer.AvatarURL,
		Timestamp: models.RelativeNow,
	}
	p.thread = append([]models.Comment{c}, p.thread...)
	p.input = ""
	p.opts.Observer.CommentAdded(p.seed.ID, c, p.CommentCount())
	return c, true
}

// Comments returns the local thread, newest first.
func (p *InteractivePost) Comments() []models.Comment {
	out := make([]models.Comment, len(p.thread))
	copy(out, p.thread)
	return out
}

// CommentCount is the seeded comment count plus the local thread.
func (p *InteractivePost) CommentCount() int {
	return p.seed.Comments + len(p.thread)
}
