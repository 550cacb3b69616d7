// Package session runs a feed on a single goroutine. Every event and every
// feedback expiry is handled on that goroutine, one at a time, so the feed
// never sees concurrent mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vibefeed/internal/feed"
	"vibefeed/internal/models"
	"vibefeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// ErrSessionClosed is returned by Dispatch once the session has stopped.
var ErrSessionClosed = errors.New("session closed")

// EventType names the operations a session accepts.
type EventType string

const (
	EventSelect         EventType = "select"
	EventQuickToggle    EventType = "quick_toggle"
	EventOpenPicker     EventType = "open_picker"
	EventClosePicker    EventType = "close_picker"
	EventToggleComments EventType = "toggle_comments"
	EventCommentInput   EventType = "comment_input"
	EventAddComment     EventType = "add_comment"
	EventDraft          EventType = "draft"
	EventPublish        EventType = "publish"
	// EventSnapshot changes nothing and just returns the current view.
	EventSnapshot EventType = "snapshot"
)

// Event is one UI input. PostID is required for post events, Kind for
// EventSelect and Text for EventCommentInput and EventDraft.
type Event struct {
	Type   EventType
	PostID string
	Kind   models.ReactionKind
	Text   string
}

// Options configure a Session. Zero values select defaults.
type Options struct {
	Name    string
	Logger  *observability.FeedLogger
	Metrics *observability.Metrics
	// Clock must be the clock the feed's posts use.
	Clock func() time.Time
	// OnExpire is called on the session goroutine after a timer sweep removed
	// at least one feedback event.
	OnExpire func(feed.Snapshot)
}

type result struct {
	snap feed.Snapshot
	err  error
}

type request struct {
	ctx   context.Context
	ev    Event
	reply chan result
}

// Session owns a feed and serialises access to it.
type Session struct {
	feed *feed.Feed
	opts Options

	requests chan request
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	runOnce  sync.Once

	// correlationID is set by Run and read only on the loop goroutine.
	correlationID string
}

// New creates a session for f. Call Run to start processing.
func New(f *feed.Feed, opts Options) *Session {
	if opts.Name == "" {
		opts.Name = "feed"
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewFeedLogger(opts.Name, nil)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Session{
		feed:     f,
		opts:     opts,
		requests: make(chan request),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled or Stop is called. It must be
// called at most once.
func (s *Session) Run(ctx context.Context) error {
	err := errors.New("session already running")
	s.runOnce.Do(func() {
		err = s.loop(ctx)
	})
	return err
}

func (s *Session) loop(ctx context.Context) error {
	defer close(s.done)

	if observability.ExtractCorrelationID(ctx) == "" {
		ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
	}
	s.correlationID = observability.ExtractCorrelationID(ctx)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	s.opts.Logger.LogLifecycle(ctx, "started", map[string]interface{}{"posts": s.feed.Len()})
	defer s.opts.Logger.LogLifecycle(ctx, "stopped", nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case req := <-s.requests:
			snap, err := s.handle(req.ctx, req.ev)
			req.reply <- result{snap: snap, err: err}
		case <-timer.C:
			if s.feed.Sweep() > 0 && s.opts.OnExpire != nil {
				s.opts.OnExpire(s.feed.View())
			}
		}
		s.arm(timer)
	}
}

// arm points the timer at the earliest pending feedback expiry.
func (s *Session) arm(timer *time.Timer) {
	deadline, ok := s.feed.NextDeadline()
	if !ok {
		timer.Stop()
		return
	}
	wait := deadline.Sub(s.opts.Clock())
	if wait < 0 {
		wait = 0
	}
	timer.Reset(wait)
}

// Dispatch applies ev and returns the feed as it looks afterwards. It waits
// for Run to pick the event up, so callers need a running session or a ctx
// with a deadline.
func (s *Session) Dispatch(ctx context.Context, ev Event) (feed.Snapshot, error) {
	req := request{ctx: ctx, ev: ev, reply: make(chan result, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return feed.Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return feed.Snapshot{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.snap, res.err
	case <-ctx.Done():
		return feed.Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the current view of the feed.
func (s *Session) Snapshot(ctx context.Context) (feed.Snapshot, error) {
	return s.Dispatch(ctx, Event{Type: EventSnapshot})
}

// Stop ends Run. It is safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed when Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) handle(ctx context.Context, ev Event) (feed.Snapshot, error) {
	if observability.ExtractCorrelationID(ctx) == "" {
		ctx = observability.WithCorrelationID(ctx, s.correlationID)
	}
	span, ctx := observability.NewSpan(ctx, "session.dispatch")
	defer span.End()
	span.AddAttributes(
		attribute.String("session", s.opts.Name),
		attribute.String("event", string(ev.Type)),
		attribute.String("post_id", ev.PostID),
	)
	if s.opts.Metrics != nil {
		defer s.opts.Metrics.TrackDispatch(string(ev.Type))()
	}

	s.feed.Sweep()
	if err := s.apply(ev); err != nil {
		span.SetError(err)
		s.opts.Logger.LogError(ctx, err, string(ev.Type), slog.String("trace_id", span.TraceID()))
		return s.feed.View(), err
	}
	return s.feed.View(), nil
}

func (t EventType) valid() bool {
	switch t {
	case EventSelect, EventQuickToggle, EventOpenPicker, EventClosePicker, EventToggleComments,
		EventCommentInput, EventAddComment, EventDraft, EventPublish, EventSnapshot:
		return true
	}
	return false
}

func (s *Session) apply(ev Event) error {
	if !ev.Type.valid() {
		return models.NewValidationError(fmt.Sprintf("unknown event %q", ev.Type))
	}
	switch ev.Type {
	case EventSnapshot:
		return nil
	case EventDraft:
		s.feed.SetDraft(ev.Text)
		return nil
	case EventPublish:
		s.feed.Publish()
		return nil
	}

	post, err := s.feed.Post(ev.PostID)
	if err != nil {
		return err
	}
	switch ev.Type {
	case EventSelect:
		_, err = post.Select(ev.Kind)
	case EventQuickToggle:
		post.QuickToggle()
	case EventOpenPicker:
		post.OpenPicker()
	case EventClosePicker:
		post.ClosePicker()
	case EventToggleComments:
		post.ToggleComments()
	case EventCommentInput:
		post.SetCommentInput(ev.Text)
	case EventAddComment:
		post.AddComment()
	}
	return err
}
