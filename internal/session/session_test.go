package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"vibefeed/internal/feed"
	"vibefeed/internal/models"
	"vibefeed/internal/observability"
	"vibefeed/internal/postview"
	"vibefeed/internal/seed"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSession(t *testing.T, lifetime time.Duration, opts Options) *Session {
	t.Helper()
	f := feed.New(seed.Defaults(), postview.Options{
		Lifetime: lifetime,
		Rand:     rand.New(rand.NewPCG(1, 1)),
	})
	s := New(f, opts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Run(context.Background())
	}()
	t.Cleanup(func() {
		s.Stop()
		wg.Wait()
	})
	return s
}

func TestSession_ReactionScenario(t *testing.T) {
	t.Parallel()
	s := startSession(t, time.Minute, Options{})
	ctx := context.Background()

	snap, err := s.Dispatch(ctx, Event{Type: EventSelect, PostID: "1", Kind: models.ReactionLove})
	require.NoError(t, err)
	assert.Equal(t, 25, snap.Posts[0].Likes)
	require.Len(t, snap.Posts[0].Feedback, 1)
	assert.Equal(t, "❤️", snap.Posts[0].Feedback[0].Glyph)

	snap, err = s.Dispatch(ctx, Event{Type: EventSelect, PostID: "1", Kind: models.ReactionLove})
	require.NoError(t, err)
	assert.Equal(t, 24, snap.Posts[0].Likes)
	assert.Len(t, snap.Posts[0].Feedback, 1)

	snap, err = s.Dispatch(ctx, Event{Type: EventSelect, PostID: "1", Kind: models.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, 25, snap.Posts[0].Likes)
	require.Len(t, snap.Posts[0].Feedback, 2)
	assert.Equal(t, "👍", snap.Posts[0].Feedback[1].Glyph)
}

func TestSession_CommentScenario(t *testing.T) {
	t.Parallel()
	s := startSession(t, time.Minute, Options{})
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Event{Type: EventCommentInput, PostID: "1", Text: "   "})
	require.NoError(t, err)
	snap, err := s.Dispatch(ctx, Event{Type: EventAddComment, PostID: "1"})
	require.NoError(t, err)
	assert.Equal(t, 8, snap.Posts[0].Comments)
	assert.Equal(t, "   ", snap.Posts[0].CommentInput)

	_, err = s.Dispatch(ctx, Event{Type: EventCommentInput, PostID: "1", Text: "Nice!"})
	require.NoError(t, err)
	snap, err = s.Dispatch(ctx, Event{Type: EventAddComment, PostID: "1"})
	require.NoError(t, err)
	post := snap.Posts[0]
	assert.Equal(t, 9, post.Comments)
	require.Len(t, post.Thread, 1)
	assert.Equal(t, "You", post.Thread[0].Author)
	assert.Equal(t, "Nice!", post.Thread[0].Body)
	assert.Empty(t, post.CommentInput)
}

func TestSession_PublishAndPicker(t *testing.T) {
	t.Parallel()
	s := startSession(t, time.Minute, Options{})
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Event{Type: EventDraft, Text: "hello feed"})
	require.NoError(t, err)
	snap, err := s.Dispatch(ctx, Event{Type: EventPublish})
	require.NoError(t, err)
	require.Len(t, snap.Posts, 4)
	assert.Equal(t, "hello feed", snap.Posts[0].Content)
	assert.Empty(t, snap.Draft)

	snap, err = s.Dispatch(ctx, Event{Type: EventOpenPicker, PostID: "2"})
	require.NoError(t, err)
	assert.True(t, snap.Posts[2].PickerOpen)

	snap, err = s.Dispatch(ctx, Event{Type: EventQuickToggle, PostID: "2"})
	require.NoError(t, err)
	assert.False(t, snap.Posts[2].PickerOpen)
	assert.Equal(t, models.ReactionLove, snap.Posts[2].Reaction)
	assert.Equal(t, 43, snap.Posts[2].Likes)

	snap, err = s.Dispatch(ctx, Event{Type: EventToggleComments, PostID: "2"})
	require.NoError(t, err)
	assert.True(t, snap.Posts[2].CommentsOpen)
}

func TestSession_FeedbackExpiresOnTimer(t *testing.T) {
	t.Parallel()
	expired := make(chan feed.Snapshot, 4)
	metrics := observability.NewMetrics()
	s := startSession(t, 40*time.Millisecond, Options{
		Metrics:  metrics,
		OnExpire: func(snap feed.Snapshot) { expired <- snap },
	})
	ctx := context.Background()

	snap, err := s.Dispatch(ctx, Event{Type: EventSelect, PostID: "3", Kind: models.ReactionSad})
	require.NoError(t, err)
	require.Len(t, snap.Posts[2].Feedback, 1)

	select {
	case snap = <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("feedback did not expire")
	}
	assert.Empty(t, snap.Posts[2].Feedback)
	assert.Equal(t, 19, snap.Posts[2].Likes)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.DispatchLatency))
}

func TestSession_Errors(t *testing.T) {
	t.Parallel()
	s := startSession(t, time.Minute, Options{})
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Event{Type: EventSelect, PostID: "missing", Kind: models.ReactionLove})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	snap, err := s.Dispatch(ctx, Event{Type: EventSelect, PostID: "1", Kind: "wow"})
	assert.True(t, models.HasCode(err, models.CodeValidation))
	assert.Equal(t, 24, snap.Posts[0].Likes)

	_, err = s.Dispatch(ctx, Event{Type: "dance", PostID: "1"})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestSession_DispatchAfterStop(t *testing.T) {
	t.Parallel()
	s := startSession(t, time.Minute, Options{})

	s.Stop()
	<-s.Done()
	_, err := s.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	s.Stop()
}

func TestSession_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	s := New(feed.New(seed.Defaults(), postview.Options{}), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	_, err := s.Snapshot(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Error(t, s.Run(context.Background()), "second Run is rejected")
}

func TestSession_DispatchHonoursContext(t *testing.T) {
	t.Parallel()
	s := New(feed.New(nil, postview.Options{}), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_ErrorLogsCarryIDs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := observability.NewFeedLogger("ids", observability.NewLogger(&buf, "info", "json"))
	s := startSession(t, time.Minute, Options{Logger: logger})

	_, err := s.Dispatch(context.Background(), Event{Type: EventSelect, PostID: "1", Kind: "wow"})
	require.Error(t, err)
	ctx := observability.WithCorrelationID(context.Background(), "req-1")
	_, err = s.Dispatch(ctx, Event{Type: EventSelect, PostID: "nope", Kind: models.ReactionLove})
	require.Error(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 3)
	assert.Equal(t, "session lifecycle", entries[0]["msg"])
	sessionID, _ := entries[0]["correlation_id"].(string)
	require.NotEmpty(t, sessionID)

	assert.Equal(t, "feed error", entries[1]["msg"])
	assert.Equal(t, sessionID, entries[1]["correlation_id"])
	traceID, _ := entries[1]["trace_id"].(string)
	assert.Len(t, traceID, 32)

	assert.Equal(t, "req-1", entries[2]["correlation_id"])
}
