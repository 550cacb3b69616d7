package postview

import (
	"vibefeed/internal/models"
	"vibefeed/internal/reaction"
)

// Observer receives notifications about state changes. Calls are made
// synchronously from the goroutine that owns the post.
type Observer interface {
	ReactionApplied(postID string, ev reaction.Event, fx reaction.Effects, likes int)
	FeedbackEmitted(postID string, ev models.FeedbackEvent)
	FeedbackExpired(postID string, evs []models.FeedbackEvent)
	CommentAdded(postID string, c models.Comment, total int)
	PostPublished(postID string)
}

type nopObserver struct{}

func (nopObserver) ReactionApplied(string, reaction.Event, reaction.Effects, int) {}
func (nopObserver) FeedbackEmitted(string, models.FeedbackEvent)                  {}
func (nopObserver) FeedbackExpired(string, []models.FeedbackEvent)                {}
func (nopObserver) CommentAdded(string, models.Comment, int)                      {}
func (nopObserver) PostPublished(string)                                          {}
