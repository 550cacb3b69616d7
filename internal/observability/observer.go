package observability

import (
	"vibefeed/internal/models"
	"vibefeed/internal/reaction"
)

// FeedObserver reports post activity to logs and metrics. It satisfies
// postview.Observer.
type FeedObserver struct {
	log     *FeedLogger
	metrics *Metrics
}

// NewFeedObserver creates an observer; either argument may be nil.
func NewFeedObserver(log *FeedLogger, metrics *Metrics) *FeedObserver {
	return &FeedObserver{log: log, metrics: metrics}
}

func (o *FeedObserver) ReactionApplied(postID string, ev reaction.Event, fx reaction.Effects, likes int) {
	if o.log != nil {
		o.log.LogReaction(postID, ev, fx, likes)
	}
	if o.metrics != nil {
		o.metrics.ReactionTransitions.WithLabelValues(fx.Kind.String(), string(fx.Outcome)).Inc()
	}
}

func (o *FeedObserver) FeedbackEmitted(_ string, ev models.FeedbackEvent) {
	if o.metrics != nil {
		o.metrics.FeedbackEmitted.WithLabelValues(ev.Kind.String()).Inc()
		o.metrics.FeedbackLive.Inc()
	}
}

func (o *FeedObserver) FeedbackExpired(postID string, evs []models.FeedbackEvent) {
	if o.log != nil {
		o.log.LogExpiry(postID, evs)
	}
	if o.metrics != nil {
		o.metrics.FeedbackExpired.Add(float64(len(evs)))
		o.metrics.FeedbackLive.Sub(float64(len(evs)))
	}
}

func (o *FeedObserver) CommentAdded(postID string, c models.Comment, total int) {
	if o.log != nil {
		o.log.LogComment(postID, c, total)
	}
	if o.metrics != nil {
		o.metrics.CommentsAdded.Inc()
	}
}

func (o *FeedObserver) PostPublished(postID string) {
	if o.log != nil {
		o.log.LogPublish(postID)
	}
	if o.metrics != nil {
		o.metrics.PostsPublished.Inc()
	}
}
