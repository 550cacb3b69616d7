package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"vibefeed/internal/feed"
	"vibefeed/internal/models"

	"gopkg.in/yaml.v3"
)

// Step is one scripted event, optionally preceded by a pause.
type Step struct {
	Event  EventType `yaml:"event"`
	PostID string    `yaml:"post,omitempty"`
	Kind   string    `yaml:"kind,omitempty"`
	Text   string    `yaml:"text,omitempty"`
	WaitMS int       `yaml:"wait_ms,omitempty"`
}

// LoadScript reads a YAML list of steps. Reaction names are normalised, so
// "Love" and " love" both load as love.
func LoadScript(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, st := range steps {
		if !st.Event.valid() {
			return nil, fmt.Errorf("step %d: %w", i, models.NewValidationError(fmt.Sprintf("unknown event %q", st.Event)))
		}
		if st.WaitMS < 0 {
			return nil, fmt.Errorf("step %d: %w", i, models.NewValidationError("wait_ms must not be negative"))
		}
		if st.Kind != "" {
			kind, err := models.ParseReactionKind(st.Kind)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			steps[i].Kind = kind.String()
		}
	}
	return steps, nil
}

// Play dispatches steps in order and reports each resulting snapshot.
// Validation errors from individual steps are reported, not fatal.
func (s *Session) Play(ctx context.Context, steps []Step, report func(Step, feed.Snapshot, error)) error {
	for _, st := range steps {
		if st.WaitMS > 0 {
			select {
			case <-time.After(time.Duration(st.WaitMS) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		ev := Event{Type: st.Event, PostID: st.PostID, Text: st.Text}
		var (
			snap feed.Snapshot
			err  error
		)
		if st.Kind != "" {
			ev.Kind, err = models.ParseReactionKind(st.Kind)
		}
		if err == nil {
			snap, err = s.Dispatch(ctx, ev)
		}
		if err != nil && !isStepError(err) {
			return err
		}
		if report != nil {
			report(st, snap, err)
		}
	}
	return nil
}

func isStepError(err error) bool {
	return models.HasCode(err, models.CodeValidation) || models.HasCode(err, models.CodeNotFound)
}
