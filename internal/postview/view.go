package postview

import "vibefeed/internal/models"

// Snapshot is a read-only projection of a post for renderers.
type Snapshot struct {
	ID        string
	Author    models.Author
	Content   string
	ImageURL  string
	Timestamp string

	Reaction     models.ReactionKind
	Likes        int
	Comments     int
	Shares       int
	PickerOpen   bool
	CommentsOpen bool
	CommentInput string
	Thread       []models.Comment
	Feedback     []models.FeedbackEvent
}

// View projects the current state.
func (p *InteractivePost) View() Snapshot {
	return Snapshot{
		ID:           p.seed.ID,
		Author:       p.seed.Author,
		Content:      p.seed.Content,
		ImageURL:     p.seed.ImageURL,
		Timestamp:    p.seed.Timestamp,
		Reaction:     p.state.Kind,
		Likes:        p.likes,
		Comments:     p.CommentCount(),
		Shares:       p.seed.Shares,
		PickerOpen:   p.state.PickerOpen,
		CommentsOpen: p.commentsOpen,
		CommentInput: p.input,
		Thread:       p.Comments(),
		Feedback:     p.Feedback(),
	}
}

// Initial returns the author's initial, used when there is no avatar.
func (s Snapshot) Initial() string {
	for _, r := range s.Author.Name {
		return string(r)
	}
	return "?"
}
