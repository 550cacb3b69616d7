package models

import "time"

// Author is the public identity shown on posts.
type Author struct {
	Name      string `yaml:"name" json:"name"`
	Username  string `yaml:"username" json:"username"`
	AvatarURL string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
}

// PostSeed is the server-provided part of a post. It never changes after the
// post view is created.
type PostSeed struct {
	ID        string `yaml:"id" json:"id"`
	Author    Author `yaml:"author" json:"author"`
	Content   string `yaml:"content" json:"content"`
	ImageURL  string `yaml:"image,omitempty" json:"image,omitempty"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
	// Likes, Comments and Shares are the counts known when the post was loaded.
	Likes    int `yaml:"likes" json:"likes"`
	Comments int `yaml:"comments" json:"comments"`
	Shares   int `yaml:"shares" json:"shares"`
}

// Comment is a locally appended comment on a post.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	AvatarURL string `json:"avatar,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FeedbackEvent is a short-lived, positioned reaction marker. X and Y are
// percentages of the post container in [0,100).
type FeedbackEvent struct {
	ID        uint64       `json:"id"`
	Kind      ReactionKind `json:"kind"`
	Glyph     string       `json:"glyph"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RelativeNow is the timestamp label given to anything the viewer creates.
const RelativeNow = "now"

// DefaultViewer is the local viewer used when no profile is configured.
var DefaultViewer = Author{
	Name:      "You",
	Username:  "you",
	AvatarURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150",
}
