// Package models contains the data structures shared by the feed, its posts
// and the renderers that display them.
package models

import (
	"fmt"
	"strings"
)

// ReactionKind identifies one of the fixed reactions a viewer can leave on a post.
type ReactionKind string

const (
	// ReactionLove is the default reaction used by the quick toggle.
	ReactionLove  ReactionKind = "love"
	ReactionLike  ReactionKind = "like"
	ReactionLaugh ReactionKind = "laugh"
	ReactionAngry ReactionKind = "angry"
	ReactionSad   ReactionKind = "sad"
)

// ReactionStyle is the presentational data attached to a ReactionKind.
type ReactionStyle struct {
	Kind  ReactionKind
	Glyph string
	// Color is a hex color renderers may use for the active reaction.
	Color string
}

// reactionTable is ordered as the picker shows it.
var reactionTable = []ReactionStyle{
	{Kind: ReactionLove, Glyph: "❤️", Color: "#EF4444"},
	{Kind: ReactionLike, Glyph: "👍", Color: "#3B82F6"},
	{Kind: ReactionLaugh, Glyph: "😂", Color: "#EAB308"},
	{Kind: ReactionAngry, Glyph: "😠", Color: "#DC2626"},
	{Kind: ReactionSad, Glyph: "😢", Color: "#6B7280"},
}

var reactionIndex = func() map[ReactionKind]ReactionStyle {
	m := make(map[ReactionKind]ReactionStyle, len(reactionTable))
	for _, r := range reactionTable {
		m[r.Kind] = r
	}
	return m
}()

// AllReactionKinds returns every reaction in picker order.
func AllReactionKinds() []ReactionKind {
	out := make([]ReactionKind, len(reactionTable))
	for i, r := range reactionTable {
		out[i] = r.Kind
	}
	return out
}

// ParseReactionKind resolves a reaction name, ignoring case and surrounding space.
func ParseReactionKind(name string) (ReactionKind, error) {
	kind := ReactionKind(strings.ToLower(strings.TrimSpace(name)))
	if !kind.Valid() {
		return "", NewValidationError(fmt.Sprintf("unknown reaction %q", name))
	}
	return kind, nil
}

// Valid reports whether k is one of the fixed reactions.
func (k ReactionKind) Valid() bool {
	_, ok := reactionIndex[k]
	return ok
}

// Glyph returns the emoji shown for k, or "" for an unknown kind.
func (k ReactionKind) Glyph() string {
	return reactionIndex[k].Glyph
}

// Color returns the accent color for k, or "" for an unknown kind.
func (k ReactionKind) Color() string {
	return reactionIndex[k].Color
}

func (k ReactionKind) String() string {
	return string(k)
}
