package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ReactionKind is a user's reaction to a tag.
type ReactionKind string

// Valid reaction kinds.
const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ReactionState describes how a given user currently reacts to a tag.
type ReactionState string

// Reaction states reported to clients.
const (
	ReactionNone     ReactionState = "none"
	ReactionLiked    ReactionState = "liked"
	ReactionDisliked ReactionState = "disliked"
)

// ParseReactionKind validates a client-supplied kind.
func ParseReactionKind(s string) (ReactionKind, error) {
	switch k := ReactionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ReactionLike, ReactionDislike:
		return k, nil
	}
	return "", NewValidationError("kind", "must be like or dislike", nil)
}

// Reaction is one user's like or dislike on a tag. A tag holds at most one
// Reaction per user.
type Reaction struct {
	UserID uuid.UUID    `json:"user_id"`
	Kind   ReactionKind `json:"kind"`
}

// Tag is a named label on a card. A card holds at most one Tag per name.
type Tag struct {
	Name      string     `json:"name"`
	Reactions []Reaction `json:"reactions"`
}

// Counts returns the number of likes and dislikes on t.
func (t Tag) Counts() (likes, dislikes int) {
	for _, r := range t.Reactions {
		switch r.Kind {
		case ReactionLike:
			likes++
		case ReactionDislike:
			dislikes++
		}
	}
	return likes, dislikes
}

// NormalizeTagName trims surrounding whitespace from a tag name.
func NormalizeTagName(name string) string {
	return strings.TrimSpace(name)
}

// FindTag returns the index of the tag named name on c, or -1.
func FindTag(c *Card, name string) int {
	name = NormalizeTagName(name)
	for i := range c.Tags {
		if c.Tags[i].Name == name {
			return i
		}
	}
	return -1
}

// ReplaceTags sets the card's tag names to names, in order and without
// duplicates. Tags whose name survives keep their reactions; new names
// start with no reactions.
func ReplaceTags(c *Card, names []string) error {
	next := make([]Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, raw := range names {
		name := NormalizeTagName(raw)
		if name == "" {
			return NewValidationError("tags", "cannot contain an empty name", nil)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag := Tag{Name: name, Reactions: []Reaction{}}
		if i := FindTag(c, name); i >= 0 {
			tag.Reactions = append(tag.Reactions, c.Tags[i].Reactions...)
		}
		next = append(next, tag)
	}

	c.Tags = next
	return nil
}

// ToggleReaction records userID's reaction of kind on the tag named
// tagName:
//
//   - no existing reaction: the reaction is added
//   - same kind already recorded: the reaction is removed
//   - other kind recorded: the reaction switches to kind
//
// Reactions only attach to tags that already exist on the card. When the
// tag is missing ToggleReaction changes nothing and returns false.
func ToggleReaction(c *Card, tagName string, userID uuid.UUID, kind ReactionKind) bool {
	i := FindTag(c, tagName)
	if i < 0 {
		return false
	}
	tag := &c.Tags[i]

	for j := range tag.Reactions {
		if tag.Reactions[j].UserID != userID {
			continue
		}
		if tag.Reactions[j].Kind == kind {
			tag.Reactions = append(tag.Reactions[:j], tag.Reactions[j+1:]...)
		} else {
			tag.Reactions[j].Kind = kind
		}
		return true
	}

	tag.Reactions = append(tag.Reactions, Reaction{UserID: userID, Kind: kind})
	return true
}

// ReactionStateOf reports userID's reaction to the tag named tagName.
// Missing tags report ReactionNone.
func ReactionStateOf(c *Card, tagName string, userID uuid.UUID) ReactionState {
	i := FindTag(c, tagName)
	if i < 0 {
		return ReactionNone
	}
	return ReactionStateFor(c.Tags[i], userID)
}

// ReactionStateFor reports userID's reaction to a tag already in hand.
func ReactionStateFor(t Tag, userID uuid.UUID) ReactionState {
	for _, r := range t.Reactions {
		if r.UserID != userID {
			continue
		}
		if r.Kind == ReactionLike {
			return ReactionLiked
		}
		return ReactionDisliked
	}
	return ReactionNone
}

func cloneTags(in []Tag) []Tag {
	if in == nil {
		return nil
	}
	out := make([]Tag, len(in))
	for i, t := range in {
		out[i] = Tag{Name: t.Name, Reactions: append([]Reaction{}, t.Reactions...)}
	}
	return out
}
