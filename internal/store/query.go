package store

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
)

// CardFilter is a conjunction of card predicates. Zero-valued fields do not
// constrain the result.
type CardFilter struct {
	// CharacterName matches as a case-insensitive substring.
	CharacterName string

	// Tags matches cards holding at least one tag whose name is listed.
	Tags []string

	// RequireYoutubeLink and RequireTwitchLink keep only cards whose link
	// is non-empty. False means "no constraint", not "must be absent".
	RequireYoutubeLink bool
	RequireTwitchLink  bool

	// AuthorUserID restricts the result to one author unless it is uuid.Nil.
	AuthorUserID uuid.UUID

	// IDs restricts the result to the listed cards when non-nil. A non-nil
	// empty slice matches nothing.
	IDs []uuid.UUID
}

// TagNames returns the normalized, non-empty tag names of the filter.
func (f CardFilter) TagNames() []string {
	names := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if n := domain.NormalizeTagName(t); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Matches evaluates the filter against a single card. Backends that can't
// push predicates down to the database use it directly.
func (f CardFilter) Matches(c *domain.Card) bool {
	if f.CharacterName != "" &&
		!strings.Contains(strings.ToLower(c.CharacterName), strings.ToLower(f.CharacterName)) {
		return false
	}

	if names := f.TagNames(); len(names) > 0 {
		found := false
		for _, n := range names {
			if domain.FindTag(c, n) >= 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.RequireYoutubeLink && !c.HasYoutubeLink() {
		return false
	}
	if f.RequireTwitchLink && !c.HasTwitchLink() {
		return false
	}

	if f.AuthorUserID != uuid.Nil && c.AuthorUserID != f.AuthorUserID {
		return false
	}

	if f.IDs != nil {
		for _, id := range f.IDs {
			if id == c.ID {
				return true
			}
		}
		return false
	}

	return true
}

// Page is a window over a sorted result. A zero Limit means no limit.
type Page struct {
	Skip  int
	Limit int
}

// Apply returns the window of cards selected by p. A negative Skip is out
// of range and selects nothing.
func (p Page) Apply(cards []*domain.Card) []*domain.Card {
	if p.Skip < 0 || p.Skip >= len(cards) {
		return []*domain.Card{}
	}
	cards = cards[p.Skip:]
	if p.Limit > 0 && p.Limit < len(cards) {
		cards = cards[:p.Limit]
	}
	return cards
}

// SortCards orders cards newest first, breaking ties by ID so paging is
// deterministic.
func SortCards(cards []*domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
