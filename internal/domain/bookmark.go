package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrNotBookmarked is returned when removing a card the user never
// bookmarked.
var ErrNotBookmarked = fmt.Errorf("%w: card is not bookmarked", ErrValidation)

// HasBookmark reports whether cardID is in u's bookmark set.
func HasBookmark(u *User, cardID uuid.UUID) bool {
	for _, id := range u.Bookmarks {
		if id == cardID {
			return true
		}
	}
	return false
}

// AddBookmark appends cardID to u's bookmarks. It returns false, leaving the
// set untouched, when the card is already bookmarked.
func AddBookmark(u *User, cardID uuid.UUID) bool {
	if HasBookmark(u, cardID) {
		return false
	}
	u.Bookmarks = append(u.Bookmarks, cardID)
	return true
}

// RemoveBookmark drops cardID from u's bookmarks, keeping the order of the
// rest. It fails with ErrNotBookmarked when cardID is absent.
func RemoveBookmark(u *User, cardID uuid.UUID) error {
	for i, id := range u.Bookmarks {
		if id == cardID {
			u.Bookmarks = append(u.Bookmarks[:i:i], u.Bookmarks[i+1:]...)
			return nil
		}
	}
	return ErrNotBookmarked
}
