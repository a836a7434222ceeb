package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// PageSize is the fixed number of cards per listing page.
const PageSize = 10

// TagView is a tag as shown to a reader.
type TagView struct {
	Name     string
	Likes    int
	Dislikes int
	// Reaction is the viewer's own reaction; empty for anonymous readers.
	Reaction domain.ReactionState
}

// CardView is a card annotated for a particular reader. Annotations are
// derived on every read and never stored.
type CardView struct {
	Card          *domain.Card
	AverageRating float64
	RatingCount   int
	Tags          []TagView

	// Bookmarked and MyRating are nil for anonymous readers.
	Bookmarked *bool
	MyRating   *int
}

// CardPage is one page of a card listing.
type CardPage struct {
	Items      []CardView
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// NormalizePage coerces a 1-based page number, mapping anything below 1 to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// pageWindow returns the store window for a normalized page. Pages too far
// out to address saturate Skip so they read as past the end.
func pageWindow(page int) store.Page {
	if page-1 > math.MaxInt/PageSize {
		return store.Page{Skip: math.MaxInt, Limit: PageSize}
	}
	return store.Page{Skip: (page - 1) * PageSize, Limit: PageSize}
}

func newCardPage(items []CardView, total, page int) *CardPage {
	return &CardPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: (total + PageSize - 1) / PageSize,
	}
}

// viewer is the reader a view is built for. A nil viewer is anonymous.
type viewer struct {
	id        uuid.UUID
	bookmarks map[uuid.UUID]struct{}
}

func newViewer(u *domain.User) *viewer {
	v := &viewer{id: u.ID, bookmarks: make(map[uuid.UUID]struct{}, len(u.Bookmarks))}
	for _, id := range u.Bookmarks {
		v.bookmarks[id] = struct{}{}
	}
	return v
}

func newCardView(card *domain.Card, v *viewer) CardView {
	view := CardView{
		Card:          card,
		AverageRating: domain.AverageRating(card),
		RatingCount:   len(card.Ratings),
		Tags:          make([]TagView, 0, len(card.Tags)),
	}

	for _, tag := range card.Tags {
		likes, dislikes := tag.Counts()
		tv := TagView{Name: tag.Name, Likes: likes, Dislikes: dislikes}
		if v != nil {
			tv.Reaction = domain.ReactionStateFor(tag, v.id)
		}
		view.Tags = append(view.Tags, tv)
	}

	if v != nil {
		_, marked := v.bookmarks[card.ID]
		view.Bookmarked = &marked
		if value, ok := domain.RatingBy(card, v.id); ok {
			view.MyRating = &value
		}
	}

	return view
}

func newCardViews(cards []*domain.Card, v *viewer) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, newCardView(c, v))
	}
	return out
}
