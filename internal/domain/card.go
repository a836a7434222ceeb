package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is nil.
	ErrCardIDEmpty = NewValidationError("id", "cannot be empty", nil)

	// ErrCardAuthorEmpty is returned when a card has no author of record.
	ErrCardAuthorEmpty = NewValidationError("author_user_id", "cannot be empty", nil)
)

// Card is an authored unit of character-specific frame data with attached
// social metadata. It exclusively owns its move data, ratings and tags.
//
// ID, AuthorUserID and CreatedAt never change after creation. Version is
// the optimistic-concurrency counter maintained by the stores.
type Card struct {
	ID                uuid.UUID
	CharacterName     string
	CardName          string
	CardDescription   string
	YoutubeLink       string
	TwitchLink        string
	AuthorUserID      uuid.UUID
	AuthorUsername    string
	PunisherData      []MoveData
	FollowUpData      []MoveData
	MoveFlowChartData []MoveData
	ComboData         []ComboData
	MoveData          []MoveData
	Ratings           []Rating
	Tags              []Tag
	CreatedAt         time.Time
	LastEditedAt      *time.Time
	Version           int64
}

// CardInput carries the author-supplied fields of a new card.
type CardInput struct {
	CharacterName     string
	CardName          string
	CardDescription   string
	YoutubeLink       string
	TwitchLink        string
	PunisherData      []MoveData
	FollowUpData      []MoveData
	MoveFlowChartData []MoveData
	ComboData         []ComboData
	MoveData          []MoveData
	Tags              []string
}

// CardPatch carries an edit. Nil fields are left untouched; non-nil fields
// replace the stored value wholesale, sequences included.
type CardPatch struct {
	CharacterName     *string
	CardName          *string
	CardDescription   *string
	YoutubeLink       *string
	TwitchLink        *string
	PunisherData      *[]MoveData
	FollowUpData      *[]MoveData
	MoveFlowChartData *[]MoveData
	ComboData         *[]ComboData
	MoveData          *[]MoveData
	Tags              *[]string
}

// NewCard builds a card authored by authorID. authorUsername is the
// author's username at creation time and is never refreshed afterwards.
func NewCard(authorID uuid.UUID, authorUsername string, in CardInput, now time.Time) (*Card, error) {
	card := &Card{
		ID:                uuid.New(),
		CharacterName:     strings.TrimSpace(in.CharacterName),
		CardName:          strings.TrimSpace(in.CardName),
		CardDescription:   strings.TrimSpace(in.CardDescription),
		YoutubeLink:       strings.TrimSpace(in.YoutubeLink),
		TwitchLink:        strings.TrimSpace(in.TwitchLink),
		AuthorUserID:      authorID,
		AuthorUsername:    authorUsername,
		PunisherData:      cloneMoves(in.PunisherData),
		FollowUpData:      cloneMoves(in.FollowUpData),
		MoveFlowChartData: cloneMoves(in.MoveFlowChartData),
		ComboData:         cloneCombos(in.ComboData),
		MoveData:          cloneMoves(in.MoveData),
		Ratings:           []Rating{},
		Tags:              []Tag{},
		CreatedAt:         now.UTC(),
	}

	if err := ReplaceTags(card, in.Tags); err != nil {
		return nil, err
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card's mandatory fields and embedded sequences.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.AuthorUserID == uuid.Nil {
		return ErrCardAuthorEmpty
	}
	if c.CharacterName == "" {
		return NewValidationError("character_name", "cannot be empty", nil)
	}
	if c.CardName == "" {
		return NewValidationError("card_name", "cannot be empty", nil)
	}
	if c.CardDescription == "" {
		return NewValidationError("card_description", "cannot be empty", nil)
	}

	sequences := []struct {
		field string
		moves []MoveData
	}{
		{"punisher_data", c.PunisherData},
		{"follow_up_data", c.FollowUpData},
		{"move_flow_chart_data", c.MoveFlowChartData},
		{"move_data", c.MoveData},
	}
	for _, seq := range sequences {
		if err := validateMoves(seq.field, seq.moves); err != nil {
			return err
		}
	}

	return validateCombos(c.ComboData)
}

// ApplyPatch replaces every supplied field and stamps LastEditedAt. The card
// is left unchanged when the patched result fails validation.
func ApplyPatch(c *Card, p CardPatch, now time.Time) error {
	next := c.Clone()

	if p.CharacterName != nil {
		next.CharacterName = strings.TrimSpace(*p.CharacterName)
	}
	if p.CardName != nil {
		next.CardName = strings.TrimSpace(*p.CardName)
	}
	if p.CardDescription != nil {
		next.CardDescription = strings.TrimSpace(*p.CardDescription)
	}
	if p.YoutubeLink != nil {
		next.YoutubeLink = strings.TrimSpace(*p.YoutubeLink)
	}
	if p.TwitchLink != nil {
		next.TwitchLink = strings.TrimSpace(*p.TwitchLink)
	}
	if p.PunisherData != nil {
		next.PunisherData = cloneMoves(*p.PunisherData)
	}
	if p.FollowUpData != nil {
		next.FollowUpData = cloneMoves(*p.FollowUpData)
	}
	if p.MoveFlowChartData != nil {
		next.MoveFlowChartData = cloneMoves(*p.MoveFlowChartData)
	}
	if p.ComboData != nil {
		next.ComboData = cloneCombos(*p.ComboData)
	}
	if p.MoveData != nil {
		next.MoveData = cloneMoves(*p.MoveData)
	}
	if p.Tags != nil {
		if err := ReplaceTags(next, *p.Tags); err != nil {
			return err
		}
	}

	if err := next.Validate(); err != nil {
		return err
	}

	edited := now.UTC()
	next.LastEditedAt = &edited
	*c = *next
	return nil
}

// Clone returns a deep copy sharing no slices with c.
func (c *Card) Clone() *Card {
	out := *c
	out.PunisherData = cloneMoves(c.PunisherData)
	out.FollowUpData = cloneMoves(c.FollowUpData)
	out.MoveFlowChartData = cloneMoves(c.MoveFlowChartData)
	out.ComboData = cloneCombos(c.ComboData)
	out.MoveData = cloneMoves(c.MoveData)
	if c.Ratings != nil {
		out.Ratings = append([]Rating{}, c.Ratings...)
	}
	out.Tags = cloneTags(c.Tags)
	if c.LastEditedAt != nil {
		t := *c.LastEditedAt
		out.LastEditedAt = &t
	}
	return &out
}

// HasYoutubeLink reports whether the card carries a non-empty YouTube link.
func (c *Card) HasYoutubeLink() bool {
	return strings.TrimSpace(c.YoutubeLink) != ""
}

// HasTwitchLink reports whether the card carries a non-empty Twitch link.
func (c *Card) HasTwitchLink() bool {
	return strings.TrimSpace(c.TwitchLink) != ""
}
