package mongo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
)

type cardDocument struct {
	ID                string             `bson:"_id"`
	CharacterName     string             `bson:"character_name"`
	CardName          string             `bson:"card_name"`
	CardDescription   string             `bson:"card_description"`
	YoutubeLink       string             `bson:"youtube_link"`
	TwitchLink        string             `bson:"twitch_link"`
	AuthorUserID      string             `bson:"author_user_id"`
	AuthorUsername    string             `bson:"author_username"`
	PunisherData      []domain.MoveData  `bson:"punisher_data"`
	FollowUpData      []domain.MoveData  `bson:"follow_up_data"`
	MoveFlowChartData []domain.MoveData  `bson:"move_flow_chart_data"`
	ComboData         []domain.ComboData `bson:"combo_data"`
	MoveData          []domain.MoveData  `bson:"move_data"`
	Ratings           []ratingDocument   `bson:"ratings"`
	Tags              []tagDocument      `bson:"tags"`
	CreatedAt         time.Time          `bson:"created_at"`
	LastEditedAt      *time.Time         `bson:"last_edited_at,omitempty"`
	Version           int64              `bson:"version"`
}

type ratingDocument struct {
	UserID string `bson:"user_id"`
	Value  int    `bson:"value"`
}

type tagDocument struct {
	Name      string             `bson:"name"`
	Reactions []reactionDocument `bson:"reactions"`
}

type reactionDocument struct {
	UserID string `bson:"user_id"`
	Kind   string `bson:"kind"`
}

type userDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	UsernameLower  string    `bson:"username_lower"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	Bookmarks      []string  `bson:"bookmarks"`
	CreatedAt      time.Time `bson:"created_at"`
	Version        int64     `bson:"version"`
}

func nonNilMoves(in []domain.MoveData) []domain.MoveData {
	if in == nil {
		return []domain.MoveData{}
	}
	return in
}

func toCardDocument(c *domain.Card) cardDocument {
	doc := cardDocument{
		ID:                c.ID.String(),
		CharacterName:     c.CharacterName,
		CardName:          c.CardName,
		CardDescription:   c.CardDescription,
		YoutubeLink:       c.YoutubeLink,
		TwitchLink:        c.TwitchLink,
		AuthorUserID:      c.AuthorUserID.String(),
		AuthorUsername:    c.AuthorUsername,
		PunisherData:      nonNilMoves(c.PunisherData),
		FollowUpData:      nonNilMoves(c.FollowUpData),
		MoveFlowChartData: nonNilMoves(c.MoveFlowChartData),
		ComboData:         c.ComboData,
		MoveData:          nonNilMoves(c.MoveData),
		Ratings:           make([]ratingDocument, len(c.Ratings)),
		Tags:              make([]tagDocument, len(c.Tags)),
		CreatedAt:         c.CreatedAt.UTC(),
		LastEditedAt:      c.LastEditedAt,
		Version:           c.Version,
	}
	if doc.ComboData == nil {
		doc.ComboData = []domain.ComboData{}
	}

	for i, r := range c.Ratings {
		doc.Ratings[i] = ratingDocument{UserID: r.UserID.String(), Value: r.Value}
	}
	for i, t := range c.Tags {
		reactions := make([]reactionDocument, len(t.Reactions))
		for j, r := range t.Reactions {
			reactions[j] = reactionDocument{UserID: r.UserID.String(), Kind: string(r.Kind)}
		}
		doc.Tags[i] = tagDocument{Name: t.Name, Reactions: reactions}
	}
	return doc
}

func (d cardDocument) toDomain() (*domain.Card, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid card id %q: %w", d.ID, err)
	}
	author, err := uuid.Parse(d.AuthorUserID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", d.AuthorUserID, err)
	}

	card := &domain.Card{
		ID:                id,
		CharacterName:     d.CharacterName,
		CardName:          d.CardName,
		CardDescription:   d.CardDescription,
		YoutubeLink:       d.YoutubeLink,
		TwitchLink:        d.TwitchLink,
		AuthorUserID:      author,
		AuthorUsername:    d.AuthorUsername,
		PunisherData:      d.PunisherData,
		FollowUpData:      d.FollowUpData,
		MoveFlowChartData: d.MoveFlowChartData,
		ComboData:         d.ComboData,
		MoveData:          d.MoveData,
		Ratings:           make([]domain.Rating, 0, len(d.Ratings)),
		Tags:              make([]domain.Tag, 0, len(d.Tags)),
		CreatedAt:         d.CreatedAt.UTC(),
		Version:           d.Version,
	}
	if d.LastEditedAt != nil {
		t := d.LastEditedAt.UTC()
		card.LastEditedAt = &t
	}

	for _, r := range d.Ratings {
		uid, err := uuid.Parse(r.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid rating user id %q: %w", r.UserID, err)
		}
		card.Ratings = append(card.Ratings, domain.Rating{UserID: uid, Value: r.Value})
	}
	for _, t := range d.Tags {
		tag := domain.Tag{Name: t.Name, Reactions: make([]domain.Reaction, 0, len(t.Reactions))}
		for _, r := range t.Reactions {
			uid, err := uuid.Parse(r.UserID)
			if err != nil {
				return nil, fmt.Errorf("invalid reaction user id %q: %w", r.UserID, err)
			}
			tag.Reactions = append(tag.Reactions, domain.Reaction{UserID: uid, Kind: domain.ReactionKind(r.Kind)})
		}
		card.Tags = append(card.Tags, tag)
	}
	return card, nil
}

func toUserDocument(u *domain.User) userDocument {
	bookmarks := make([]string, len(u.Bookmarks))
	for i, id := range u.Bookmarks {
		bookmarks[i] = id.String()
	}
	return userDocument{
		ID:             u.ID.String(),
		Username:       u.Username,
		UsernameLower:  strings.ToLower(u.Username),
		Email:          domain.NormalizeEmail(u.Email),
		HashedPassword: u.HashedPassword,
		Bookmarks:      bookmarks,
		CreatedAt:      u.CreatedAt.UTC(),
		Version:        u.Version,
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}

	user := &domain.User{
		ID:             id,
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		Bookmarks:      make([]uuid.UUID, 0, len(d.Bookmarks)),
		CreatedAt:      d.CreatedAt.UTC(),
		Version:        d.Version,
	}
	for _, raw := range d.Bookmarks {
		cardID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bookmark id %q: %w", raw, err)
		}
		user.Bookmarks = append(user.Bookmarks, cardID)
	}
	return user, nil
}
