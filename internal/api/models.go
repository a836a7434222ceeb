package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/service"
)

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Token    string    `json:"token,omitempty"`
}

// UserResponse is the public view of an account. Emails and password
// hashes are never included.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCardRequest defines the payload for creating a card.
type CreateCardRequest struct {
	CharacterName     string             `json:"character_name"       validate:"required,max=64"`
	CardName          string             `json:"card_name"            validate:"required,max=200"`
	CardDescription   string             `json:"card_description"     validate:"required,max=5000"`
	YoutubeLink       string             `json:"youtube_link"         validate:"omitempty,url"`
	TwitchLink        string             `json:"twitch_link"          validate:"omitempty,url"`
	PunisherData      []domain.MoveData  `json:"punisher_data"`
	FollowUpData      []domain.MoveData  `json:"follow_up_data"`
	MoveFlowChartData []domain.MoveData  `json:"move_flow_chart_data"`
	ComboData         []domain.ComboData `json:"combo_data"`
	MoveData          []domain.MoveData  `json:"move_data"`
	Tags              []string           `json:"tags"                 validate:"max=20,dive,max=50"`
}

func (req CreateCardRequest) toInput() domain.CardInput {
	return domain.CardInput{
		CharacterName:     req.CharacterName,
		CardName:          req.CardName,
		CardDescription:   req.CardDescription,
		YoutubeLink:       req.YoutubeLink,
		TwitchLink:        req.TwitchLink,
		PunisherData:      req.PunisherData,
		FollowUpData:      req.FollowUpData,
		MoveFlowChartData: req.MoveFlowChartData,
		ComboData:         req.ComboData,
		MoveData:          req.MoveData,
		Tags:              req.Tags,
	}
}

// EditCardRequest defines the payload for editing a card. Omitted or null
// fields are left untouched; supplied arrays replace the stored ones.
type EditCardRequest struct {
	CharacterName     *string             `json:"character_name"       validate:"omitempty,max=64"`
	CardName          *string             `json:"card_name"            validate:"omitempty,max=200"`
	CardDescription   *string             `json:"card_description"     validate:"omitempty,max=5000"`
	YoutubeLink       *string             `json:"youtube_link"         validate:"omitempty,url"`
	TwitchLink        *string             `json:"twitch_link"          validate:"omitempty,url"`
	PunisherData      *[]domain.MoveData  `json:"punisher_data"`
	FollowUpData      *[]domain.MoveData  `json:"follow_up_data"`
	MoveFlowChartData *[]domain.MoveData  `json:"move_flow_chart_data"`
	ComboData         *[]domain.ComboData `json:"combo_data"`
	MoveData          *[]domain.MoveData  `json:"move_data"`
	Tags              *[]string           `json:"tags"                 validate:"omitempty,max=20,dive,max=50"`
}

func (req EditCardRequest) toPatch() domain.CardPatch {
	return domain.CardPatch{
		CharacterName:     req.CharacterName,
		CardName:          req.CardName,
		CardDescription:   req.CardDescription,
		YoutubeLink:       req.YoutubeLink,
		TwitchLink:        req.TwitchLink,
		PunisherData:      req.PunisherData,
		FollowUpData:      req.FollowUpData,
		MoveFlowChartData: req.MoveFlowChartData,
		ComboData:         req.ComboData,
		MoveData:          req.MoveData,
		Tags:              req.Tags,
	}
}

// RatingRequest defines the payload for rating a card.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// ReactionRequest defines the payload for reacting to a tag.
type ReactionRequest struct {
	Kind string `json:"kind" validate:"required"`
}

// TagResponse is a tag with its reaction counts.
type TagResponse struct {
	Name     string `json:"name"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
	Reaction string `json:"reaction,omitempty"`
}

// CardResponse represents the response data for a card
type CardResponse struct {
	ID                uuid.UUID          `json:"id"`
	CharacterName     string             `json:"character_name"`
	CardName          string             `json:"card_name"`
	CardDescription   string             `json:"card_description"`
	YoutubeLink       string             `json:"youtube_link,omitempty"`
	TwitchLink        string             `json:"twitch_link,omitempty"`
	AuthorUserID      uuid.UUID          `json:"author_user_id"`
	AuthorUsername    string             `json:"author_username"`
	PunisherData      []domain.MoveData  `json:"punisher_data"`
	FollowUpData      []domain.MoveData  `json:"follow_up_data"`
	MoveFlowChartData []domain.MoveData  `json:"move_flow_chart_data"`
	ComboData         []domain.ComboData `json:"combo_data"`
	MoveData          []domain.MoveData  `json:"move_data"`
	Tags              []TagResponse      `json:"tags"`
	AverageRating     float64            `json:"average_rating"`
	RatingCount       int                `json:"rating_count"`
	MyRating          *int               `json:"my_rating,omitempty"`
	Bookmarked        *bool              `json:"bookmarked,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	LastEditedAt      *time.Time         `json:"last_edited_at"`
}

// CardPageResponse is one page of a card listing.
type CardPageResponse struct {
	Items      []CardResponse `json:"items"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// CardListResponse is an unpaged list of cards.
type CardListResponse struct {
	Items []CardResponse `json:"items"`
}

// ReactionResponse reports the outcome of a tag reaction. TagFound is false
// when the card has no such tag and nothing was recorded.
type ReactionResponse struct {
	TagFound bool         `json:"tag_found"`
	Reaction string       `json:"reaction"`
	Card     CardResponse `json:"card"`
}

// CharacterListResponse lists roster names.
type CharacterListResponse struct {
	Characters []string `json:"characters"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func cardToResponse(v *service.CardView) CardResponse {
	c := v.Card
	resp := CardResponse{
		ID:                c.ID,
		CharacterName:     c.CharacterName,
		CardName:          c.CardName,
		CardDescription:   c.CardDescription,
		YoutubeLink:       c.YoutubeLink,
		TwitchLink:        c.TwitchLink,
		AuthorUserID:      c.AuthorUserID,
		AuthorUsername:    c.AuthorUsername,
		PunisherData:      movesOrEmpty(c.PunisherData),
		FollowUpData:      movesOrEmpty(c.FollowUpData),
		MoveFlowChartData: movesOrEmpty(c.MoveFlowChartData),
		ComboData:         c.ComboData,
		MoveData:          movesOrEmpty(c.MoveData),
		Tags:              make([]TagResponse, 0, len(v.Tags)),
		AverageRating:     v.AverageRating,
		RatingCount:       v.RatingCount,
		MyRating:          v.MyRating,
		Bookmarked:        v.Bookmarked,
		CreatedAt:         c.CreatedAt,
		LastEditedAt:      c.LastEditedAt,
	}
	if resp.ComboData == nil {
		resp.ComboData = []domain.ComboData{}
	}
	for _, t := range v.Tags {
		resp.Tags = append(resp.Tags, TagResponse{
			Name:     t.Name,
			Likes:    t.Likes,
			Dislikes: t.Dislikes,
			Reaction: string(t.Reaction),
		})
	}
	return resp
}

func cardsToResponse(views []service.CardView) []CardResponse {
	out := make([]CardResponse, 0, len(views))
	for i := range views {
		out = append(out, cardToResponse(&views[i]))
	}
	return out
}

func pageToResponse(p *service.CardPage) CardPageResponse {
	return CardPageResponse{
		Items:      cardsToResponse(p.Items),
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

func movesOrEmpty(in []domain.MoveData) []domain.MoveData {
	if in == nil {
		return []domain.MoveData{}
	}
	return in
}
