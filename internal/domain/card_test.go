package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CardInput {
	return CardInput{
		CharacterName:   "Asuka",
		CardName:        "Asuka punishers",
		CardDescription: "Standing and crouching punishers",
		PunisherData: []MoveData{
			{Move: "1,2", HitLevel: "h,h", Damage: []string{"5", "8"}, StartUpFrame: "i10"},
		},
		Tags: []string{"WakeUp", "Punish"},
	}
}

func TestNewCard(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		authorID  uuid.UUID
		mutate    func(in *CardInput)
		wantField string
	}{
		{name: "valid card"},
		{name: "missing author", authorID: uuid.Nil, wantField: "author_user_id"},
		{name: "missing character", mutate: func(in *CardInput) { in.CharacterName = "  " }, wantField: "character_name"},
		{name: "missing card name", mutate: func(in *CardInput) { in.CardName = "" }, wantField: "card_name"},
		{name: "missing description", mutate: func(in *CardInput) { in.CardDescription = "" }, wantField: "card_description"},
		{
			name:      "move without identifier",
			mutate:    func(in *CardInput) { in.FollowUpData = []MoveData{{Description: "no move"}} },
			wantField: "follow_up_data[0].move",
		},
		{
			name:      "combo with unknown difficulty",
			mutate:    func(in *CardInput) { in.ComboData = []ComboData{{ComboRoute: "1,2 > f,F+2", Difficulty: "Impossible"}} },
			wantField: "combo_data[0].difficulty",
		},
		{
			name:      "empty tag name",
			mutate:    func(in *CardInput) { in.Tags = []string{"ok", " "} },
			wantField: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			author := authorID
			if tt.wantField == "author_user_id" {
				author = tt.authorID
			}

			card, err := NewCard(author, "asuka_main", in, now)

			if tt.wantField != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantField, vErr.Field)
				assert.Nil(t, card)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, card.ID)
			assert.Equal(t, authorID, card.AuthorUserID)
			assert.Equal(t, "asuka_main", card.AuthorUsername)
			assert.Equal(t, now, card.CreatedAt)
			assert.Nil(t, card.LastEditedAt)
			assert.Empty(t, card.Ratings)
			require.Len(t, card.Tags, 2)
			assert.Equal(t, "WakeUp", card.Tags[0].Name)
			assert.Empty(t, card.Tags[0].Reactions)
		})
	}
}

func TestNewCard_CopiesInputSequences(t *testing.T) {
	t.Parallel()

	in := validInput()
	card, err := NewCard(uuid.New(), "u", in, time.Now())
	require.NoError(t, err)

	in.PunisherData[0].Damage[0] = "999"
	assert.Equal(t, "5", card.PunisherData[0].Damage[0])
}

func TestApplyPatch(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)

	t.Run("replaces supplied fields wholesale", func(t *testing.T) {
		card, err := NewCard(uuid.New(), "u", validInput(), created)
		require.NoError(t, err)
		id, author := card.ID, card.AuthorUserID

		name := "Asuka okizeme"
		moves := []MoveData{{Move: "d/f+1"}}
		err = ApplyPatch(card, CardPatch{CardName: &name, PunisherData: &moves}, edited)
		require.NoError(t, err)

		assert.Equal(t, "Asuka okizeme", card.CardName)
		assert.Equal(t, moves, card.PunisherData)
		assert.Equal(t, "Asuka", card.CharacterName)
		assert.Equal(t, id, card.ID)
		assert.Equal(t, author, card.AuthorUserID)
		assert.Equal(t, created, card.CreatedAt)
		require.NotNil(t, card.LastEditedAt)
		assert.Equal(t, edited, *card.LastEditedAt)
	})

	t.Run("empty slice clears a sequence", func(t *testing.T) {
		card, err := NewCard(uuid.New(), "u", validInput(), created)
		require.NoError(t, err)

		empty := []MoveData{}
		require.NoError(t, ApplyPatch(card, CardPatch{PunisherData: &empty}, edited))
		assert.Empty(t, card.PunisherData)
	})

	t.Run("invalid patch leaves card untouched", func(t *testing.T) {
		card, err := NewCard(uuid.New(), "u", validInput(), created)
		require.NoError(t, err)
		before := card.Clone()

		blank := ""
		err = ApplyPatch(card, CardPatch{CardDescription: &blank}, edited)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, before, card)
	})

	t.Run("tag replacement keeps reactions of surviving tags", func(t *testing.T) {
		card, err := NewCard(uuid.New(), "u", validInput(), created)
		require.NoError(t, err)
		voter := uuid.New()
		require.True(t, ToggleReaction(card, "WakeUp", voter, ReactionLike))
		require.True(t, ToggleReaction(card, "Punish", voter, ReactionLike))

		tags := []string{"Sidestep", "WakeUp", "WakeUp"}
		require.NoError(t, ApplyPatch(card, CardPatch{Tags: &tags}, edited))

		require.Len(t, card.Tags, 2)
		assert.Equal(t, "Sidestep", card.Tags[0].Name)
		assert.Empty(t, card.Tags[0].Reactions)
		assert.Equal(t, "WakeUp", card.Tags[1].Name)
		assert.Equal(t, ReactionLiked, ReactionStateOf(card, "WakeUp", voter))
		assert.Equal(t, -1, FindTag(card, "Punish"))
	})
}

func TestCardClone(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), "u", validInput(), time.Now())
	require.NoError(t, err)
	require.NoError(t, ApplyRating(card, uuid.New(), 4))

	clone := card.Clone()
	assert.Equal(t, card, clone)

	clone.Ratings[0].Value = 1
	clone.Tags[0].Name = "changed"
	clone.PunisherData[0].Move = "changed"

	assert.Equal(t, 4, card.Ratings[0].Value)
	assert.Equal(t, "WakeUp", card.Tags[0].Name)
	assert.Equal(t, "1,2", card.PunisherData[0].Move)
}

func TestCardMediaLinks(t *testing.T) {
	t.Parallel()

	card := &Card{YoutubeLink: "https://youtu.be/x", TwitchLink: "   "}
	assert.True(t, card.HasYoutubeLink())
	assert.False(t, card.HasTwitchLink())
}
