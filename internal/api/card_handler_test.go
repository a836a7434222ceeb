package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardHandler_CreateAndGet(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("kazumi")

	t.Run("character name is canonicalized", func(t *testing.T) {
		card := srv.createCard(author.Token, "devil jin", "Punish")
		assert.Equal(t, "Devil Jin", card.CharacterName)
		assert.Equal(t, "kazumi", card.AuthorUsername)
		assert.Equal(t, author.UserID, card.AuthorUserID)
		assert.Nil(t, card.LastEditedAt)
		assert.NotNil(t, card.PunisherData)
	})

	t.Run("unknown characters are kept as written", func(t *testing.T) {
		card := srv.createCard(author.Token, "Gon")
		assert.Equal(t, "Gon", card.CharacterName)
	})

	t.Run("anonymous create is rejected", func(t *testing.T) {
		w := srv.do(http.MethodPost, "/api/cards", CreateCardRequest{
			CharacterName: "Jin", CardName: "x", CardDescription: "y",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		w := srv.do(http.MethodPost, "/api/cards", CreateCardRequest{CharacterName: "Jin"}, author.Token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get is annotated only for a signed-in viewer", func(t *testing.T) {
		card := srv.createCard(author.Token, "Jin", "WakeUp")
		path := "/api/cards/" + card.ID.String()

		w := srv.do(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var anon CardResponse
		decode(t, w, &anon)
		assert.Nil(t, anon.Bookmarked)
		assert.Nil(t, anon.MyRating)
		assert.Empty(t, anon.Tags[0].Reaction)

		w = srv.do(http.MethodGet, path, nil, author.Token)
		require.Equal(t, http.StatusOK, w.Code)
		var mine CardResponse
		decode(t, w, &mine)
		require.NotNil(t, mine.Bookmarked)
		assert.False(t, *mine.Bookmarked)
		assert.Equal(t, string(domain.ReactionNone), mine.Tags[0].Reaction)
	})

	t.Run("unknown card", func(t *testing.T) {
		w := srv.do(http.MethodGet, "/api/cards/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardHandler_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("bryan")
	other := srv.signup("lee")
	card := srv.createCard(author.Token, "Bryan", "Punish")
	path := "/api/cards/" + card.ID.String()

	newName := "Bryan i10 punishers"
	edit := EditCardRequest{CardName: &newName}

	t.Run("non-author cannot edit", func(t *testing.T) {
		w := srv.do(http.MethodPut, path, edit, other.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("author edits and lastEditedAt is set", func(t *testing.T) {
		w := srv.do(http.MethodPut, path, edit, author.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp CardResponse
		decode(t, w, &resp)
		assert.Equal(t, newName, resp.CardName)
		assert.Equal(t, card.CardDescription, resp.CardDescription)
		assert.NotNil(t, resp.LastEditedAt)
	})

	t.Run("edit of unknown card", func(t *testing.T) {
		w := srv.do(http.MethodPut, "/api/cards/"+uuid.NewString(), edit, author.Token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-author cannot delete and the card survives", func(t *testing.T) {
		w := srv.do(http.MethodDelete, path, nil, other.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = srv.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("author deletes", func(t *testing.T) {
		w := srv.do(http.MethodDelete, path, nil, author.Token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = srv.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardHandler_RateCard(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("steve")
	rater := srv.signup("paul")
	card := srv.createCard(author.Token, "Steve")
	path := "/api/cards/" + card.ID.String() + "/rating"

	for _, value := range []int{0, 6} {
		w := srv.do(http.MethodPost, path, RatingRequest{Rating: value}, rater.Token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := srv.do(http.MethodPost, path, RatingRequest{Rating: 5}, author.Token)
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(http.MethodPost, path, RatingRequest{Rating: 2}, rater.Token)
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(http.MethodPost, path, RatingRequest{Rating: 3}, rater.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CardResponse
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.RatingCount)
	assert.Equal(t, 4.0, resp.AverageRating)
	require.NotNil(t, resp.MyRating)
	assert.Equal(t, 3, *resp.MyRating)
}

func TestCardHandler_ReactToTag(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("hwoarang")
	card := srv.createCard(author.Token, "Hwoarang", "Flamingo")
	base := "/api/cards/" + card.ID.String() + "/tags/"

	react := func(tag, kind string) ReactionResponse {
		t.Helper()
		w := srv.do(http.MethodPost, base+tag+"/reaction", ReactionRequest{Kind: kind}, author.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp ReactionResponse
		decode(t, w, &resp)
		return resp
	}

	resp := react("Flamingo", "like")
	assert.True(t, resp.TagFound)
	assert.Equal(t, string(domain.ReactionLiked), resp.Reaction)
	assert.Equal(t, 1, resp.Card.Tags[0].Likes)

	resp = react("Flamingo", "dislike")
	assert.Equal(t, string(domain.ReactionDisliked), resp.Reaction)
	assert.Equal(t, 0, resp.Card.Tags[0].Likes)
	assert.Equal(t, 1, resp.Card.Tags[0].Dislikes)

	resp = react("Flamingo", "dislike")
	assert.Equal(t, string(domain.ReactionNone), resp.Reaction)
	assert.Equal(t, 0, resp.Card.Tags[0].Dislikes)

	resp = react("Missing", "like")
	assert.False(t, resp.TagFound)

	w := srv.do(http.MethodPost, base+"Flamingo/reaction", ReactionRequest{Kind: "love"}, author.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler_Listings(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("reina")
	other := srv.signup("victor")

	for i := 0; i < 25; i++ {
		srv.createCard(author.Token, "Reina")
	}
	srv.createCard(other.Token, "Victor", "Range")

	t.Run("pages of ten over the author's cards", func(t *testing.T) {
		for page, want := range map[int]int{1: 10, 2: 10, 3: 5, 4: 0} {
			w := srv.do(http.MethodGet,
				fmt.Sprintf("/api/cards/user/%s?page=%d", author.UserID, page), nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp CardPageResponse
			decode(t, w, &resp)
			assert.Len(t, resp.Items, want, "page %d", page)
			assert.Equal(t, 25, resp.TotalCount)
			assert.Equal(t, 3, resp.TotalPages)
		}
	})

	t.Run("all cards", func(t *testing.T) {
		w := srv.do(http.MethodGet, "/api/cards", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp CardPageResponse
		decode(t, w, &resp)
		assert.Equal(t, 26, resp.TotalCount)
		assert.Len(t, resp.Items, 10)
	})

	t.Run("character listing with tag filter", func(t *testing.T) {
		w := srv.do(http.MethodGet, "/api/cards/character/victor?tags=Range,Other", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp CardPageResponse
		decode(t, w, &resp)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Victor", resp.Items[0].CharacterName)
	})

	t.Run("character listing requiring a youtube link", func(t *testing.T) {
		w := srv.do(http.MethodGet, "/api/cards/character/Reina?youtube=true", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp CardPageResponse
		decode(t, w, &resp)
		assert.Empty(t, resp.Items)
		assert.Equal(t, 0, resp.TotalCount)
	})
}

func TestCardHandler_ReactToTag_EscapedNames(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	author := srv.signup("yoshimitsu")
	card := srv.createCard(author.Token, "Yoshimitsu", "a%2Fb", "a/b", "100%")
	base := "/api/cards/" + card.ID.String() + "/tags/"

	tests := []struct {
		name    string
		segment string
		wantTag string
	}{
		{name: "literal percent sequence", segment: "a%252Fb", wantTag: "a%2Fb"},
		{name: "encoded slash", segment: "a%2Fb", wantTag: "a/b"},
		{name: "literal percent", segment: "100%25", wantTag: "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodPost, base+tt.segment+"/reaction", ReactionRequest{Kind: "like"}, author.Token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp ReactionResponse
			decode(t, w, &resp)
			assert.True(t, resp.TagFound)
			likes := map[string]int{}
			for _, tag := range resp.Card.Tags {
				likes[tag.Name] = tag.Likes
			}
			assert.Equal(t, 1, likes[tt.wantTag])
		})
	}
}
