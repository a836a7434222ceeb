package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
)

const cardColumns = `id, character_name, card_name, card_description, youtube_link, twitch_link,
	author_user_id, author_username, punisher_data, follow_up_data, move_flow_chart_data,
	combo_data, move_data, ratings, tags, created_at, last_edited_at, version`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend. Embedded sequences are
// kept as JSONB columns so each card is written in a single statement.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Find implements store.CardStore.Find.
func (s *PostgresCardStore) Find(
	ctx context.Context,
	filter store.CardFilter,
	page store.Page,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildCardWhere(filter)
	query, args := buildCardQuery(where, args, page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards", slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "find", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("card", "find", "scan failed", MapError(err))
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating card rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "find", "iteration failed", MapError(err))
	}

	return cards, nil
}

// Count implements store.CardStore.Count.
func (s *PostgresCardStore) Count(ctx context.Context, filter store.CardFilter) (int, error) {
	where, args := buildCardWhere(filter)

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards"+where, args...).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to count cards", slog.String("error", err.Error()))
		return 0, store.NewStoreError("card", "count", "query failed", MapError(err))
	}
	return n, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards WHERE id = $1", id)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}
	return card, nil
}

// Insert implements store.CardStore.Insert.
func (s *PostgresCardStore) Insert(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return store.NewStoreError("card", "insert", "invalid card", errors.Join(store.ErrInvalidEntity, err))
	}

	docs, err := encodeCardDocuments(card)
	if err != nil {
		return store.NewStoreError("card", "insert", "encode failed", err)
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1)
	`
	args := append([]any{
		card.ID,
		card.CharacterName,
		card.CardName,
		card.CardDescription,
		card.YoutubeLink,
		card.TwitchLink,
		card.AuthorUserID,
		card.AuthorUsername,
	}, docs...)
	args = append(args, card.CreatedAt.UTC(), nullTime(card.LastEditedAt))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "insert", "exec failed", MapError(err))
	}

	card.Version = 1
	return nil
}

// Update implements store.CardStore.Update.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	docs, err := encodeCardDocuments(card)
	if err != nil {
		return store.NewStoreError("card", "update", "encode failed", err)
	}

	query := `
		UPDATE cards
		SET character_name = $3, card_name = $4, card_description = $5,
			youtube_link = $6, twitch_link = $7,
			punisher_data = $8, follow_up_data = $9, move_flow_chart_data = $10,
			combo_data = $11, move_data = $12, ratings = $13, tags = $14,
			last_edited_at = $15, version = version + 1
		WHERE id = $1 AND version = $2
	`
	args := append([]any{
		card.ID,
		card.Version,
		card.CharacterName,
		card.CardName,
		card.CardDescription,
		card.YoutubeLink,
		card.TwitchLink,
	}, docs...)
	args = append(args, nullTime(card.LastEditedAt))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "update", "exec failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrVersionConflict); err != nil {
		if !errors.Is(err, store.ErrVersionConflict) {
			return store.NewStoreError("card", "update", "result failed", MapError(err))
		}
		return s.conflictOrMissing(ctx, card.ID)
	}

	card.Version++
	return nil
}

// conflictOrMissing tells a lost version race apart from a deleted card
// after an update matched no rows.
func (s *PostgresCardStore) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return store.NewStoreError("card", "update", "existence check failed", MapError(err))
	}
	if !exists {
		return store.ErrCardNotFound
	}
	return store.ErrVersionConflict
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "delete", "exec failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card                                  domain.Card
		punisher, followUp, flowChart, combos []byte
		moves, ratings, tags                  []byte
		lastEditedAt                          sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.CharacterName,
		&card.CardName,
		&card.CardDescription,
		&card.YoutubeLink,
		&card.TwitchLink,
		&card.AuthorUserID,
		&card.AuthorUsername,
		&punisher,
		&followUp,
		&flowChart,
		&combos,
		&moves,
		&ratings,
		&tags,
		&card.CreatedAt,
		&lastEditedAt,
		&card.Version,
	)
	if err != nil {
		return nil, err
	}

	docs := []struct {
		raw  []byte
		dest any
	}{
		{punisher, &card.PunisherData},
		{followUp, &card.FollowUpData},
		{flowChart, &card.MoveFlowChartData},
		{combos, &card.ComboData},
		{moves, &card.MoveData},
		{ratings, &card.Ratings},
		{tags, &card.Tags},
	}
	for _, d := range docs {
		if err := json.Unmarshal(d.raw, d.dest); err != nil {
			return nil, fmt.Errorf("failed to decode card document: %w", err)
		}
	}

	card.CreatedAt = card.CreatedAt.UTC()
	if lastEditedAt.Valid {
		t := lastEditedAt.Time.UTC()
		card.LastEditedAt = &t
	}
	return &card, nil
}

// encodeCardDocuments returns the JSONB column values of card in column
// order: punisher, follow-up, flowchart, combo, move, ratings, tags.
func encodeCardDocuments(card *domain.Card) ([]any, error) {
	values := []any{
		card.PunisherData,
		card.FollowUpData,
		card.MoveFlowChartData,
		card.ComboData,
		card.MoveData,
		card.Ratings,
		card.Tags,
	}

	out := make([]any, len(values))
	for i, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode card document: %w", err)
		}
		if string(raw) == "null" {
			raw = []byte("[]")
		}
		out[i] = string(raw)
	}
	return out, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// buildCardWhere renders filter as a WHERE clause with positional
// parameters starting at $1. It returns an empty clause for an empty filter.
func buildCardWhere(filter store.CardFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CharacterName != "" {
		conds = append(conds, fmt.Sprintf(`character_name ILIKE %s ESCAPE '\'`,
			next("%"+escapeLike(filter.CharacterName)+"%")))
	}

	if names := filter.TagNames(); len(names) > 0 {
		raw, _ := json.Marshal(names)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(tags) AS t WHERE t->>'name' IN (SELECT jsonb_array_elements_text(%s::jsonb)))`,
			next(string(raw))))
	}

	if filter.RequireYoutubeLink {
		conds = append(conds, "youtube_link <> ''")
	}
	if filter.RequireTwitchLink {
		conds = append(conds, "twitch_link <> ''")
	}

	if filter.AuthorUserID != uuid.Nil {
		conds = append(conds, "author_user_id = "+next(filter.AuthorUserID))
	}

	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			conds = append(conds, "FALSE")
		} else {
			ids := make([]string, len(filter.IDs))
			for i, id := range filter.IDs {
				ids[i] = id.String()
			}
			raw, _ := json.Marshal(ids)
			conds = append(conds, fmt.Sprintf(
				"id::text IN (SELECT jsonb_array_elements_text(%s::jsonb))", next(string(raw))))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildCardQuery appends ordering and paging to a WHERE clause built by
// buildCardWhere.
func buildCardQuery(where string, args []any, page store.Page) (string, []any) {
	query := "SELECT " + cardColumns + " FROM cards" + where + " ORDER BY created_at DESC, id ASC"
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so s matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
