package historyrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/slidegen/internal/domain/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS presentations (
	id                BIGSERIAL PRIMARY KEY,
	user_id           BIGINT NOT NULL DEFAULT 0,
	title             VARCHAR(500) NOT NULL,
	template_id       VARCHAR(100) NOT NULL DEFAULT 'modern-elegant',
	presentation_type VARCHAR(100) NOT NULL DEFAULT 'business_presentation',
	audience          VARCHAR(100) NOT NULL DEFAULT 'general_employees',
	duration          INTEGER NOT NULL DEFAULT 15,
	tone              VARCHAR(50) NOT NULL DEFAULT 'professional',
	industry          VARCHAR(200) NOT NULL DEFAULT '',
	output_filename   VARCHAR(255) NOT NULL DEFAULT '',
	slide_count       INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS presentations_user_created_idx ON presentations (user_id, created_at DESC)`

const columns = `id, user_id, title, template_id, presentation_type, audience, duration, tone, industry,
	output_filename, slide_count, created_at`

// PostgresRepository persists history entries in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the presentations table if needed.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Insert stores the entry and returns it with its id.
func (r *PostgresRepository) Insert(ctx context.Context, entry history.Entry) (history.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO presentations (user_id, title, template_id, presentation_type, audience, duration, tone,
			industry, output_filename, slide_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+columns,
		entry.UserID, entry.Title, entry.TemplateID, entry.PresentationType, entry.Audience, entry.Duration,
		entry.Tone, entry.Industry, entry.OutputFilename, entry.SlideCount, entry.CreatedAt,
	)
	saved, err := scanEntry(row)
	if err != nil {
		return history.Entry{}, fmt.Errorf("insert presentation: %w", err)
	}
	return saved, nil
}

// ListByUser returns the newest entries for userID.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]history.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columns+`
		FROM presentations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]history.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (history.Entry, error) {
	var e history.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.TemplateID, &e.PresentationType, &e.Audience, &e.Duration,
		&e.Tone, &e.Industry, &e.OutputFilename, &e.SlideCount, &e.CreatedAt)
	if err != nil {
		return history.Entry{}, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

var _ history.Repository = (*PostgresRepository)(nil)
