package topics

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.Slug, &t.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM topics WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, topic models.Topic) error {
	query :=
		`INSERT INTO topics (slug, description) VALUES ($1, $2)
		 ON CONFLICT (slug) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, topic.Slug, topic.Description); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
