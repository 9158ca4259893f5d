package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/pgerr"
)

const commentColumns = `comment_id, article_id, author, body, created_at, votes`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	if err := row.Scan(&c.CommentID, &c.ArticleID, &c.Author, &c.Body, &c.CreatedAt, &c.Votes); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) ListByArticle(ctx context.Context, articleID int64) ([]models.Comment, error) {
	query :=
		`SELECT ` + commentColumns + ` FROM comments
		 WHERE article_id = $1
		 ORDER BY created_at DESC, comment_id DESC`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE comment_id = $1`

	c, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Create reports common.ErrorNotFound when the article does not exist.
func (r *PostgresRepository) Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (article_id, author, body)
		 VALUES ($1, $2, $3)
		 RETURNING ` + commentColumns

	c, err := scanComment(r.db.QueryRowContext(ctx, query, articleID, author, body))
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) AddVotes(ctx context.Context, id int64, delta int) (*models.Comment, error) {
	query :=
		`UPDATE comments SET votes = votes + $1
		 WHERE comment_id = $2
		 RETURNING ` + commentColumns

	c, err := scanComment(r.db.QueryRowContext(ctx, query, delta, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, author string) ([]models.UserComment, error) {
	query :=
		`SELECT c.comment_id, c.article_id, c.body, c.author, c.votes, c.created_at,
		 a.title, a.topic, a.body, a.created_at, a.votes, a.article_img_url
		 FROM comments c JOIN articles a ON a.article_id = c.article_id
		 WHERE c.author = $1
		 ORDER BY c.created_at DESC, c.comment_id DESC`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserComment, 0)
	for rows.Next() {
		var uc models.UserComment
		if err := rows.Scan(&uc.CommentID, &uc.ArticleID, &uc.CommentBody, &uc.CommentAuthor, &uc.CommentVotes, &uc.CommentCreatedAt,
			&uc.ArticleTitle, &uc.ArticleTopic, &uc.ArticleBody, &uc.ArticlesCreatedAt, &uc.ArticleVotes, &uc.ArticleImgURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, author string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE author = $1`, author).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ReassignAuthor(ctx context.Context, from string, to *string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET author = $1 WHERE author = $2`, to, from)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
