package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

const articleColumns = `article_id, title, topic, author, body, created_at, votes, article_img_url`

// sortColumns whitelists the ORDER BY targets of List.
var sortColumns = map[string]string{
	"votes":         "articles.votes",
	"comment_count": "comment_count",
	"created_at":    "articles.created_at",
}

var orderDirections = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt, &a.Votes, &a.ArticleImgURL)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	var sb strings.Builder
	args := make([]any, 0, 1)

	sb.WriteString(`SELECT articles.article_id, articles.title, articles.topic, articles.author,
		articles.created_at, articles.votes, articles.article_img_url,
		COUNT(comments.comment_id) AS comment_count
		FROM articles LEFT JOIN comments ON articles.article_id = comments.article_id`)

	if filter.Topic != "" {
		args = append(args, filter.Topic)
		sb.WriteString(` WHERE articles.topic = $1`)
	}

	sb.WriteString(` GROUP BY articles.article_id`)

	column, okColumn := sortColumns[filter.SortBy]
	direction, okDirection := orderDirections[filter.Order]
	if okColumn && okDirection {
		fmt.Fprintf(&sb, ` ORDER BY %s %s, articles.article_id`, column, direction)
	} else {
		sb.WriteString(` ORDER BY articles.created_at DESC, articles.article_id`)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Article, 0)
	for rows.Next() {
		var (
			a     models.Article
			count int64
		)
		if err := rows.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.CommentCount = &count
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query :=
		`SELECT articles.article_id, articles.title, articles.topic, articles.author, articles.body,
		 articles.created_at, articles.votes, articles.article_img_url,
		 COUNT(comments.comment_id) AS comment_count
		 FROM articles LEFT JOIN comments ON articles.article_id = comments.article_id
		 WHERE articles.article_id = $1
		 GROUP BY articles.article_id`

	var (
		a     models.Article
		count int64
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.CommentCount = &count

	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, article models.NewArticle) (*models.Article, error) {
	columns := []string{"title", "body", "topic", "author"}
	args := []any{article.Title, article.Body, article.Topic, article.Author}
	if article.ArticleImgURL != "" {
		columns = append(columns, "article_img_url")
		args = append(args, article.ArticleImgURL)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO articles (%s) VALUES (%s) RETURNING %s`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "), articleColumns)

	created, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) AddVotes(ctx context.Context, id int64, delta int) (*models.Article, error) {
	query :=
		`UPDATE articles SET votes = votes + $1
		 WHERE article_id = $2
		 RETURNING ` + articleColumns

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, delta, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE article_id = $1`, id)
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

func (r *PostgresRepository) ListByAuthor(ctx context.Context, author string) ([]models.Article, error) {
	query :=
		`SELECT ` + articleColumns + ` FROM articles
		 WHERE author = $1
		 ORDER BY created_at DESC, article_id DESC`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, author string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE author = $1`, author).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ReassignAuthor(ctx context.Context, from string, to *string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE articles SET author = $1 WHERE author = $2`, to, from)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
