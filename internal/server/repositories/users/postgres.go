package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/pgerr"
)

const userColumns = `username, name, avatar_url, password, role, is_private, deleted_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.Username, &u.Name, &u.AvatarURL, &u.PasswordHash, &u.Role, &u.IsPrivate, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, name, password, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Name, user.PasswordHash, user.AvatarURL))
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, username string) error {
	query :=
		`UPDATE users SET deleted_at = NOW()
		 WHERE username = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Rename(ctx context.Context, oldUsername, newUsername string) error {
	query := `UPDATE users SET username = $1 WHERE username = $2`

	res, err := r.db.ExecContext(ctx, query, newUsername, oldUsername)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

// Update applies every non-nil field of patch except NewUsername, which is
// handled by Rename. With nothing to set it returns the current row.
func (r *PostgresRepository) Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.PasswordHash != nil {
		add("password", *patch.PasswordHash)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if patch.IsPrivate != nil {
		add("is_private", *patch.IsPrivate)
	}

	if len(sets) == 0 {
		return r.GetByUsername(ctx, username)
	}

	args = append(args, username)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE username = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	return r.getOne(ctx, query, args...)
}

func (r *PostgresRepository) ListNonAdmin(ctx context.Context) ([]models.UserSummary, error) {
	query :=
		`SELECT u.username, u.name, u.avatar_url, u.is_private, u.deleted_at,
		 (SELECT COUNT(*) FROM comments c WHERE c.author = u.username) AS comment_count,
		 (SELECT COUNT(*) FROM articles a WHERE a.author = u.username) AS article_count
		 FROM users u
		 WHERE u.role <> 'admin'
		 ORDER BY u.username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.Username, &s.Name, &s.AvatarURL, &s.IsPrivate, &s.DeletedAt, &s.CommentCount, &s.ArticleCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// UpsertAdmin creates or resets the admin account. A previously deleted row
// with the same username is restored.
func (r *PostgresRepository) UpsertAdmin(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, name, password, role, is_private)
		 VALUES ($1, $2, $3, 'admin', true)
		 ON CONFLICT (username) DO UPDATE
		 SET name = EXCLUDED.name, password = EXCLUDED.password, role = 'admin', is_private = true, deleted_at = NULL`

	if _, err := r.db.ExecContext(ctx, query, user.Username, user.Name, user.PasswordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
