package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

var commentCols = []string{"comment_id", "article_id", "author", "body", "created_at", "votes"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestListByArticle(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM comments WHERE article_id = \$1 ORDER BY created_at DESC, comment_id DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(int64(5), int64(1), "icellusedkars", "I hate streaming noses", time.Now(), int64(0)).
			AddRow(int64(2), int64(1), nil, "orphaned", time.Now().Add(-time.Hour), int64(14)))

	got, err := repo.ListByArticle(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByArticle error: %v", err)
	}
	if len(got) != 2 || got[1].Author != nil || *got[0].Author != "icellusedkars" {
		t.Fatalf("unexpected comments: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM comments WHERE comment_id = \$1`).
		WithArgs(int64(77)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 77); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `INSERT INTO comments \(article_id, author, body\) VALUES \(\$1, \$2, \$3\) RETURNING comment_id, article_id, author, body, created_at, votes`

	mock.ExpectQuery(q).
		WithArgs(int64(2), "lurker", "nice").
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(19), int64(2), "lurker", "nice", time.Now(), int64(0)))

	c, err := repo.Create(context.Background(), 2, "lurker", "nice")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.CommentID != 19 || c.Votes != 0 {
		t.Fatalf("unexpected comment: %+v", c)
	}

	mock.ExpectQuery(q).
		WithArgs(int64(999), "lurker", "nice").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	if _, err := repo.Create(context.Background(), 999, "lurker", "nice"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for missing article, got %v", err)
	}
}

func TestAddVotes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE comments SET votes = votes \+ \$1 WHERE comment_id = \$2 RETURNING`).
		WithArgs(1, int64(1)).
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(1), int64(9), "butter_bridge", "b", time.Now(), int64(17)))

	c, err := repo.AddVotes(context.Background(), 1, 1)
	if err != nil || c.Votes != 17 {
		t.Fatalf("AddVotes got %+v, %v", c, err)
	}

	mock.ExpectQuery(`UPDATE comments SET votes`).WillReturnError(sql.ErrNoRows)
	if _, err := repo.AddVotes(context.Background(), 404, 1); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM comments WHERE comment_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 3); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestListByAuthor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cols := []string{"comment_id", "article_id", "body", "author", "votes", "created_at",
		"title", "topic", "body", "created_at", "votes", "article_img_url"}
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM comments c JOIN articles a ON a.article_id = c.article_id WHERE c.author = \$1 ORDER BY c.created_at DESC`).
		WithArgs("butter_bridge").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), int64(9), "cb", "butter_bridge", int64(16), now, "title", "mitch", "ab", now, int64(0), "img"))

	got, err := repo.ListByAuthor(context.Background(), "butter_bridge")
	if err != nil {
		t.Fatalf("ListByAuthor error: %v", err)
	}
	if len(got) != 1 || got[0].CommentBody != "cb" || got[0].ArticleBody != "ab" || got[0].CommentVotes != 16 {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestCountAndReassign(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE author = \$1`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := repo.CountByAuthor(context.Background(), "a")
	if err != nil || n != 5 {
		t.Fatalf("CountByAuthor got %d, %v", n, err)
	}

	mock.ExpectExec(`UPDATE comments SET author = \$1 WHERE author = \$2`).
		WithArgs(nil, "a").
		WillReturnError(errors.New("boom"))

	if _, err := repo.ReassignAuthor(context.Background(), "a", nil); err == nil {
		t.Fatal("expected error")
	}
}
