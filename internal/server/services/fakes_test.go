package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/articles"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/comments"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/topics"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// plainHasher stores passwords as "h:" + password.
type plainHasher struct{ err error }

func (h plainHasher) Hash(pw string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "h:" + pw, nil
}

func (h plainHasher) Compare(hash, pw string) error {
	if hash != "h:"+pw {
		return auth.ErrPasswordMismatch
	}
	return nil
}

func strPtr(s string) *string { return &s }

// --- users ---

type fakeUsersRepo struct {
	rows map[string]*models.User

	createErr   error
	getErr      error
	softDelErr  error
	renameErr   error
	updateErr   error
	upsertErr   error
	summaries   []models.UserSummary
	listErr     error
	lastPatch   models.UserPatch
	upserted    *models.User
	renamedFrom string
}

func newFakeUsers(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{rows: map[string]*models.User{}}
	for _, u := range us {
		f.rows[u.Username] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.rows[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	c := *u
	f.rows[u.Username] = &c
	return &c, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.rows[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := f.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted() {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) SoftDelete(ctx context.Context, username string) error {
	if f.softDelErr != nil {
		return f.softDelErr
	}
	u, ok := f.rows[username]
	if !ok || u.IsDeleted() {
		return common.ErrorNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (f *fakeUsersRepo) Rename(ctx context.Context, oldUsername, newUsername string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	u, ok := f.rows[oldUsername]
	if !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, oldUsername)
	u.Username = newUsername
	f.rows[newUsername] = u
	f.renamedFrom = oldUsername
	return nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.rows[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	if patch.IsPrivate != nil {
		u.IsPrivate = *patch.IsPrivate
	}
	return u, nil
}

func (f *fakeUsersRepo) ListNonAdmin(ctx context.Context) ([]models.UserSummary, error) {
	return f.summaries, f.listErr
}

func (f *fakeUsersRepo) UpsertAdmin(ctx context.Context, u *models.User) error {
	f.upserted = u
	return f.upsertErr
}

// --- articles ---

type reassignCall struct {
	from string
	to   *string
}

type fakeArticlesRepo struct {
	byID      map[int64]*models.Article
	byAuthor  []models.Article
	listOut   []models.Article
	lastList  models.ArticleFilter
	created   models.NewArticle
	deleted   []int64
	reassigns []reassignCall
	// owned counts articles per author when set; ReassignAuthor moves them.
	owned map[string]int64

	reassignErr error
	countErr    error
}

func (f *fakeArticlesRepo) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	f.lastList = filter
	return f.listOut, nil
}

func (f *fakeArticlesRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeArticlesRepo) Create(ctx context.Context, a models.NewArticle) (*models.Article, error) {
	f.created = a
	return &models.Article{ArticleID: 1, Title: a.Title, Topic: a.Topic, Author: strPtr(a.Author), Body: a.Body}, nil
}

func (f *fakeArticlesRepo) AddVotes(ctx context.Context, id int64, delta int) (*models.Article, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Votes += int64(delta)
	return a, nil
}

func (f *fakeArticlesRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeArticlesRepo) ListByAuthor(ctx context.Context, author string) ([]models.Article, error) {
	return f.byAuthor, nil
}

func (f *fakeArticlesRepo) CountByAuthor(ctx context.Context, author string) (int64, error) {
	if f.owned != nil {
		return f.owned[author], f.countErr
	}
	return int64(len(f.byAuthor)), f.countErr
}

func (f *fakeArticlesRepo) ReassignAuthor(ctx context.Context, from string, to *string) (int64, error) {
	if f.reassignErr != nil {
		return 0, f.reassignErr
	}
	f.reassigns = append(f.reassigns, reassignCall{from, to})
	return moveOwned(f.owned, from, to), nil
}

// moveOwned transfers the count of from to *to (or drops it for nil) and
// returns the number of rows moved. A nil map reports one row.
func moveOwned(owned map[string]int64, from string, to *string) int64 {
	if owned == nil {
		return 1
	}
	n := owned[from]
	delete(owned, from)
	if to != nil && n > 0 {
		owned[*to] += n
	}
	return n
}

// --- comments ---

type fakeCommentsRepo struct {
	byID      map[int64]*models.Comment
	byArticle []models.Comment
	byAuthor  []models.UserComment
	createErr error
	deleted   []int64
	reassigns []reassignCall
	owned     map[string]int64

	reassignErr error
}

func (f *fakeCommentsRepo) ListByArticle(ctx context.Context, articleID int64) ([]models.Comment, error) {
	return f.byArticle, nil
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCommentsRepo) Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Comment{CommentID: 1, ArticleID: articleID, Author: strPtr(author), Body: body}, nil
}

func (f *fakeCommentsRepo) AddVotes(ctx context.Context, id int64, delta int) (*models.Comment, error) {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Votes += int64(delta)
	return c, nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCommentsRepo) ListByAuthor(ctx context.Context, author string) ([]models.UserComment, error) {
	return f.byAuthor, nil
}

func (f *fakeCommentsRepo) CountByAuthor(ctx context.Context, author string) (int64, error) {
	if f.owned != nil {
		return f.owned[author], nil
	}
	return int64(len(f.byAuthor)), nil
}

func (f *fakeCommentsRepo) ReassignAuthor(ctx context.Context, from string, to *string) (int64, error) {
	if f.reassignErr != nil {
		return 0, f.reassignErr
	}
	f.reassigns = append(f.reassigns, reassignCall{from, to})
	return moveOwned(f.owned, from, to), nil
}

// --- topics ---

type fakeTopicsRepo struct {
	slugs   map[string]bool
	created []models.Topic
	err     error
}

func (f *fakeTopicsRepo) List(ctx context.Context) ([]models.Topic, error) {
	out := make([]models.Topic, 0, len(f.slugs))
	for s := range f.slugs {
		out = append(out, models.Topic{Slug: s})
	}
	return out, f.err
}

func (f *fakeTopicsRepo) Exists(ctx context.Context, slug string) (bool, error) {
	return f.slugs[slug], f.err
}

func (f *fakeTopicsRepo) Create(ctx context.Context, t models.Topic) error {
	f.created = append(f.created, t)
	return f.err
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeArticlesRepo
	c *fakeCommentsRepo
	t *fakeTopicsRepo
}

func newFakeManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsers(),
		a: &fakeArticlesRepo{byID: map[int64]*models.Article{}},
		c: &fakeCommentsRepo{byID: map[int64]*models.Comment{}},
		t: &fakeTopicsRepo{slugs: map[string]bool{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Topics(db dbx.DBTX) topics.Repository        { return m.t }
func (m *fakeRepoManager) Articles(db dbx.DBTX) articles.Repository    { return m.a }
func (m *fakeRepoManager) Comments(db dbx.DBTX) comments.Repository    { return m.c }
