package httpapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/logging"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/services"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
)

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- accounts ---

type fakeAccounts struct {
	users map[string]*models.User

	err          error
	lastPatch    validate.UserPatchInput
	lastRegister validate.RegisterInput
	deleted      []string
}

func (f *fakeAccounts) add(name string, role auth.Role) *models.User {
	u := &models.User{Username: name, Name: name, Role: string(role), AvatarURL: "a"}
	f.users[name] = u
	return u
}

func (f *fakeAccounts) Register(ctx context.Context, in validate.RegisterInput) (*services.AuthResult, error) {
	f.lastRegister = in
	if f.err != nil {
		return nil, f.err
	}
	u := f.add(in.Username, auth.RoleUser)
	return &services.AuthResult{User: u.Public(), Token: "t"}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	u, ok := f.users[username]
	if !ok || password != "pw" {
		return nil, common.ErrInvalidCredentials
	}
	return &services.AuthResult{User: u.Public(), Token: "t"}, nil
}

func (f *fakeAccounts) ResolveActive(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	if u.IsDeleted() {
		return nil, common.ErrAccountDeleted
	}
	return u, nil
}

func (f *fakeAccounts) SoftDelete(ctx context.Context, target string, actor auth.Identity) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, target)
	return nil
}

func (f *fakeAccounts) Update(ctx context.Context, target string, in validate.UserPatchInput, actor auth.Identity) (*models.PublicUser, error) {
	f.lastPatch = in
	if f.err != nil {
		return nil, f.err
	}
	pub := f.users[target].Public()
	return &pub, nil
}

func (f *fakeAccounts) GetUserInformation(ctx context.Context, username string) (*models.UserInformation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.UserInformation{
		UserInformation: f.users[username].Public(),
		ArticlesByUser:  []models.Article{},
		CommentsByUser:  []models.UserComment{},
	}, nil
}

func (f *fakeAccounts) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return []models.UserSummary{{Username: "Boromir"}}, f.err
}

// --- content ---

type fakeTopics struct{ err error }

func (f fakeTopics) List(ctx context.Context) ([]models.Topic, error) {
	return []models.Topic{{Slug: "coding", Description: "Code is love"}}, f.err
}

type fakeArticles struct {
	lastAuthor string
	lastDelta  int
	lastQuery  [3]string
	deleteErr  error
}

func (f *fakeArticles) List(ctx context.Context, topic, sortBy, order string) ([]models.Article, error) {
	f.lastQuery = [3]string{topic, sortBy, order}
	return []models.Article{}, nil
}

func (f *fakeArticles) Get(ctx context.Context, id int64) (*models.Article, error) {
	if id != 1 {
		return nil, common.ErrArticleNotFound
	}
	return &models.Article{ArticleID: 1, Title: "T"}, nil
}

func (f *fakeArticles) Create(ctx context.Context, a models.NewArticle, author string) (*models.Article, error) {
	f.lastAuthor = author
	return &models.Article{ArticleID: 2, Title: a.Title, Author: &author}, nil
}

func (f *fakeArticles) Vote(ctx context.Context, id int64, delta int) (*models.Article, error) {
	f.lastDelta = delta
	return &models.Article{ArticleID: id, Votes: int64(delta)}, nil
}

func (f *fakeArticles) Delete(ctx context.Context, id int64, actor auth.Identity) error {
	return f.deleteErr
}

type fakeComments struct {
	lastBody  string
	deleteErr error
}

func (f *fakeComments) ListForArticle(ctx context.Context, articleID int64) ([]models.Comment, error) {
	return []models.Comment{}, nil
}

func (f *fakeComments) Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error) {
	f.lastBody = body
	return &models.Comment{CommentID: 1, ArticleID: articleID, Author: &author, Body: body}, nil
}

func (f *fakeComments) Vote(ctx context.Context, id int64, delta int) (*models.Comment, error) {
	return &models.Comment{CommentID: id, Votes: int64(delta)}, nil
}

func (f *fakeComments) Delete(ctx context.Context, id int64, actor auth.Identity) error {
	return f.deleteErr
}

type fakeAvatars struct{}

func (fakeAvatars) PresignUpload(ctx context.Context, username string) (*services.AvatarUpload, error) {
	return &services.AvatarUpload{Key: "avatars/" + username + "/k", UploadURL: "http://put", AvatarURL: "http://get"}, nil
}

// --- harness ---

type harness struct {
	t        *testing.T
	srv      *Server
	tokens   *auth.TokenCodec
	accounts *fakeAccounts
	articles *fakeArticles
	comments *fakeComments
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		tokens:   auth.NewTokenCodec("secret", time.Hour),
		accounts: &fakeAccounts{users: map[string]*models.User{}},
		articles: &fakeArticles{},
		comments: &fakeComments{},
	}
	h.accounts.add("Boromir", auth.RoleUser)
	h.accounts.add("Faramir", auth.RoleUser)
	h.accounts.add("admin", auth.RoleAdmin)

	h.srv = NewServer("127.0.0.1:0", nopLogger{}, h.tokens, Services{
		Accounts: h.accounts,
		Topics:   fakeTopics{},
		Articles: h.articles,
		Comments: h.comments,
		Avatars:  fakeAvatars{},
	})
	return h
}

func (h *harness) token(username string, role auth.Role) string {
	h.t.Helper()
	tok, err := h.tokens.Issue(username, role)
	if err != nil {
		h.t.Fatalf("Issue error: %v", err)
	}
	return tok
}

// do sends body (marshalled when not a string) with an optional bearer token.
func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()

	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			h.t.Fatalf("marshal: %v", err)
		}
		payload = string(raw)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if got := message(t, rec); got != msg {
		t.Fatalf("message = %q, want %q", got, msg)
	}
}
