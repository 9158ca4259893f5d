package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/labstack/echo/v4"
)

type route struct {
	method      string
	path        string
	description string
	queries     []string
	handler     echo.HandlerFunc
	middleware  []echo.MiddlewareFunc
}

// EndpointDoc describes one route in the GET /api listing.
type EndpointDoc struct {
	Description string   `json:"description"`
	Queries     []string `json:"queries,omitempty"`
}

func (s *Server) routes() []route {
	user := s.RequireRole(auth.RoleUser)
	admin := s.RequireRole(auth.RoleAdmin)
	self := s.RequireSelfOrAdmin()

	return []route{
		{http.MethodGet, "/api", "serves a description of every endpoint of the api", nil, s.getEndpoints, nil},

		{http.MethodGet, "/api/topics", "serves an array of all topics", nil, s.getTopics, nil},

		{http.MethodGet, "/api/articles", "serves an array of all articles, newest first", []string{"topic", "sort_by", "order_by"}, s.getArticles, nil},
		{http.MethodPost, "/api/articles", "publishes an article authored by the caller", nil, s.postArticle, []echo.MiddlewareFunc{user}},
		{http.MethodGet, "/api/articles/:article_id", "serves a single article with its comment count", nil, s.getArticle, nil},
		{http.MethodPatch, "/api/articles/:article_id", "adds inc_votes (+1 or -1) to the article votes", nil, s.patchArticle, []echo.MiddlewareFunc{user}},
		{http.MethodDelete, "/api/articles/:article_id", "deletes an article owned by the caller (any article for admins)", nil, s.deleteArticle, []echo.MiddlewareFunc{user}},
		{http.MethodGet, "/api/articles/:article_id/comments", "serves the comments of an article, newest first", nil, s.getArticleComments, nil},
		{http.MethodPost, "/api/articles/:article_id/comments", "posts a comment authored by the caller", nil, s.postArticleComment, []echo.MiddlewareFunc{user}},

		{http.MethodPatch, "/api/comments/:comment_id", "adds inc_votes (+1 or -1) to the comment votes", nil, s.patchComment, []echo.MiddlewareFunc{user}},
		{http.MethodDelete, "/api/comments/:comment_id", "deletes a comment owned by the caller (any comment for admins)", nil, s.deleteComment, []echo.MiddlewareFunc{user}},

		{http.MethodPost, "/api/users", "registers an account and returns it with a session token", nil, s.registerUser, []echo.MiddlewareFunc{s.PreventLoggedIn()}},
		{http.MethodPost, "/api/users/login", "returns the account and a session token for valid credentials", nil, s.loginUser, []echo.MiddlewareFunc{s.PreventLoggedIn()}},
		{http.MethodGet, "/api/users", "serves every non-admin account with content counts (admin only)", nil, s.getUsers, []echo.MiddlewareFunc{admin}},
		{http.MethodGet, "/api/users/:username", "serves an account with its articles and comments", nil, s.getUser, []echo.MiddlewareFunc{s.UserInformationGuard()}},
		{http.MethodPatch, "/api/users/:username", "updates updatedUsername, name, password, avatar_url or is_private", nil, s.patchUser, []echo.MiddlewareFunc{user, self}},
		{http.MethodDelete, "/api/users/:username", "soft-deletes an account and detaches its content", nil, s.deleteUser, []echo.MiddlewareFunc{user, self}},
		{http.MethodPost, "/api/users/:username/avatar", "returns a presigned URL to upload a new avatar image", nil, s.postAvatar, []echo.MiddlewareFunc{user, self}},
	}
}

func (s *Server) registerRoutes() {
	for _, r := range s.routes() {
		s.echo.Add(r.method, r.path, r.handler, r.middleware...)
	}
}

func (s *Server) getEndpoints(c echo.Context) error {
	docs := make(map[string]EndpointDoc)
	for _, r := range s.routes() {
		docs[r.method+" "+r.path] = EndpointDoc{Description: r.description, Queries: r.queries}
	}
	return c.JSON(http.StatusOK, map[string]any{"endpoints": docs})
}
