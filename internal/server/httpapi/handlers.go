package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
	"github.com/labstack/echo/v4"
)

// readBody decodes the request body as a JSON object whatever its
// Content-Type. An empty body or a JSON null decodes to an empty object;
// anything else that is not an object is ErrMalformedBody.
func readBody(c echo.Context) (validate.Body, error) {
	var body validate.Body
	if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Body{}, nil
		}
		return nil, common.ErrMalformedBody
	}
	if body == nil {
		body = validate.Body{}
	}
	return body, nil
}

// caller returns the identity set by RequireRole.
func caller(c echo.Context) auth.Identity {
	id, _ := IdentityFrom(c)
	return id
}

// --- topics ---

func (s *Server) getTopics(c echo.Context) error {
	topics, err := s.svc.Topics.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, topics)
}

// --- articles ---

func (s *Server) getArticles(c echo.Context) error {
	articles, err := s.svc.Articles.List(c.Request().Context(),
		c.QueryParam("topic"), c.QueryParam("sort_by"), c.QueryParam("order_by"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c echo.Context) error {
	id, err := validate.ID(c.Param("article_id"), "article_id")
	if err != nil {
		return err
	}
	a, err := s.svc.Articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) postArticle(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	in, err := validate.NewArticle(body)
	if err != nil {
		return err
	}
	a, err := s.svc.Articles.Create(c.Request().Context(), in, caller(c).Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) patchArticle(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	id, delta, err := validate.Vote(body, c.Param("article_id"), "article_id")
	if err != nil {
		return err
	}
	a, err := s.svc.Articles.Vote(c.Request().Context(), id, delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteArticle(c echo.Context) error {
	id, err := validate.ID(c.Param("article_id"), "article_id")
	if err != nil {
		return err
	}
	if err := s.svc.Articles.Delete(c.Request().Context(), id, caller(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- comments ---

func (s *Server) getArticleComments(c echo.Context) error {
	id, err := validate.ID(c.Param("article_id"), "article_id")
	if err != nil {
		return err
	}
	comments, err := s.svc.Comments.ListForArticle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (s *Server) postArticleComment(c echo.Context) error {
	id, err := validate.ID(c.Param("article_id"), "article_id")
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	text, err := validate.Comment(body)
	if err != nil {
		return err
	}
	comment, err := s.svc.Comments.Create(c.Request().Context(), id, caller(c).Username, text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) patchComment(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	id, delta, err := validate.Vote(body, c.Param("comment_id"), "comment_id")
	if err != nil {
		return err
	}
	comment, err := s.svc.Comments.Vote(c.Request().Context(), id, delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (s *Server) deleteComment(c echo.Context) error {
	id, err := validate.ID(c.Param("comment_id"), "comment_id")
	if err != nil {
		return err
	}
	if err := s.svc.Comments.Delete(c.Request().Context(), id, caller(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- users ---

func (s *Server) registerUser(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	in, err := validate.Register(body)
	if err != nil {
		return err
	}
	res, err := s.svc.Accounts.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) loginUser(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	username, password, err := validate.Login(body)
	if err != nil {
		return err
	}
	res, err := s.svc.Accounts.Login(c.Request().Context(), username, password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getUsers(c echo.Context) error {
	users, err := s.svc.Accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c echo.Context) error {
	info, err := s.svc.Accounts.GetUserInformation(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) patchUser(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	in, err := validate.UserPatch(body)
	if err != nil {
		return err
	}
	u, err := s.svc.Accounts.Update(c.Request().Context(), c.Param("username"), in, caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.svc.Accounts.SoftDelete(c.Request().Context(), c.Param("username"), caller(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) postAvatar(c echo.Context) error {
	up, err := s.svc.Avatars.PresignUpload(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, up)
}
