package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

func withIdentity(c echo.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by the guard, if any.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header, or "" when there is none.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(common.AuthorizationHeaderName)
	parts := strings.Split(h, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return ""
	}
	return parts[1]
}

// authenticate verifies the token and re-reads the account, so deletions
// after issue are honoured. The role comes from the store, not the token.
func (s *Server) authenticate(c echo.Context, token string) (auth.Identity, error) {
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, common.ErrInvalidToken
	}

	u, err := s.svc.Accounts.ResolveActive(c.Request().Context(), claimed.Username)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{Username: u.Username, Role: auth.Role(u.Role)}, nil
}

// RequireRole admits requests carrying a valid token of an active account
// whose role satisfies required.
func (s *Server) RequireRole(required auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return common.ErrNoToken
			}

			id, err := s.authenticate(c, token)
			if err != nil {
				return err
			}
			if !id.Role.Satisfies(required) {
				return common.ErrForbidden
			}

			withIdentity(c, id)
			return next(c)
		}
	}
}

// RequireSelfOrAdmin runs after RequireRole on routes with a :username
// parameter. Admins acting on someone else need that account to be active.
func (s *Server) RequireSelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return common.ErrNoToken
			}

			target := c.Param("username")
			if target == id.Username {
				return next(c)
			}
			if id.Role != auth.RoleAdmin {
				return common.ErrForbidden
			}
			if _, err := s.svc.Accounts.ResolveActive(c.Request().Context(), target); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// UserInformationGuard protects profile reads: a token is optional, the
// target must be active and private profiles are visible to their owner
// and admins only.
func (s *Server) UserInformationGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var (
				id     auth.Identity
				authed bool
			)
			if token := bearerToken(c); token != "" {
				var err error
				if id, err = s.authenticate(c, token); err != nil {
					return err
				}
				authed = true
				withIdentity(c, id)
			}

			target, err := s.svc.Accounts.ResolveActive(c.Request().Context(), c.Param("username"))
			if err != nil {
				return err
			}

			if target.IsPrivate {
				if !authed || !auth.CanAct(id.Username, id.Role, target.Username) {
					return common.ErrForbidden
				}
			}
			return next(c)
		}
	}
}

// PreventLoggedIn rejects register and login for callers already holding a
// valid token. Invalid tokens are ignored.
func (s *Server) PreventLoggedIn() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if _, err := s.tokens.Verify(token); err == nil {
					return common.ErrAlreadyLoggedIn
				}
			}
			return next(c)
		}
	}
}
