// Package services contains server-side business logic. This file implements
// AccountService, which owns registration, login and every account mutation
// that has to stay consistent with authored content.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
)

// AdminDisplayName is the name given to the provisioned admin account.
const AdminDisplayName = "Admin User"

// AuthResult is the body of a successful register or login.
type AuthResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// AccountService provides account lifecycle operations:
//   - Register / Login: create or verify credentials and mint a session token
//   - SoftDelete / Update: policy-checked mutations, run in one transaction
//     together with the author cascade on articles and comments
//   - ResolveActive: live account lookup used by the request guard
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenCodec
	hasher      auth.Hasher
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenCodec, hasher auth.Hasher) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
	}
}

// Register creates a user account with role "user" and logs it in.
// Any existing row with the username, deleted or not, yields ErrUsernameTaken.
func (s *AccountService) Register(ctx context.Context, in validate.RegisterInput) (*AuthResult, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	avatar := common.DefaultAvatarURL
	if in.AvatarURL != nil {
		avatar = *in.AvatarURL
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		AvatarURL:    avatar,
		Role:         string(auth.RoleUser),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(u)
}

// Login verifies the password of an active account. Unknown, deleted and
// mismatching credentials are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error comparing password: %w", err)
	}

	return s.authResult(u)
}

func (s *AccountService) authResult(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.Username, auth.Role(u.Role))
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}

// ResolveActive returns the current row for username, failing with
// ErrUserNotFound or ErrAccountDeleted.
func (s *AccountService) ResolveActive(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if u.IsDeleted() {
		return nil, common.ErrAccountDeleted
	}
	return u, nil
}

// SoftDelete marks target deleted and detaches its articles and comments.
func (s *AccountService) SoftDelete(ctx context.Context, target string, actor auth.Identity) error {
	if !auth.CanAct(actor.Username, actor.Role, target) {
		return common.ErrForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SoftDelete(ctx, target); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error deleting user: %w", err)
		}
		if _, err := s.repomanager.Articles(tx).ReassignAuthor(ctx, target, nil); err != nil {
			return fmt.Errorf("error detaching articles: %w", err)
		}
		if _, err := s.repomanager.Comments(tx).ReassignAuthor(ctx, target, nil); err != nil {
			return fmt.Errorf("error detaching comments: %w", err)
		}
		return nil
	})
}

// Update applies a validated patch to target. A rename rewrites the author
// of every article and comment in the same transaction.
func (s *AccountService) Update(ctx context.Context, target string, in validate.UserPatchInput, actor auth.Identity) (*models.PublicUser, error) {
	if !auth.CanAct(actor.Username, actor.Role, target) {
		return nil, common.ErrForbidden
	}

	patch := models.UserPatch{
		NewUsername: in.NewUsername,
		Name:        in.Name,
		AvatarURL:   in.AvatarURL,
		IsPrivate:   in.IsPrivate,
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if patch.IsEmpty() {
		return nil, common.ErrNoFieldsProvided
	}

	rename := patch.NewUsername != nil && *patch.NewUsername != target
	if rename {
		_, err := s.repomanager.Users(s.db).GetByUsername(ctx, *patch.NewUsername)
		switch {
		case err == nil:
			return nil, common.ErrUsernameTaken
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error searching user: %w", err)
		}
	}

	u, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		users := s.repomanager.Users(tx)
		current := target

		if rename {
			next := *patch.NewUsername
			if err := users.Rename(ctx, target, next); err != nil {
				return nil, err
			}
			if _, err := s.repomanager.Articles(tx).ReassignAuthor(ctx, target, &next); err != nil {
				return nil, fmt.Errorf("error renaming article author: %w", err)
			}
			if _, err := s.repomanager.Comments(tx).ReassignAuthor(ctx, target, &next); err != nil {
				return nil, fmt.Errorf("error renaming comment author: %w", err)
			}
			current = next
		}

		return users.Update(ctx, current, patch)
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.ErrUsernameTaken
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	pub := u.Public()
	return &pub, nil
}

// GetUserInformation builds the profile aggregate of an active account.
func (s *AccountService) GetUserInformation(ctx context.Context, username string) (*models.UserInformation, error) {
	u, err := s.ResolveActive(ctx, username)
	if err != nil {
		return nil, err
	}

	articles := s.repomanager.Articles(s.db)
	comments := s.repomanager.Comments(s.db)

	info := &models.UserInformation{UserInformation: u.Public()}

	if info.ArticlesByUser, err = articles.ListByAuthor(ctx, username); err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	if info.CommentsByUser, err = comments.ListByAuthor(ctx, username); err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	if info.ArticleCount, err = articles.CountByAuthor(ctx, username); err != nil {
		return nil, fmt.Errorf("error counting articles: %w", err)
	}
	if info.CommentCount, err = comments.CountByAuthor(ctx, username); err != nil {
		return nil, fmt.Errorf("error counting comments: %w", err)
	}

	return info, nil
}

// ListUsers returns every non-admin account with its content counts.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	list, err := s.repomanager.Users(s.db).ListNonAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

// ProvisionAdmin creates the admin account, or resets it when it exists.
func (s *AccountService) ProvisionAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("admin username and password must not be empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	u := &models.User{Username: username, Name: AdminDisplayName, PasswordHash: hash}
	if err := s.repomanager.Users(s.db).UpsertAdmin(ctx, u); err != nil {
		return fmt.Errorf("error provisioning admin: %w", err)
	}
	return nil
}
