package users

import (
	"context"

	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByUsername returns the row whether or not it is soft-deleted.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*models.User, error)
	SoftDelete(ctx context.Context, username string) error
	Rename(ctx context.Context, oldUsername, newUsername string) error
	Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error)
	ListNonAdmin(ctx context.Context) ([]models.UserSummary, error)
	UpsertAdmin(ctx context.Context, user *models.User) error
}
