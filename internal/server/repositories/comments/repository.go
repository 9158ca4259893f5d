package comments

import (
	"context"

	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

type Repository interface {
	ListByArticle(ctx context.Context, articleID int64) ([]models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error)
	AddVotes(ctx context.Context, id int64, delta int) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, author string) ([]models.UserComment, error)
	CountByAuthor(ctx context.Context, author string) (int64, error)
	ReassignAuthor(ctx context.Context, from string, to *string) (int64, error)
}
