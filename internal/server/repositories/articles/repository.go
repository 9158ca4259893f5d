package articles

import (
	"context"

	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	Create(ctx context.Context, article models.NewArticle) (*models.Article, error)
	AddVotes(ctx context.Context, id int64, delta int) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, author string) ([]models.Article, error)
	CountByAuthor(ctx context.Context, author string) (int64, error)
	// ReassignAuthor rewrites author from -> to (nil clears it) and returns
	// the number of rows touched.
	ReassignAuthor(ctx context.Context, from string, to *string) (int64, error)
}
