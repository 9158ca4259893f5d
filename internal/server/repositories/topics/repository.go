package topics

import (
	"context"

	"github.com/dmitrijs2005/newsroom/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Topic, error)
	Exists(ctx context.Context, slug string) (bool, error)
	// Create inserts topic unless a topic with the same slug exists.
	Create(ctx context.Context, topic models.Topic) error
}
