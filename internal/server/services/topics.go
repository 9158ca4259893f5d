package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/repomanager"
)

type TopicService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTopicService(db *sql.DB, m repomanager.RepositoryManager) *TopicService {
	return &TopicService{db: db, repomanager: m}
}

func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	list, err := s.repomanager.Topics(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing topics: %w", err)
	}
	return list, nil
}

// Seed inserts topics that do not exist yet.
func (s *TopicService) Seed(ctx context.Context, topics []models.Topic) error {
	repo := s.repomanager.Topics(s.db)
	for _, t := range topics {
		if err := repo.Create(ctx, t); err != nil {
			return fmt.Errorf("error seeding topic %q: %w", t.Slug, err)
		}
	}
	return nil
}
