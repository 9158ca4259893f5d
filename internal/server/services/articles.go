package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
)

type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager) *ArticleService {
	return &ArticleService{db: db, repomanager: m}
}

func (s *ArticleService) checkTopic(ctx context.Context, topic string) error {
	ok, err := s.repomanager.Topics(s.db).Exists(ctx, topic)
	if err != nil {
		return fmt.Errorf("error searching topic: %w", err)
	}
	if !ok {
		return validate.ErrInvalidTopic
	}
	return nil
}

// List returns articles, newest first unless sortBy/order say otherwise.
// An unknown topic is reported before the sort parameters are checked.
func (s *ArticleService) List(ctx context.Context, topic, sortBy, order string) ([]models.Article, error) {
	if topic != "" {
		if err := s.checkTopic(ctx, topic); err != nil {
			return nil, err
		}
	}

	filter, err := validate.ArticleFilter(topic, sortBy, order)
	if err != nil {
		return nil, err
	}

	list, err := s.repomanager.Articles(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	return list, nil
}

func (s *ArticleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	a, err := s.repomanager.Articles(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, articleErr(err)
	}
	return a, nil
}

// Create publishes article as author.
func (s *ArticleService) Create(ctx context.Context, article models.NewArticle, author string) (*models.Article, error) {
	if err := s.checkTopic(ctx, article.Topic); err != nil {
		return nil, err
	}

	article.Author = author
	a, err := s.repomanager.Articles(s.db).Create(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("error creating article: %w", err)
	}
	return a, nil
}

func (s *ArticleService) Vote(ctx context.Context, id int64, delta int) (*models.Article, error) {
	a, err := s.repomanager.Articles(s.db).AddVotes(ctx, id, delta)
	if err != nil {
		return nil, articleErr(err)
	}
	return a, nil
}

// Delete removes an article owned by actor; admins may remove any article.
func (s *ArticleService) Delete(ctx context.Context, id int64, actor auth.Identity) error {
	repo := s.repomanager.Articles(s.db)

	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return articleErr(err)
	}
	if !auth.CanAct(actor.Username, actor.Role, owner(a.Author)) {
		return common.ErrForbidden
	}
	if err := repo.Delete(ctx, id); err != nil {
		return articleErr(err)
	}
	return nil
}

func articleErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrArticleNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// owner maps a detached (nil) author to a name nobody can hold.
func owner(author *string) string {
	if author == nil {
		return ""
	}
	return *author
}
