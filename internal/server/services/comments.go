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
)

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// ListForArticle returns the comments of an existing article, newest first.
func (s *CommentService) ListForArticle(ctx context.Context, articleID int64) ([]models.Comment, error) {
	if _, err := s.repomanager.Articles(s.db).GetByID(ctx, articleID); err != nil {
		return nil, articleErr(err)
	}

	list, err := s.repomanager.Comments(s.db).ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return list, nil
}

func (s *CommentService) Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error) {
	c, err := s.repomanager.Comments(s.db).Create(ctx, articleID, author, body)
	if err != nil {
		return nil, articleErr(err)
	}
	return c, nil
}

func (s *CommentService) Vote(ctx context.Context, id int64, delta int) (*models.Comment, error) {
	c, err := s.repomanager.Comments(s.db).AddVotes(ctx, id, delta)
	if err != nil {
		return nil, commentErr(err)
	}
	return c, nil
}

// Delete removes a comment owned by actor; admins may remove any comment.
func (s *CommentService) Delete(ctx context.Context, id int64, actor auth.Identity) error {
	repo := s.repomanager.Comments(s.db)

	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return commentErr(err)
	}
	if !auth.CanAct(actor.Username, actor.Role, owner(c.Author)) {
		return common.ErrForbidden
	}
	if err := repo.Delete(ctx, id); err != nil {
		return commentErr(err)
	}
	return nil
}

func commentErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrCommentNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
