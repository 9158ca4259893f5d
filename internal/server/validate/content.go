package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
)

var ErrInvalidTopic = common.NewBadRequest("Topic must be a valid topic")

// ID parses a path segment that must hold a positive integer. name is the
// parameter name used in the message, e.g. "article_id".
func ID(raw, name string) (int64, error) {
	var id int64
	err := validation.Validate(raw, validation.By(func(v interface{}) error {
		n, ok := positiveInt(v.(string))
		if !ok {
			return errors.New(name + " must be a valid, positive integer")
		}
		id = n
		return nil
	}))
	if err != nil {
		return 0, badRequest(err)
	}
	return id, nil
}

func positiveInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, n >= 1
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 1 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Vote validates a vote body for the resource addressed by raw. The
// inc_votes presence check runs before the id check.
func Vote(body Body, raw, name string) (int64, int, error) {
	v, ok := body["inc_votes"]
	if !ok {
		return 0, 0, common.NewBadRequest("Inc_votes is required")
	}

	id, err := ID(raw, name)
	if err != nil {
		return 0, 0, err
	}

	var delta int
	err = validation.Validate(v, validation.By(func(v interface{}) error {
		f, ok := v.(float64)
		if !ok || (f != 1 && f != -1) {
			return errors.New("inc_votes must be +1 or -1")
		}
		delta = int(f)
		return nil
	}))
	if err != nil {
		return 0, 0, badRequest(err)
	}
	return id, delta, nil
}

// NewArticle validates an article body. Topic existence is checked by the
// caller against the store.
func NewArticle(body Body) (models.NewArticle, error) {
	if !body.has(Title.Key) || !body.has(ArticleBody.Key) || !body.has("topic") {
		return models.NewArticle{}, common.NewBadRequest("Title, body and topic are required")
	}

	var (
		a   models.NewArticle
		err error
	)
	if a.Title, err = Title.check(body); err != nil {
		return a, err
	}
	if a.Body, err = ArticleBody.check(body); err != nil {
		return a, err
	}
	img, err := ArticleImgURL.optional(body)
	if err != nil {
		return a, err
	}
	if img != nil {
		a.ArticleImgURL = *img
	}

	topic, ok := body["topic"].(string)
	if !ok {
		return a, ErrInvalidTopic
	}
	a.Topic = topic
	return a, nil
}

// Comment returns the body of a new comment.
func Comment(body Body) (string, error) {
	if !body.has(CommentBody.Key) {
		return "", common.NewBadRequest("Comment body is required")
	}
	return CommentBody.check(body)
}

var (
	sortColumns     = []interface{}{"votes", "comment_count", "created_at"}
	orderDirections = []interface{}{"asc", "desc"}
)

// ArticleFilter validates the sort_by/order_by pair of an article listing.
// Empty values count as absent.
func ArticleFilter(topic, sortBy, order string) (models.ArticleFilter, error) {
	f := models.ArticleFilter{Topic: topic, SortBy: sortBy, Order: order}

	if err := validation.Validate(sortBy, validation.In(sortColumns...).Error("Invalid sort_by value")); err != nil {
		return f, badRequest(err)
	}
	if err := validation.Validate(order, validation.In(orderDirections...).Error("Invalid order_by value")); err != nil {
		return f, badRequest(err)
	}
	if sortBy != "" && order == "" {
		return f, common.NewBadRequest("Query must include an order_by if querying with a sort_by")
	}
	if sortBy == "" && order != "" {
		return f, common.NewBadRequest("Query must include a sort_by if querying with an order_by")
	}
	return f, nil
}
