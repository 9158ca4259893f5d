// Package validate turns decoded JSON bodies and path/query values into typed
// inputs, reporting the first violated rule as a 400 APIError.
package validate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsroom/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Body is a decoded JSON object. Numbers arrive as float64.
type Body map[string]any

func (b Body) has(key string) bool {
	_, ok := b[key]
	return ok
}

// Field describes one free-text attribute: its JSON key, the label used in
// messages and an optional maximum length in characters.
type Field struct {
	Key   string
	Label string
	Max   int
	// Blank rejects whitespace-only values as empty.
	Blank bool
}

var (
	Username        = Field{Key: "username", Label: "Username", Max: 20}
	Password        = Field{Key: "password", Label: "Password", Max: 30}
	Name            = Field{Key: "name", Label: "Name", Max: 30}
	AvatarURL       = Field{Key: "avatar_url", Label: "URL to avatar image"}
	UpdatedUsername = Field{Key: "updatedUsername", Label: "Username", Max: 20, Blank: true}

	Title         = Field{Key: "title", Label: "Title", Max: 200, Blank: true}
	ArticleBody   = Field{Key: "body", Label: "Article body", Max: 5000, Blank: true}
	ArticleImgURL = Field{Key: "article_img_url", Label: "URL to article image", Blank: true}
	CommentBody   = Field{Key: "body", Label: "Comment body", Max: 1000, Blank: true}
)

func (f Field) format() validation.Rule {
	return validation.By(func(v interface{}) error {
		if _, ok := v.(string); !ok {
			return errors.New(f.Label + " must be in a valid format")
		}
		return nil
	})
}

func (f Field) empty() validation.Rule {
	return validation.By(func(v interface{}) error {
		s, _ := v.(string)
		if f.Blank {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			return errors.New(f.Label + " must not be empty text")
		}
		return nil
	})
}

// length is nil for unbounded fields.
func (f Field) length() validation.Rule {
	if f.Max == 0 {
		return nil
	}
	return validation.RuneLength(0, f.Max).
		Error(f.Label + " must not be greater than " + strconv.Itoa(f.Max) + " characters in length")
}

// rules returns the full rule chain in evaluation order.
func (f Field) rules() []validation.Rule {
	rules := []validation.Rule{f.format(), f.empty()}
	if l := f.length(); l != nil {
		rules = append(rules, l)
	}
	return rules
}

// check runs the full chain against body[f.Key] and returns the string.
func (f Field) check(body Body) (string, error) {
	v := body[f.Key]
	if err := validation.Validate(v, f.rules()...); err != nil {
		return "", badRequest(err)
	}
	return v.(string), nil
}

// optional runs check only when the key is present.
func (f Field) optional(body Body) (*string, error) {
	if !body.has(f.Key) {
		return nil, nil
	}
	s, err := f.check(body)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func badRequest(err error) error {
	return common.NewBadRequest(err.Error())
}

