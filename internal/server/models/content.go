package models

import "time"

type Topic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Article is used for listings (no body), detail views and created rows.
// Author is nil once the author's account has been deleted.
type Article struct {
	ArticleID     int64     `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        *string   `json:"author"`
	Body          string    `json:"body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int64     `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  *int64    `json:"comment_count,omitempty"`
}

type Comment struct {
	CommentID int64     `json:"comment_id"`
	ArticleID int64     `json:"article_id"`
	Author    *string   `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Votes     int64     `json:"votes"`
}

// UserComment is a comment joined with the article it belongs to.
type UserComment struct {
	CommentID         int64     `json:"comment_id"`
	ArticleID         int64     `json:"article_id"`
	CommentBody       string    `json:"comment_body"`
	CommentAuthor     string    `json:"comment_author"`
	CommentVotes      int64     `json:"comment_votes"`
	CommentCreatedAt  time.Time `json:"comment_created_at"`
	ArticleTitle      string    `json:"article_title"`
	ArticleTopic      string    `json:"article_topic"`
	ArticleBody       string    `json:"article_body"`
	ArticlesCreatedAt time.Time `json:"articles_created_at"`
	ArticleVotes      int64     `json:"article_votes"`
	ArticleImgURL     string    `json:"article_img_url"`
}

// ArticleFilter holds the already validated listing query.
type ArticleFilter struct {
	Topic  string
	SortBy string
	Order  string
}

// NewArticle is the input of article creation. An empty ArticleImgURL keeps
// the column default.
type NewArticle struct {
	Title         string
	Body          string
	Topic         string
	Author        string
	ArticleImgURL string
}
