// Package models holds the rows and read models exchanged between
// repositories, services and the HTTP layer.
package models

import "time"

// User is a full users row, credential hash included. Never serialize it.
type User struct {
	Username     string
	Name         string
	AvatarURL    string
	PasswordHash string
	Role         string
	IsPrivate    bool
	DeletedAt    *time.Time
}

// IsDeleted reports whether the account has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Public returns the client-facing profile.
func (u *User) Public() PublicUser {
	return PublicUser{
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

// PublicUser is the only account shape returned by register, login and update.
type PublicUser struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

// UserPatch carries the fields of a partial account update; nil means absent.
type UserPatch struct {
	NewUsername  *string
	Name         *string
	PasswordHash *string
	AvatarURL    *string
	IsPrivate    *bool
}

// IsEmpty reports whether no field is set.
func (p UserPatch) IsEmpty() bool {
	return p.NewUsername == nil && p.Name == nil && p.PasswordHash == nil &&
		p.AvatarURL == nil && p.IsPrivate == nil
}

// UserSummary is a row of the admin user listing.
type UserSummary struct {
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	AvatarURL    string     `json:"avatar_url"`
	IsPrivate    bool       `json:"is_private"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CommentCount int64      `json:"comment_count"`
	ArticleCount int64      `json:"article_count"`
}

// UserInformation is the profile aggregate served for a single account.
type UserInformation struct {
	UserInformation PublicUser    `json:"userInformation"`
	ArticlesByUser  []Article     `json:"articlesByUser"`
	CommentsByUser  []UserComment `json:"commentsByUser"`
	CommentCount    int64         `json:"commentCount"`
	ArticleCount    int64         `json:"articleCount"`
}
