package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a feed post.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Likes    int    `gorm:"not null;default:0" json:"likes"`
	Reposts  int    `gorm:"not null;default:0" json:"reposts"`
	// AuthorName is not persisted; resolved from users at query time
	AuthorName string `gorm:"->;-:migration" json:"author"`
	// CommentCount is not persisted; computed at query time
	CommentCount int            `gorm:"->;-:migration" json:"commentCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostDetail is a post together with its threaded comments.
type PostDetail struct {
	*Post
	Comments []*CommentNode `json:"comments"`
}
