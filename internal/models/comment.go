package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is the flat storage record of a comment. ParentID is nil for
// top-level comments; otherwise it names an earlier comment on the same post.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"postId"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	ParentID *uint  `gorm:"index" json:"parentId"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Likes    int    `gorm:"not null;default:0" json:"likes"`
	// AuthorName is not persisted; resolved from users at query time
	AuthorName string         `gorm:"->;-:migration" json:"author"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentNode is the read-only tree view of a comment. It is rebuilt from a
// flat snapshot on every read and never persisted.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
