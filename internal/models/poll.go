package models

import "time"

// Poll is a question with a fixed set of options. Prediction polls are the
// same structure flagged for the predictions feed.
type Poll struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Question     string     `gorm:"type:text;not null" json:"question"`
	AuthorID     uint       `gorm:"not null;index" json:"authorId"`
	IsPrediction bool       `gorm:"not null;default:false" json:"isPrediction"`
	TotalVotes   int        `gorm:"not null;default:0" json:"totalVotes"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	// AuthorName is not persisted; resolved from users at query time
	AuthorName string       `gorm:"->;-:migration" json:"author"`
	Options    []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// PollOption is one answer of a poll with its running vote count.
type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"pollId"`
	Text   string `gorm:"type:text;not null" json:"text"`
	Votes  int    `gorm:"not null;default:0" json:"votes"`
}
