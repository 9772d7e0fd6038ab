package models

import "time"

// Wallet holds a user's Auracoin balance. Balance never goes below zero.
type Wallet struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WalletEntry is an append-only ledger line. Amount is positive for credits
// and negative for debits.
type WalletEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Amount       int64     `gorm:"not null" json:"amount"`
	BalanceAfter int64     `gorm:"not null" json:"balanceAfter"`
	Reason       string    `gorm:"not null" json:"reason"`
	CreatedAt    time.Time `json:"createdAt"`
}
