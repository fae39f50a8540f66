package models

import (
	"time"
)

// AccountHistory is one periodic snapshot of the brokerage account, used
// by the equity-curve endpoint.
type AccountHistory struct {
	ID          string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Equity      float64   `gorm:"type:decimal(20,8);not null" json:"equity"`
	BuyingPower float64   `gorm:"type:decimal(20,8)" json:"buying_power"`
	RecordedAt  time.Time `gorm:"not null;index" json:"recorded_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AccountHistory) TableName() string {
	return "account_histories"
}
