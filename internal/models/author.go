package models

import "time"

// Author is an authenticated user of the authoring gateway. The upstream
// token is the bearer credential for the exam-platform REST backend and
// never leaves the server in full.
type Author struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	UpstreamToken string    `gorm:"size:512" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
