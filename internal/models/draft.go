package models

import "time"

// Draft is an autosave snapshot of one editor tree. Payload holds the
// serialized editor.ExamDraft; Title and ExamRemoteID are denormalized
// for listing without decoding the tree.
type Draft struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index" json:"author_id"`
	Author       Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	ExamRemoteID uint      `gorm:"index;default:0" json:"exam_remote_id"`
	Published    bool      `gorm:"not null;default:false" json:"published"`
	Payload      []byte    `gorm:"type:jsonb;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
