package models

import "time"

type Segment struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	RecordType  string `gorm:"type:varchar(20);not null"`
	MemberCount int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SegmentMember struct {
	ID          uint `gorm:"primaryKey;autoIncrement"`
	SegmentID   uint `gorm:"not null;index;index:idx_segment_record,unique"`
	CrmRecordID uint `gorm:"not null;index;index:idx_segment_record,unique"`
	AddedAt     time.Time
}
