package models

import "time"

// Gender is a free-form lookup table seeded by migrations.
type Gender struct {
	ID      int64     `gorm:"primaryKey"`
	Created time.Time `gorm:"column:created;autoCreateTime"`
	Name    string    `gorm:"type:varchar(10);not null;uniqueIndex"`
}

func (Gender) TableName() string {
	return "genders"
}
