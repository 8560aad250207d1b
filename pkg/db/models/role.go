package models

import "time"

// Role is the lookup table of permission roles. The four seeded names drive
// all authorization decisions; rows added beyond them grant nothing.
type Role struct {
	ID      int64     `gorm:"primaryKey"`
	Created time.Time `gorm:"column:created;autoCreateTime"`
	Name    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
}

func (Role) TableName() string {
	return "roles"
}
