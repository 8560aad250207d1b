package models

import "time"

// Event is an announcement a professor or administrator publishes for a
// class, exams and excursions mostly. Parents see events through the class
// rosters of their children.
type Event struct {
	ID      int64     `gorm:"primaryKey"`
	Created time.Time `gorm:"column:created;autoCreateTime"`
	Title   string    `gorm:"type:varchar(64);not null"`
	Comment string    `gorm:"type:varchar(128);not null"`
	Date    time.Time `gorm:"column:date;not null"`

	ProfessorID     *int64 `gorm:"column:professor_id"`
	Professor       *User  `gorm:"foreignKey:ProfessorID"`
	SchoolClassID   *int64 `gorm:"column:school_class_id"`
	SchoolClass     *SchoolClass
	SchoolSubjectID *int64 `gorm:"column:school_subject_id"`
	SchoolSubject   *SchoolSubject
}

func (Event) TableName() string {
	return "events"
}
