package models

import "time"

// Absence records a student missing a lesson, with an optional justification
// flag professors toggle once a parent explains.
type Absence struct {
	ID          int64     `gorm:"primaryKey"`
	Created     time.Time `gorm:"column:created;autoCreateTime"`
	Title       *string   `gorm:"type:varchar(64)"`
	Comment     string    `gorm:"type:varchar(128);not null"`
	IsJustified bool      `gorm:"column:is_justified;not null;default:false"`

	ProfessorID     *int64 `gorm:"column:professor_id"`
	Professor       *User  `gorm:"foreignKey:ProfessorID"`
	StudentID       *int64 `gorm:"column:student_id"`
	Student         *User  `gorm:"foreignKey:StudentID"`
	SchoolSubjectID *int64 `gorm:"column:school_subject_id"`
	SchoolSubject   *SchoolSubject
	SchoolClassID   *int64 `gorm:"column:school_class_id"`
	SchoolClass     *SchoolClass
}

func (Absence) TableName() string {
	return "absences"
}
