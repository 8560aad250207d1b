package models

import "time"

// Grade is a mark a professor recorded for a student in a subject.
// The accepted range is 0 to 5 inclusive.
type Grade struct {
	ID        int64     `gorm:"primaryKey"`
	Created   time.Time `gorm:"column:created;autoCreateTime"`
	Grade     int       `gorm:"column:grade;not null"`
	GradeType string    `gorm:"type:varchar(50);column:grade_type;not null"`
	Comment   *string   `gorm:"type:varchar(128)"`

	ProfessorID     *int64 `gorm:"column:professor_id"`
	Professor       *User  `gorm:"foreignKey:ProfessorID"`
	StudentID       *int64 `gorm:"column:student_id"`
	Student         *User  `gorm:"foreignKey:StudentID"`
	SchoolSubjectID *int64 `gorm:"column:school_subject_id"`
	SchoolSubject   *SchoolSubject
	SchoolClassID   *int64 `gorm:"column:school_class_id"`
	SchoolClass     *SchoolClass
}

func (Grade) TableName() string {
	return "grades"
}
