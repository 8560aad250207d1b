package models

import "time"

// SchoolClass is a class room bound to a school year. A deactivated class is
// readable but rejects new grades, absences, events and roster changes.
type SchoolClass struct {
	ID         int64     `gorm:"primaryKey"`
	Created    time.Time `gorm:"column:created;autoCreateTime"`
	SchoolYear string    `gorm:"type:varchar(9);column:school_year;not null"`
	Name       string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	IsActive   bool      `gorm:"column:is_active;not null;default:false"`
}

func (SchoolClass) TableName() string {
	return "school_classes"
}

// SchoolClassProfessor links a professor onto a class roster. The pair is
// unique; staffing the same professor twice is a constraint violation.
type SchoolClassProfessor struct {
	ID       int64     `gorm:"primaryKey"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
	IsActive bool      `gorm:"column:is_active;not null;default:false"`

	ProfessorID   *int64 `gorm:"column:professor_id;uniqueIndex:uniq_class_professor"`
	Professor     *User  `gorm:"foreignKey:ProfessorID"`
	SchoolClassID int64  `gorm:"column:school_class_id;not null;uniqueIndex:uniq_class_professor"`
	SchoolClass   *SchoolClass
}

func (SchoolClassProfessor) TableName() string {
	return "school_class_professors"
}

// SchoolClassStudent links a student onto a class roster, unique per pair.
type SchoolClassStudent struct {
	ID       int64     `gorm:"primaryKey"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
	IsActive bool      `gorm:"column:is_active;not null;default:false"`

	StudentID     int64 `gorm:"column:student_id;not null;uniqueIndex:uniq_class_student"`
	Student       *User `gorm:"foreignKey:StudentID"`
	SchoolClassID int64 `gorm:"column:school_class_id;not null;uniqueIndex:uniq_class_student"`
	SchoolClass   *SchoolClass
}

func (SchoolClassStudent) TableName() string {
	return "school_class_students"
}
