package models

import "time"

// SchoolSubject is a taught subject. Deactivated subjects cannot be assigned
// to class rooms or receive new grades.
type SchoolSubject struct {
	ID       int64     `gorm:"primaryKey"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
	IsActive bool      `gorm:"column:is_active;not null;default:false"`
	Name     string    `gorm:"type:varchar(50);not null;uniqueIndex"`
}

func (SchoolSubject) TableName() string {
	return "school_subjects"
}

// ClassRoomSchoolSubject assigns a professor to teach a subject in a class.
// The triple is unique.
type ClassRoomSchoolSubject struct {
	ID       int64     `gorm:"primaryKey"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
	IsActive bool      `gorm:"column:is_active;not null;default:false"`

	ProfessorID     *int64 `gorm:"column:professor_id;uniqueIndex:uniq_class_subject_professor"`
	Professor       *User  `gorm:"foreignKey:ProfessorID"`
	SchoolSubjectID *int64 `gorm:"column:school_subject_id;uniqueIndex:uniq_class_subject_professor"`
	SchoolSubject   *SchoolSubject
	SchoolClassID   *int64 `gorm:"column:school_class_id;uniqueIndex:uniq_class_subject_professor"`
	SchoolClass     *SchoolClass
}

func (ClassRoomSchoolSubject) TableName() string {
	return "classroom_school_subjects"
}
