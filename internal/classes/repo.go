package classes

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the class, roster and assignment queries over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	var rows []models.SchoolClass
	err := r.db.WithContext(ctx).
		Order("school_year DESC, name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	var class models.SchoolClass
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *Repository) ClassNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SchoolClass{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateClass(ctx context.Context, class *models.SchoolClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *Repository) SaveClass(ctx context.Context, class *models.SchoolClass) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *Repository) ProfessorsOf(ctx context.Context, classID int64) ([]models.SchoolClassProfessor, error) {
	var rows []models.SchoolClassProfessor
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Preload("Professor.Role").
		Where("school_class_id = ?", classID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) StudentsOf(ctx context.Context, classID int64) ([]models.SchoolClassStudent, error) {
	var rows []models.SchoolClassStudent
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.Role").
		Where("school_class_id = ?", classID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) StaffingExists(ctx context.Context, classID, professorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SchoolClassProfessor{}).
		Where("school_class_id = ? AND professor_id = ?", classID, professorID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) RosterExists(ctx context.Context, classID, studentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SchoolClassStudent{}).
		Where("school_class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) AddStaffing(ctx context.Context, link *models.SchoolClassProfessor) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) AddRoster(ctx context.Context, link *models.SchoolClassStudent) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) AssignmentExists(ctx context.Context, classID, subjectID, professorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClassRoomSchoolSubject{}).
		Where("school_class_id = ? AND school_subject_id = ? AND professor_id = ?", classID, subjectID, professorID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateAssignment(ctx context.Context, assignment *models.ClassRoomSchoolSubject) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *Repository) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) SubjectByID(ctx context.Context, id int64) (*models.SchoolSubject, error) {
	var subject models.SchoolSubject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}
