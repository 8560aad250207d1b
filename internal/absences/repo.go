package absences

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the absence queries over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByStudentAndSubject(ctx context.Context, studentID, subjectID int64, isJustified *bool) ([]models.Absence, error) {
	q := r.db.WithContext(ctx).
		Preload("Professor").
		Preload("SchoolSubject").
		Where("student_id = ? AND school_subject_id = ?", studentID, subjectID)
	if isJustified != nil {
		q = q.Where("is_justified = ?", *isJustified)
	}
	var rows []models.Absence
	if err := q.Order("created DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CountByStudentAndSubject(ctx context.Context, studentID, subjectID int64, isJustified bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Absence{}).
		Where("student_id = ? AND school_subject_id = ? AND is_justified = ?", studentID, subjectID, isJustified).
		Count(&count).Error
	return count, err
}

func (r *Repository) ByID(ctx context.Context, id int64) (*models.Absence, error) {
	var absence models.Absence
	if err := r.db.WithContext(ctx).First(&absence, id).Error; err != nil {
		return nil, err
	}
	return &absence, nil
}

func (r *Repository) Create(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Create(absence).Error
}

func (r *Repository) Save(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Save(absence).Error
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

func (r *Repository) ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	var class models.SchoolClass
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}
