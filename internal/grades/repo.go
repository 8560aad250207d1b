package grades

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the grade queries over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByStudentAndSubject(ctx context.Context, studentID, subjectID int64) ([]models.Grade, error) {
	var rows []models.Grade
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Preload("SchoolSubject").
		Where("student_id = ? AND school_subject_id = ?", studentID, subjectID).
		Order("created DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
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
