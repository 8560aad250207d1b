package subjects

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the subject queries over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.SchoolSubject, error) {
	var rows []models.SchoolSubject
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ByID(ctx context.Context, id int64) (*models.SchoolSubject, error) {
	var subject models.SchoolSubject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *Repository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SchoolSubject{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, subject *models.SchoolSubject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *Repository) Save(ctx context.Context, subject *models.SchoolSubject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.SchoolSubject{}, id).Error
}

// InUse reports whether any class assignment or grade references the subject.
func (r *Repository) InUse(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClassRoomSchoolSubject{}).
		Where("school_subject_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("school_subject_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
