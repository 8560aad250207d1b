package events

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the event queries over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForParent loads events of every class a child of the parent holds an
// active roster entry in.
func (r *Repository) ListForParent(ctx context.Context, parentID int64) ([]models.Event, error) {
	var rows []models.Event
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Preload("SchoolClass").
		Preload("SchoolSubject").
		Where(`school_class_id IN (
			SELECT scs.school_class_id
			FROM school_class_students scs
			JOIN users u ON u.id = scs.student_id
			WHERE scs.is_active = ? AND (u.parent_mother_id = ? OR u.parent_father_id = ?)
		)`, true, parentID, parentID).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
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
