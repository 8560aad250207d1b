package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Role").
		Preload("Gender").
		Preload("ParentMother.Role").
		Preload("ParentMother.Gender").
		Preload("ParentFather.Role").
		Preload("ParentFather.Gender")
}

// FindByEmail retrieves the live user matching the provided email exactly.
// Tombstoned rows never match.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.preloaded(ctx).
		Where("email = ? AND is_delete = ?", email, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user row regardless of flags.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.preloaded(ctx).First(&user, "users.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleByID loads a single role row.
func (r *Repository) RoleByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GenderByID loads a single gender row.
func (r *Repository) GenderByID(ctx context.Context, id int64) (*models.Gender, error) {
	var gender models.Gender
	if err := r.db.WithContext(ctx).First(&gender, id).Error; err != nil {
		return nil, err
	}
	return &gender, nil
}

// LiveEmailExists reports whether any non-deleted row holds the email
// (case-sensitive exact match).
func (r *Repository) LiveEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? AND is_delete = ?", email, false).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Save persists the full user row.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// RecordLogin stamps last_login, and first_login when unset.
func (r *Repository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	updates := map[string]any{"last_login": at}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND first_login IS NULL", id).
		UpdateColumn("first_login", at).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

func (r *Repository) applyFilter(q *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.IsDeleted != nil {
		q = q.Where("users.is_delete = ?", *filter.IsDeleted)
	}
	if filter.IsActive != nil {
		q = q.Where("users.is_active = ?", *filter.IsActive)
	}
	if filter.RoleID > 0 {
		q = q.Where("users.role_id = ?", filter.RoleID)
	}
	if filter.GenderID > 0 {
		q = q.Where("users.gender_id = ?", filter.GenderID)
	}
	if filter.BirthDate != "" {
		q = q.Where("users.birth_date = ?", filter.BirthDate)
	}
	if len(filter.visibleRoles) > 0 {
		q = q.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name IN ?", filter.visibleRoles)
	}
	if filter.Search != "" {
		// LOWER(...) LIKE keeps the match case-insensitive on both the
		// Postgres and the sqlite dialect.
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(users.phone) LIKE ? OR LOWER(users.address) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	return q
}

// List returns accounts matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	q := r.applyFilter(r.preloaded(ctx), filter).Order("users.id")
	if limit, offset, ok := filter.Page.SQLWindow(); ok {
		q = q.Limit(limit).Offset(offset)
	}
	var rows []models.User
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of accounts matching the filter.
func (r *Repository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.User{}), filter).
		Count(&count).Error
	return count, err
}

// Children returns the users referencing the parent via either parent link.
func (r *Repository) Children(ctx context.Context, parentID int64) ([]models.User, error) {
	var rows []models.User
	err := r.preloaded(ctx).
		Where("users.parent_mother_id = ? OR users.parent_father_id = ?", parentID, parentID).
		Order("users.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRoles returns every role row ordered by id.
func (r *Repository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var rows []models.Role
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) RoleNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *Repository) SaveRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Role{}, id).Error
}

// RoleInUse reports whether any account references the role.
func (r *Repository) RoleInUse(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ListGenders returns every gender row ordered by id.
func (r *Repository) ListGenders(ctx context.Context) ([]models.Gender, error) {
	var rows []models.Gender
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) GenderNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Gender{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateGender(ctx context.Context, gender *models.Gender) error {
	return r.db.WithContext(ctx).Create(gender).Error
}

func (r *Repository) SaveGender(ctx context.Context, gender *models.Gender) error {
	return r.db.WithContext(ctx).Save(gender).Error
}

func (r *Repository) DeleteGender(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Gender{}, id).Error
}

// GenderInUse reports whether any account references the gender.
func (r *Repository) GenderInUse(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("gender_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
