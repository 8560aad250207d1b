package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"gorm.io/gorm"
)

// RoleRequest names a role row.
type RoleRequest struct {
	Name string `json:"name" validate:"required,max=20"`
}

// GenderRequest names a gender row.
type GenderRequest struct {
	Name string `json:"name" validate:"required,max=10"`
}

type referenceRepository interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	RoleByID(ctx context.Context, id int64) (*models.Role, error)
	RoleNameExists(ctx context.Context, name string) (bool, error)
	CreateRole(ctx context.Context, role *models.Role) error
	SaveRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, id int64) error
	RoleInUse(ctx context.Context, id int64) (bool, error)

	ListGenders(ctx context.Context) ([]models.Gender, error)
	GenderByID(ctx context.Context, id int64) (*models.Gender, error)
	GenderNameExists(ctx context.Context, name string) (bool, error)
	CreateGender(ctx context.Context, gender *models.Gender) error
	SaveGender(ctx context.Context, gender *models.Gender) error
	DeleteGender(ctx context.Context, id int64) error
	GenderInUse(ctx context.Context, id int64) (bool, error)
}

// ReferenceService manages the role and gender lookup tables. Every
// operation is restricted to administrators.
type ReferenceService struct {
	repos referenceRepository
}

// NewReferenceService constructs the lookup-table service.
func NewReferenceService(repos referenceRepository) (*ReferenceService, error) {
	if repos == nil {
		return nil, fmt.Errorf("reference repository is required")
	}
	return &ReferenceService{repos: repos}, nil
}

func (s *ReferenceService) ListRoles(ctx context.Context, p authz.Principal) ([]models.Role, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	rows, err := s.repos.ListRoles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roles")
	}
	return rows, nil
}

func (s *ReferenceService) CreateRole(ctx context.Context, p authz.Principal, req RoleRequest) (*models.Role, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	taken, err := s.repos.RoleNameExists(ctx, req.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check role name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Role %s already exists!", req.Name))
	}
	role := &models.Role{Name: req.Name}
	if err := s.repos.CreateRole(ctx, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert role")
	}
	return role, nil
}

func (s *ReferenceService) EditRole(ctx context.Context, p authz.Principal, id int64, req RoleRequest) (*models.Role, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	role, err := s.repos.RoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}
	if role.Name != req.Name {
		taken, err := s.repos.RoleNameExists(ctx, req.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check role name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Role %s already exists!", req.Name))
		}
	}
	role.Name = req.Name
	if err := s.repos.SaveRole(ctx, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist role")
	}
	return role, nil
}

// DeleteRole removes a role row. Roles still referenced by accounts are
// protected.
func (s *ReferenceService) DeleteRole(ctx context.Context, p authz.Principal, id int64) error {
	if err := authz.RequireAdministrator(p); err != nil {
		return err
	}
	if _, err := s.repos.RoleByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}
	inUse, err := s.repos.RoleInUse(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check role usage")
	}
	if inUse {
		return pkgerrors.New(pkgerrors.CodeValidation, "Role is assigned to users!")
	}
	if err := s.repos.DeleteRole(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete role")
	}
	return nil
}

func (s *ReferenceService) ListGenders(ctx context.Context, p authz.Principal) ([]models.Gender, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	rows, err := s.repos.ListGenders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list genders")
	}
	return rows, nil
}

func (s *ReferenceService) CreateGender(ctx context.Context, p authz.Principal, req GenderRequest) (*models.Gender, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	taken, err := s.repos.GenderNameExists(ctx, req.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check gender name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Gender %s already exists!", req.Name))
	}
	gender := &models.Gender{Name: req.Name}
	if err := s.repos.CreateGender(ctx, gender); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert gender")
	}
	return gender, nil
}

func (s *ReferenceService) EditGender(ctx context.Context, p authz.Principal, id int64, req GenderRequest) (*models.Gender, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	gender, err := s.repos.GenderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup gender")
	}
	if gender.Name != req.Name {
		taken, err := s.repos.GenderNameExists(ctx, req.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check gender name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Gender %s already exists!", req.Name))
		}
	}
	gender.Name = req.Name
	if err := s.repos.SaveGender(ctx, gender); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist gender")
	}
	return gender, nil
}

func (s *ReferenceService) DeleteGender(ctx context.Context, p authz.Principal, id int64) error {
	if err := authz.RequireAdministrator(p); err != nil {
		return err
	}
	if _, err := s.repos.GenderByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup gender")
	}
	inUse, err := s.repos.GenderInUse(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check gender usage")
	}
	if inUse {
		return pkgerrors.New(pkgerrors.CodeValidation, "Gender is assigned to users!")
	}
	if err := s.repos.DeleteGender(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gender")
	}
	return nil
}
