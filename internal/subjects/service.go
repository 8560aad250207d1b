package subjects

import (
	"context"
	"errors"
	"fmt"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"gorm.io/gorm"
)

// SubjectRequest is the admin payload for a subject row.
type SubjectRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	IsActive bool   `json:"is_active"`
}

type subjectRepository interface {
	List(ctx context.Context) ([]models.SchoolSubject, error)
	ByID(ctx context.Context, id int64) (*models.SchoolSubject, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, subject *models.SchoolSubject) error
	Save(ctx context.Context, subject *models.SchoolSubject) error
	Delete(ctx context.Context, id int64) error
	InUse(ctx context.Context, id int64) (bool, error)
}

// Service manages the subject catalogue. Listings are open to any
// authenticated caller, mutations to administrators.
type Service struct {
	repos subjectRepository
}

func NewService(repos subjectRepository) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("subject repository is required")
	}
	return &Service{repos: repos}, nil
}

func (s *Service) List(ctx context.Context) ([]models.SchoolSubject, error) {
	rows, err := s.repos.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subjects")
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, p authz.Principal, req SubjectRequest) (*models.SchoolSubject, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	taken, err := s.repos.NameExists(ctx, req.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subject name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("School subject %s already exists!", req.Name))
	}
	subject := &models.SchoolSubject{Name: req.Name, IsActive: req.IsActive}
	if err := s.repos.Create(ctx, subject); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert subject")
	}
	return subject, nil
}

func (s *Service) Edit(ctx context.Context, p authz.Principal, id int64, req SubjectRequest) (*models.SchoolSubject, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	subject, err := s.repos.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup subject")
	}
	if subject.Name != req.Name {
		taken, err := s.repos.NameExists(ctx, req.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subject name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("School subject %s already exists!", req.Name))
		}
	}
	subject.Name = req.Name
	subject.IsActive = req.IsActive
	if err := s.repos.Save(ctx, subject); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist subject")
	}
	return subject, nil
}

// Delete removes a subject row. Subjects referenced by class assignments or
// grades are protected.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if err := authz.RequireAdministrator(p); err != nil {
		return err
	}
	if _, err := s.repos.ByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup subject")
	}
	inUse, err := s.repos.InUse(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subject usage")
	}
	if inUse {
		return pkgerrors.New(pkgerrors.CodeValidation, "School subject is in use!")
	}
	if err := s.repos.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete subject")
	}
	return nil
}
