package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/types"
	"gorm.io/gorm"
)

// AddEventRequest publishes an announcement for a class, optionally tied to
// a subject.
type AddEventRequest struct {
	Title           string `json:"title" validate:"required,max=64"`
	Comment         string `json:"comment" validate:"required,max=128"`
	Date            string `json:"date" validate:"required"`
	SchoolClassID   int64  `json:"school_class_id" validate:"required,gt=0"`
	SchoolSubjectID int64  `json:"school_subject_id"`
	ProfessorID     int64  `json:"professor_id"`
}

type eventRepository interface {
	ListForParent(ctx context.Context, parentID int64) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	SubjectByID(ctx context.Context, id int64) (*models.SchoolSubject, error)
	ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error)
}

// Service manages class announcements.
type Service struct {
	repos eventRepository
}

func NewService(repos eventRepository) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	return &Service{repos: repos}, nil
}

// ListForParent returns events for the classes the caller's children are
// actively enrolled in.
func (s *Service) ListForParent(ctx context.Context, p authz.Principal) ([]models.Event, error) {
	if err := authz.RequireParent(p); err != nil {
		return nil, err
	}
	rows, err := s.repos.ListForParent(ctx, p.UserID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}
	return rows, nil
}

// Add publishes an event. Professors publish as themselves, administrators
// may name any active professor as the author.
func (s *Service) Add(ctx context.Context, p authz.Principal, req AddEventRequest) (*models.Event, error) {
	professorID := p.UserID()
	if p.IsAdministrator() && req.ProfessorID > 0 {
		professorID = req.ProfessorID
	}
	if err := authz.CanRecordForProfessor(p, professorID); err != nil {
		return nil, err
	}

	date, err := time.Parse(types.ServerTimeLayout, req.Date)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
	}

	event := &models.Event{
		Title:   req.Title,
		Comment: req.Comment,
		Date:    date,
	}

	if !p.IsAdministrator() || req.ProfessorID > 0 {
		professor, err := s.repos.UserByID(ctx, professorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup professor")
		}
		if professor.RoleName() != string(enums.RoleProfessor) {
			return nil, pkgerrors.New(pkgerrors.CodeRoleMismatch, "User is not a professor!")
		}
		if !professor.IsActive || professor.IsDelete {
			return nil, pkgerrors.New(pkgerrors.CodeInactiveRef, "Professor is deactivated!")
		}
		event.ProfessorID = &professor.ID
	}

	class, err := s.repos.ClassByID(ctx, req.SchoolClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup class")
	}
	if !class.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveRef, "School class is deactivated!")
	}
	event.SchoolClassID = &class.ID

	if req.SchoolSubjectID > 0 {
		subject, err := s.repos.SubjectByID(ctx, req.SchoolSubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup subject")
		}
		if !subject.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeInactiveRef, "School subject is deactivated!")
		}
		event.SchoolSubjectID = &subject.ID
	}

	if err := s.repos.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert event")
	}
	return event, nil
}
