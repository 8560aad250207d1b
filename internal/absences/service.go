package absences

import (
	"context"
	"errors"
	"fmt"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"gorm.io/gorm"
)

// AddAbsenceRequest records a student missing a lesson.
type AddAbsenceRequest struct {
	StudentID       int64  `json:"student_id" validate:"required,gt=0"`
	SchoolSubjectID int64  `json:"school_subject_id" validate:"required,gt=0"`
	SchoolClassID   int64  `json:"school_class_id" validate:"required,gt=0"`
	ProfessorID     int64  `json:"professor_id"`
	Title           string `json:"title" validate:"max=64"`
	Comment         string `json:"comment" validate:"required,max=128"`
	IsJustified     bool   `json:"is_justified"`
}

// EditAbsenceRequest updates the justification state of an absence.
type EditAbsenceRequest struct {
	Title       string `json:"title" validate:"max=64"`
	Comment     string `json:"comment" validate:"required,max=128"`
	IsJustified bool   `json:"is_justified"`
}

// Counts splits a student's absences in a subject by justification.
type Counts struct {
	Justified   int64 `json:"justified"`
	Unjustified int64 `json:"unjustified"`
}

type absenceRepository interface {
	ListByStudentAndSubject(ctx context.Context, studentID, subjectID int64, isJustified *bool) ([]models.Absence, error)
	CountByStudentAndSubject(ctx context.Context, studentID, subjectID int64, isJustified bool) (int64, error)
	ByID(ctx context.Context, id int64) (*models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	Save(ctx context.Context, absence *models.Absence) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	SubjectByID(ctx context.Context, id int64) (*models.SchoolSubject, error)
	ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error)
}

// Service manages absence records.
type Service struct {
	repos absenceRepository
}

func NewService(repos absenceRepository) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("absence repository is required")
	}
	return &Service{repos: repos}, nil
}

// ListForStudent returns the student's absences in a subject, optionally
// narrowed by justification. A parent asking about somebody else's child
// gets an empty listing, the same as a child with no absences.
func (s *Service) ListForStudent(ctx context.Context, p authz.Principal, studentID, subjectID int64, isJustified *bool) ([]models.Absence, error) {
	inScope, err := s.studentInScope(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	if !inScope {
		return []models.Absence{}, nil
	}
	rows, err := s.repos.ListByStudentAndSubject(ctx, studentID, subjectID, isJustified)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list absences")
	}
	return rows, nil
}

// CountsForStudent returns the justified and unjustified tallies. Out of
// scope students tally zero on both sides.
func (s *Service) CountsForStudent(ctx context.Context, p authz.Principal, studentID, subjectID int64) (*Counts, error) {
	inScope, err := s.studentInScope(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	if !inScope {
		return &Counts{}, nil
	}
	justified, err := s.repos.CountByStudentAndSubject(ctx, studentID, subjectID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count justified absences")
	}
	unjustified, err := s.repos.CountByStudentAndSubject(ctx, studentID, subjectID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unjustified absences")
	}
	return &Counts{Justified: justified, Unjustified: unjustified}, nil
}

// Add records an absence after the reference chain checks out, mirroring the
// grade invariants minus the mark range.
func (s *Service) Add(ctx context.Context, p authz.Principal, req AddAbsenceRequest) (*models.Absence, error) {
	professorID := p.UserID()
	if p.IsAdministrator() && req.ProfessorID > 0 {
		professorID = req.ProfessorID
	}
	if err := authz.CanRecordForProfessor(p, professorID); err != nil {
		return nil, err
	}

	professor, err := s.userByID(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if professor.RoleName() != string(enums.RoleProfessor) {
		return nil, pkgerrors.New(pkgerrors.CodeRoleMismatch, "User is not a professor!")
	}
	if !professor.IsActive || professor.IsDelete {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveRef, "Professor is deactivated!")
	}

	student, err := s.userByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.RoleName() != string(enums.RoleStudent) {
		return nil, pkgerrors.New(pkgerrors.CodeRoleMismatch, "User is not a student!")
	}
	if !student.IsActive || student.IsDelete {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveRef, "Student is deactivated!")
	}

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

	absence := &models.Absence{
		Comment:         req.Comment,
		IsJustified:     req.IsJustified,
		ProfessorID:     &professor.ID,
		StudentID:       &student.ID,
		SchoolSubjectID: &subject.ID,
		SchoolClassID:   &class.ID,
	}
	if req.Title != "" {
		title := req.Title
		absence.Title = &title
	}
	if err := s.repos.Create(ctx, absence); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert absence")
	}
	return absence, nil
}

// Edit updates an absence, typically flipping the justification flag once a
// parent explains. Only the professor of record or an administrator may.
func (s *Service) Edit(ctx context.Context, p authz.Principal, id int64, req EditAbsenceRequest) (*models.Absence, error) {
	absence, err := s.repos.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup absence")
	}

	professorID := int64(0)
	if absence.ProfessorID != nil {
		professorID = *absence.ProfessorID
	}
	if err := authz.CanRecordForProfessor(p, professorID); err != nil {
		return nil, err
	}

	absence.Comment = req.Comment
	absence.IsJustified = req.IsJustified
	if req.Title != "" {
		title := req.Title
		absence.Title = &title
	} else {
		absence.Title = nil
	}
	if err := s.repos.Save(ctx, absence); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist absence")
	}
	return absence, nil
}

// studentInScope mirrors the grade read gate: a bound parent is limited to
// their own children, and other students fall out of scope without an error.
func (s *Service) studentInScope(ctx context.Context, p authz.Principal, studentID int64) (bool, error) {
	if err := authz.CanReadStudentRecords(p); err != nil {
		return false, err
	}
	if p.Role != enums.RoleParent {
		return true, nil
	}
	student, err := s.userByID(ctx, studentID)
	if err != nil {
		return false, err
	}
	parentID := p.UserID()
	if student.ParentMotherID != nil && *student.ParentMotherID == parentID {
		return true, nil
	}
	if student.ParentFatherID != nil && *student.ParentFatherID == parentID {
		return true, nil
	}
	return false, nil
}

func (s *Service) userByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}
