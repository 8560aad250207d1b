package grades

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

const (
	minGrade = 0
	maxGrade = 5
)

// AddGradeRequest records a mark for a student in a subject. ProfessorID is
// honored for administrators only, professors always record as themselves.
type AddGradeRequest struct {
	StudentID       int64  `json:"student_id" validate:"required,gt=0"`
	SchoolSubjectID int64  `json:"school_subject_id" validate:"required,gt=0"`
	SchoolClassID   int64  `json:"school_class_id" validate:"required,gt=0"`
	ProfessorID     int64  `json:"professor_id"`
	Grade           int    `json:"grade"`
	GradeType       string `json:"grade_type" validate:"required,max=50"`
	Comment         string `json:"comment" validate:"max=128"`
}

type gradeRepository interface {
	ListByStudentAndSubject(ctx context.Context, studentID, subjectID int64) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	SubjectByID(ctx context.Context, id int64) (*models.SchoolSubject, error)
	ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error)
}

// Service manages grade records.
type Service struct {
	repos gradeRepository
}

func NewService(repos gradeRepository) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("grade repository is required")
	}
	return &Service{repos: repos}, nil
}

// ListForStudent returns the student's grades in a subject under the
// caller's scope. A parent asking about somebody else's child gets an
// empty listing, the same as a child with no grades.
func (s *Service) ListForStudent(ctx context.Context, p authz.Principal, studentID, subjectID int64) ([]models.Grade, error) {
	inScope, err := s.studentInScope(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	if !inScope {
		return []models.Grade{}, nil
	}
	rows, err := s.repos.ListByStudentAndSubject(ctx, studentID, subjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list grades")
	}
	return rows, nil
}

// Add records a grade after the full reference chain checks out: an active
// professor, an active student, an active subject, an active class and a
// mark inside the accepted range.
func (s *Service) Add(ctx context.Context, p authz.Principal, req AddGradeRequest) (*models.Grade, error) {
	professorID := p.UserID()
	if p.IsAdministrator() && req.ProfessorID > 0 {
		professorID = req.ProfessorID
	}
	if err := authz.CanRecordForProfessor(p, professorID); err != nil {
		return nil, err
	}

	if req.Grade < minGrade || req.Grade > maxGrade {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfRange, "Grade is out of range!")
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

	grade := &models.Grade{
		Grade:           req.Grade,
		GradeType:       req.GradeType,
		ProfessorID:     &professor.ID,
		StudentID:       &student.ID,
		SchoolSubjectID: &subject.ID,
		SchoolClassID:   &class.ID,
	}
	if req.Comment != "" {
		comment := req.Comment
		grade.Comment = &comment
	}
	if err := s.repos.Create(ctx, grade); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert grade")
	}
	return grade, nil
}

// studentInScope gates record reads: administrators see everything, bound
// professors see every student. A bound parent is limited to their own
// children; other students fall out of scope without an error so listings
// come back empty instead of leaking which accounts exist.
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
