package classes

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

// ClassRequest is the admin payload for a class room.
type ClassRequest struct {
	SchoolYear string `json:"school_year" validate:"required,max=9"`
	Name       string `json:"name" validate:"required,max=50"`
	IsActive   bool   `json:"is_active"`
}

// MemberRequest links an account onto a class roster.
type MemberRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// AssignSubjectRequest puts a professor in front of a subject in a class.
type AssignSubjectRequest struct {
	ProfessorID     int64 `json:"professor_id" validate:"required,gt=0"`
	SchoolSubjectID int64 `json:"school_subject_id" validate:"required,gt=0"`
}

// Members couples both sides of a class roster.
type Members struct {
	Professors []models.SchoolClassProfessor `json:"professors"`
	Students   []models.SchoolClassStudent   `json:"students"`
}

type classRepository interface {
	ListClasses(ctx context.Context) ([]models.SchoolClass, error)
	ClassByID(ctx context.Context, id int64) (*models.SchoolClass, error)
	ClassNameExists(ctx context.Context, name string) (bool, error)
	CreateClass(ctx context.Context, class *models.SchoolClass) error
	SaveClass(ctx context.Context, class *models.SchoolClass) error

	ProfessorsOf(ctx context.Context, classID int64) ([]models.SchoolClassProfessor, error)
	StudentsOf(ctx context.Context, classID int64) ([]models.SchoolClassStudent, error)
	StaffingExists(ctx context.Context, classID, professorID int64) (bool, error)
	RosterExists(ctx context.Context, classID, studentID int64) (bool, error)
	AddStaffing(ctx context.Context, link *models.SchoolClassProfessor) error
	AddRoster(ctx context.Context, link *models.SchoolClassStudent) error

	AssignmentExists(ctx context.Context, classID, subjectID, professorID int64) (bool, error)
	CreateAssignment(ctx context.Context, assignment *models.ClassRoomSchoolSubject) error

	UserByID(ctx context.Context, id int64) (*models.User, error)
	SubjectByID(ctx context.Context, id int64) (*models.SchoolSubject, error)
}

// Service manages class rooms, their rosters and subject assignments.
type Service struct {
	repos classRepository
}

func NewService(repos classRepository) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("class repository is required")
	}
	return &Service{repos: repos}, nil
}

func (s *Service) List(ctx context.Context) ([]models.SchoolClass, error) {
	rows, err := s.repos.ListClasses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list classes")
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, p authz.Principal, req ClassRequest) (*models.SchoolClass, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	taken, err := s.repos.ClassNameExists(ctx, req.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check class name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("School class %s already exists!", req.Name))
	}
	class := &models.SchoolClass{
		SchoolYear: req.SchoolYear,
		Name:       req.Name,
		IsActive:   req.IsActive,
	}
	if err := s.repos.CreateClass(ctx, class); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert class")
	}
	return class, nil
}

func (s *Service) Edit(ctx context.Context, p authz.Principal, id int64, req ClassRequest) (*models.SchoolClass, error) {
	if err := authz.RequireAdministrator(p); err != nil {
		return nil, err
	}
	class, err := s.classByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class.Name != req.Name {
		taken, err := s.repos.ClassNameExists(ctx, req.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check class name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("School class %s already exists!", req.Name))
		}
	}
	class.SchoolYear = req.SchoolYear
	class.Name = req.Name
	class.IsActive = req.IsActive
	if err := s.repos.SaveClass(ctx, class); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist class")
	}
	return class, nil
}

// Members lists both professors and students linked onto the class.
func (s *Service) Members(ctx context.Context, p authz.Principal, classID int64) (*Members, error) {
	if err := authz.CanViewAccount(p); err != nil {
		return nil, err
	}
	if _, err := s.classByID(ctx, classID); err != nil {
		return nil, err
	}
	professors, err := s.repos.ProfessorsOf(ctx, classID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list class professors")
	}
	students, err := s.repos.StudentsOf(ctx, classID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list class students")
	}
	return &Members{Professors: professors, Students: students}, nil
}

// AddMember staffs a professor or enrolls a student, branching on the
// account's role. The (user, class) pair is unique on both sides.
func (s *Service) AddMember(ctx context.Context, p authz.Principal, classID int64, req MemberRequest) error {
	if err := authz.RequireAdministrator(p); err != nil {
		return err
	}
	class, err := s.classByID(ctx, classID)
	if err != nil {
		return err
	}
	if !class.IsActive {
		return pkgerrors.New(pkgerrors.CodeInactiveRef, "School class is deactivated!")
	}

	user, err := s.repos.UserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive || user.IsDelete {
		return pkgerrors.New(pkgerrors.CodeInactiveRef, "User is deactivated!")
	}

	switch user.RoleName() {
	case string(enums.RoleProfessor):
		exists, err := s.repos.StaffingExists(ctx, classID, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check staffing")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicateAssign, "Professor is already in the class!")
		}
		link := &models.SchoolClassProfessor{
			ProfessorID:   &user.ID,
			SchoolClassID: classID,
			IsActive:      true,
		}
		if err := s.repos.AddStaffing(ctx, link); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert staffing")
		}
	case string(enums.RoleStudent):
		exists, err := s.repos.RosterExists(ctx, classID, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check roster")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicateAssign, "Student is already in the class!")
		}
		link := &models.SchoolClassStudent{
			StudentID:     user.ID,
			SchoolClassID: classID,
			IsActive:      true,
		}
		if err := s.repos.AddRoster(ctx, link); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert roster")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeRoleMismatch, "Only professors and students join classes!")
	}
	return nil
}

// AssignSubject puts a professor in front of a subject inside a class.
// Professor, subject and class must all be active and the triple unique.
func (s *Service) AssignSubject(ctx context.Context, p authz.Principal, classID int64, req AssignSubjectRequest) error {
	if err := authz.RequireAdministrator(p); err != nil {
		return err
	}
	class, err := s.classByID(ctx, classID)
	if err != nil {
		return err
	}
	if !class.IsActive {
		return pkgerrors.New(pkgerrors.CodeInactiveRef, "School class is deactivated!")
	}

	professor, err := s.repos.UserByID(ctx, req.ProfessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup professor")
	}
	if professor.RoleName() != string(enums.RoleProfessor) {
		return pkgerrors.New(pkgerrors.CodeRoleMismatch, "User is not a professor!")
	}
	if !professor.IsActive || professor.IsDelete {
		return pkgerrors.New(pkgerrors.CodeInactiveRef, "Professor is deactivated!")
	}

	subject, err := s.repos.SubjectByID(ctx, req.SchoolSubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup subject")
	}
	if !subject.IsActive {
		return pkgerrors.New(pkgerrors.CodeInactiveRef, "School subject is deactivated!")
	}

	exists, err := s.repos.AssignmentExists(ctx, classID, subject.ID, professor.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check assignment")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeDuplicateAssign, "Subject is already assigned in the class!")
	}

	assignment := &models.ClassRoomSchoolSubject{
		ProfessorID:     &professor.ID,
		SchoolSubjectID: &subject.ID,
		SchoolClassID:   &class.ID,
		IsActive:        true,
	}
	if err := s.repos.CreateAssignment(ctx, assignment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert assignment")
	}
	return nil
}

func (s *Service) classByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	class, err := s.repos.ClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup class")
	}
	return class, nil
}
