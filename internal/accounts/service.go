package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	pkgauth "github.com/YodaBikarbona/school-book-server/pkg/auth"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/mailer"
	"github.com/YodaBikarbona/school-book-server/pkg/security"
	"gorm.io/gorm"
)

const (
	wrongCredentialsMessage = "User or password is wrong!"
	notFoundMessage         = "Not found!"
)

// Service defines the account aggregate operations.
type Service interface {
	Authenticate(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ActivateByCode(ctx context.Context, req ActivateByCodeRequest) error
	ResendActivation(ctx context.Context, email string) error
	Create(ctx context.Context, req CreateAccountRequest) (*models.User, error)
	Edit(ctx context.Context, userID int64, req EditAccountRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error
	SetActive(ctx context.Context, p authz.Principal, userID int64, active bool) error
	SoftDelete(ctx context.Context, p authz.Principal, userID int64) error
	GetByID(ctx context.Context, p authz.Principal, userID int64) (*models.User, error)
	List(ctx context.Context, p authz.Principal, filter ListFilter) ([]models.User, error)
	Count(ctx context.Context, p authz.Principal, filter ListFilter) (int64, error)
	Children(ctx context.Context, p authz.Principal) ([]models.User, error)
}

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	LiveEmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, filter ListFilter) ([]models.User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Children(ctx context.Context, parentID int64) ([]models.User, error)
	RoleByID(ctx context.Context, id int64) (*models.Role, error)
	GenderByID(ctx context.Context, id int64) (*models.Gender, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// repoFactory rebinds the repository to an open transaction. Tests swap it
// for a factory returning a stub.
type repoFactory func(tx *gorm.DB) accountRepository

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	TxRunner txRunner
	Repo     accountRepository
	RepoInTx repoFactory
	Notifier mailer.Notifier
	JWT      config.JWTConfig
	Now      func() time.Time
}

type service struct {
	tx       txRunner
	repos    accountRepository
	inTx     repoFactory
	notifier mailer.Notifier
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs the account service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.RepoInTx == nil {
		params.RepoInTx = func(tx *gorm.DB) accountRepository {
			return NewRepository(tx)
		}
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:       params.TxRunner,
		repos:    params.Repo,
		inTx:     params.RepoInTx,
		notifier: params.Notifier,
		jwtCfg:   params.JWT,
		now:      now,
	}, nil
}

// Authenticate checks the credential pair and mints a token. Unknown email
// and wrong password collapse to the same outward failure; a deactivated
// account is reported distinctly once the password matched.
func (s *service) Authenticate(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeWrongCreds, wrongCredentialsMessage)
	}

	user, err := s.repos.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeWrongCreds, wrongCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.Salt == nil || user.Password == nil {
		return nil, pkgerrors.New(pkgerrors.CodeWrongCreds, wrongCredentialsMessage)
	}
	if !security.VerifyPassword(*user.Salt, req.Password, *user.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeWrongCreds, wrongCredentialsMessage)
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "User is deactivated!")
	}

	role, err := enums.ParseRoleName(user.RoleName())
	if err != nil || !role.CanAuthenticate() {
		return nil, pkgerrors.New(pkgerrors.CodeWrongCreds, wrongCredentialsMessage)
	}

	now := s.now()
	if err := s.repos.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}
	user.LastLogin = &now

	token, err := pkgauth.MintAccessToken(s.jwtCfg, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  *user.Email,
		Role:   role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResult{User: FromModel(user), Token: token}, nil
}

// ActivateByCode consumes a pending activation code. Consumption is
// transactional so two concurrent submissions cannot both succeed.
func (s *service) ActivateByCode(ctx context.Context, req ActivateByCodeRequest) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)
		user, err := repos.FindByEmail(ctx, strings.TrimSpace(req.Email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := ConsumeActivation(user, req.Code, s.now()); err != nil {
			return err
		}
		if err := repos.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist activation")
		}
		return nil
	})
}

// ResendActivation mints a replacement code for an inactive account and
// mails it out. An account that never carried credentials, or that is
// already active, cannot ask for one.
func (s *service) ResendActivation(ctx context.Context, email string) error {
	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)
		found, err := repos.FindByEmail(ctx, strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if found.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "User is already activated!")
		}
		if err := BeginActivation(found, s.now()); err != nil {
			return err
		}
		if err := repos.Save(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist activation code")
		}
		user = found
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendActivationMail(ctx, user)
}

// Create persists a new account. Non-Student accounts start deactivated with
// a pending activation code unless explicitly created active; the activation
// mail failure is reported without unwinding the insert.
func (s *service) Create(ctx context.Context, req CreateAccountRequest) (*models.User, error) {
	user := &models.User{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)

		role, err := s.resolveRole(ctx, repos, req.RoleID)
		if err != nil {
			return err
		}
		if _, err := repos.GenderByID(ctx, req.GenderID); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
		}

		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
		}

		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Address = req.Address
		user.City = req.City
		user.BirthDate = birthDate
		user.GenderID = &req.GenderID
		user.RoleID = &role.ID
		user.Role = role
		user.IsActive = req.IsActive
		user.Newsletter = req.Newsletter

		if role.Name == string(enums.RoleStudent) {
			if err := s.shapeStudent(ctx, repos, user, req.ParentMotherID, req.ParentFatherID); err != nil {
				return err
			}
		} else {
			if err := s.shapeCredentialed(ctx, repos, user, req.Email, req.Phone, req.Password); err != nil {
				return err
			}
			if !user.IsActive {
				if err := BeginActivation(user, s.now()); err != nil {
					return err
				}
			}
		}

		if err := repos.Create(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sendActivationMail(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// Edit updates an account in place. Email uniqueness is re-checked only when
// the value changed.
func (s *service) Edit(ctx context.Context, userID int64, req EditAccountRequest) (*models.User, error) {
	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)

		existing, err := repos.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}

		role, err := s.resolveRole(ctx, repos, req.RoleID)
		if err != nil {
			return err
		}
		if _, err := repos.GenderByID(ctx, req.GenderID); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
		}
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
		}

		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		existing.Address = req.Address
		existing.City = req.City
		existing.BirthDate = birthDate
		existing.GenderID = &req.GenderID
		existing.RoleID = &role.ID
		existing.Role = role
		existing.IsActive = req.IsActive
		existing.IsDelete = req.IsDeleted
		existing.Newsletter = req.Newsletter

		if role.Name == string(enums.RoleStudent) {
			existing.Email = nil
			existing.Phone = nil
			existing.Salt = nil
			existing.Password = nil
			if err := s.shapeStudent(ctx, repos, existing, req.ParentMotherID, req.ParentFatherID); err != nil {
				return err
			}
		} else {
			if req.Email == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
			}
			if existing.EmailOrEmpty() != req.Email {
				taken, err := repos.LiveEmailExists(ctx, req.Email)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
				}
				if taken {
					return pkgerrors.New(pkgerrors.CodeDuplicateEmail, fmt.Sprintf("User with %s already exists!", req.Email))
				}
			}
			email := req.Email
			existing.Email = &email
			if req.Phone != "" {
				phone := req.Phone
				existing.Phone = &phone
			}
			existing.ParentMotherID = nil
			existing.ParentFatherID = nil
			existing.ParentMother = nil
			existing.ParentFather = nil
		}

		if err := repos.Save(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist user")
		}
		user = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates a credential. A candidate identical to the stored
// one is a no-op; a real change re-runs the strength policy, rotates the
// salt, and forces re-activation with a fresh code.
func (s *service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	var user *models.User
	changed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)

		existing, err := repos.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if existing.Salt == nil || existing.Password == nil {
			return pkgerrors.New(pkgerrors.CodeRoleMismatch, "This account carries no credentials!")
		}

		if security.HashPassword(*existing.Salt, req.Password) == *existing.Password {
			return nil
		}
		if !security.CheckStrength(req.Password) {
			return pkgerrors.New(pkgerrors.CodeWeakPassword, "Password is not valid!")
		}

		salt, err := security.NewSalt()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate salt")
		}
		hash := security.HashPassword(salt, req.Password)
		existing.Salt = &salt
		existing.Password = &hash
		if err := BeginActivation(existing, s.now()); err != nil {
			return err
		}
		if err := repos.Save(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist password")
		}
		user = existing
		changed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.sendActivationMail(ctx, user)
}

// SetActive toggles the active flag. Activation through this surface still
// requires a live pending code; deactivation issues a fresh one.
func (s *service) SetActive(ctx context.Context, p authz.Principal, userID int64, active bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)

		user, err := repos.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := authz.CanManageAccount(p, user.ID); err != nil {
			return err
		}

		if active {
			if user.ActivationCode == nil || user.ExpiredActivationCode == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "Something is wrong! User is not activated!")
			}
			if err := ConsumeActivation(user, *user.ActivationCode, s.now()); err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "Something is wrong! User is not activated!")
			}
		} else {
			if err := BeginActivation(user, s.now()); err != nil {
				return err
			}
		}

		if err := repos.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist active flag")
		}
		return nil
	})
}

// SoftDelete tombstones the row; nothing is ever removed from storage.
func (s *service) SoftDelete(ctx context.Context, p authz.Principal, userID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.inTx(tx)

		user, err := repos.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := authz.CanManageAccount(p, user.ID); err != nil {
			return err
		}

		user.IsDelete = true
		if err := repos.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist delete flag")
		}
		return nil
	})
}

// GetByID loads a single account under the caller's scope. A row that exists
// outside the scope is Forbidden, not silently absent. Soft deleted rows stay
// visible to administrators only, everybody else reads them as absent.
func (s *service) GetByID(ctx context.Context, p authz.Principal, userID int64) (*models.User, error) {
	if err := authz.CanViewAccount(p); err != nil {
		return nil, err
	}

	user, err := s.repos.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.IsDelete && !p.IsAdministrator() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}

	switch p.Role {
	case enums.RoleAdministrator:
		return user, nil
	case enums.RoleProfessor:
		for _, role := range authz.VisibleRoles(p) {
			if user.RoleName() == role {
				return user, nil
			}
		}
		return nil, authz.ErrForbidden()
	case enums.RoleParent:
		if isChildOf(user, p.UserID()) {
			return user, nil
		}
		return nil, authz.ErrForbidden()
	default:
		return nil, authz.ErrForbidden()
	}
}

// List returns the accounts visible to the caller under the filter. Only
// administrators may page through soft deleted rows.
func (s *service) List(ctx context.Context, p authz.Principal, filter ListFilter) ([]models.User, error) {
	if err := authz.CanListAccounts(p); err != nil {
		return nil, err
	}
	filter.RestrictRoles(authz.VisibleRoles(p))
	if !p.IsAdministrator() {
		filter.IsDeleted = boolPtr(false)
	}
	rows, err := s.repos.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return rows, nil
}

// Count mirrors List without loading rows.
func (s *service) Count(ctx context.Context, p authz.Principal, filter ListFilter) (int64, error) {
	if err := authz.CanListAccounts(p); err != nil {
		return 0, err
	}
	filter.RestrictRoles(authz.VisibleRoles(p))
	if !p.IsAdministrator() {
		filter.IsDeleted = boolPtr(false)
	}
	count, err := s.repos.Count(ctx, filter)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	return count, nil
}

// Children lists the accounts linked to the calling parent.
func (s *service) Children(ctx context.Context, p authz.Principal) ([]models.User, error) {
	if err := authz.RequireParent(p); err != nil {
		return nil, err
	}
	rows, err := s.repos.Children(ctx, p.UserID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list children")
	}
	return rows, nil
}

func (s *service) resolveRole(ctx context.Context, repos accountRepository, roleID int64) (*models.Role, error) {
	role, err := repos.RoleByID(ctx, roleID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
	}
	if !enums.RoleName(role.Name).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeRoleMismatch, fmt.Sprintf("This role doesn't exist, role is %s!", role.Name))
	}
	return role, nil
}

// shapeStudent applies the Student field invariant: no credentials, at least
// one parent reference.
func (s *service) shapeStudent(ctx context.Context, repos accountRepository, user *models.User, motherID, fatherID *int64) error {
	user.Email = nil
	user.Phone = nil
	user.Salt = nil
	user.Password = nil
	user.ActivationCode = nil
	user.ExpiredActivationCode = nil

	if motherID == nil && fatherID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "One of parent fields is required!")
	}
	for _, parentID := range []*int64{motherID, fatherID} {
		if parentID == nil {
			continue
		}
		if _, err := repos.FindByID(ctx, *parentID); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Wrong data!")
		}
	}
	user.ParentMotherID = motherID
	user.ParentFatherID = fatherID
	return nil
}

// shapeCredentialed applies the non-Student invariant: email, phone and a
// policy-passing password all present, parent links cleared.
func (s *service) shapeCredentialed(ctx context.Context, repos accountRepository, user *models.User, email, phone, password string) error {
	if email == "" || phone == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Fields password, email and phone are required!")
	}
	if !security.CheckStrength(password) {
		return pkgerrors.New(pkgerrors.CodeWeakPassword, "Password is not valid!")
	}

	taken, err := repos.LiveEmailExists(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeDuplicateEmail, fmt.Sprintf("User with %s already exists!", email))
	}

	salt, err := security.NewSalt()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate salt")
	}
	hash := security.HashPassword(salt, password)

	user.Email = &email
	user.Phone = &phone
	user.Salt = &salt
	user.Password = &hash
	user.ParentMotherID = nil
	user.ParentFatherID = nil
	return nil
}

// sendActivationMail notifies the user of a pending code. Failure surfaces
// as a degraded-success signal; the account write is already committed.
func (s *service) sendActivationMail(ctx context.Context, user *models.User) error {
	if user.ActivationCode == nil || user.Email == nil {
		return nil
	}
	if err := s.notifier.SendActivationCode(ctx, *user.Email, *user.ActivationCode); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotifier, err, "Mail didn't send!")
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

func isChildOf(user *models.User, parentID int64) bool {
	if parentID <= 0 {
		return false
	}
	if user.ParentMotherID != nil && *user.ParentMotherID == parentID {
		return true
	}
	if user.ParentFatherID != nil && *user.ParentFatherID == parentID {
		return true
	}
	return false
}
