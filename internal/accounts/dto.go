package accounts

import (
	"time"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/pagination"
	"github.com/YodaBikarbona/school-book-server/pkg/types"
)

// CreateAccountRequest is the admin payload for onboarding any account.
// Student rows ignore the credential fields entirely.
type CreateAccountRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=50"`
	LastName       string `json:"last_name" validate:"required,max=50"`
	Email          string `json:"email" validate:"omitempty,email,max=50"`
	Address        string `json:"address" validate:"required,max=100"`
	City           string `json:"city" validate:"required,max=50"`
	Phone          string `json:"phone" validate:"omitempty,max=50"`
	IsActive       bool   `json:"is_active"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	GenderID       int64  `json:"gender_id" validate:"required,gt=0"`
	RoleID         int64  `json:"role_id" validate:"required,gt=0"`
	ParentMotherID *int64 `json:"parent_mother"`
	ParentFatherID *int64 `json:"parent_father"`
	Password       string `json:"password"`
	Newsletter     bool   `json:"newsletter"`
}

// EditAccountRequest mirrors the create payload minus the password, plus the
// tombstone flag.
type EditAccountRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=50"`
	LastName       string `json:"last_name" validate:"required,max=50"`
	Email          string `json:"email" validate:"omitempty,email,max=50"`
	Address        string `json:"address" validate:"required,max=100"`
	City           string `json:"city" validate:"required,max=50"`
	Phone          string `json:"phone" validate:"omitempty,max=50"`
	IsActive       bool   `json:"is_active"`
	IsDeleted      bool   `json:"is_deleted"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	GenderID       int64  `json:"gender_id" validate:"required,gt=0"`
	RoleID         int64  `json:"role_id" validate:"required,gt=0"`
	ParentMotherID *int64 `json:"parent_mother"`
	ParentFatherID *int64 `json:"parent_father"`
	Newsletter     bool   `json:"newsletter"`
}

// ChangePasswordRequest rotates a credential through the admin surface.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ActivateByCodeRequest consumes an activation code from the login modal.
type ActivateByCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResendActivationRequest asks for a replacement activation code.
type ResendActivationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ListFilter narrows account listings. Nil pointer fields mean "no filter".
type ListFilter struct {
	IsDeleted *bool
	IsActive  *bool
	RoleID    int64
	GenderID  int64
	BirthDate string
	Search    string
	Page      pagination.Params

	// visibleRoles restricts rows by role name, empty means unrestricted.
	visibleRoles []string
}

// RestrictRoles applies the caller's visibility slice to the filter.
func (f *ListFilter) RestrictRoles(roles []string) {
	f.visibleRoles = roles
}

// RoleView mirrors the role lookup row.
type RoleView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenderView mirrors the gender lookup row.
type GenderView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserView is the outward account shape. Credential columns never leave the
// service.
type UserView struct {
	ID           int64       `json:"id"`
	Created      string      `json:"created"`
	FirstLogin   *string     `json:"first_login"`
	LastLogin    *string     `json:"last_login"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	Phone        string      `json:"phone"`
	IsActive     bool        `json:"is_active"`
	IsDelete     bool        `json:"is_delete"`
	Newsletter   bool        `json:"newsletter"`
	BirthDate    string      `json:"birth_date"`
	Role         *RoleView   `json:"role"`
	Gender       *GenderView `json:"gender"`
	ParentMother *UserView   `json:"parent_mother,omitempty"`
	ParentFather *UserView   `json:"parent_father,omitempty"`
}

// LoginResult couples the caller row with the minted token.
type LoginResult struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

// FromModel flattens a user row into its outward shape.
func FromModel(u *models.User) UserView {
	view := UserView{
		ID:         u.ID,
		Created:    u.Created.UTC().Format(types.ServerTimeLayout),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.EmailOrEmpty(),
		Address:    u.Address,
		City:       u.City,
		IsActive:   u.IsActive,
		IsDelete:   u.IsDelete,
		Newsletter: u.Newsletter,
		BirthDate:  u.BirthDate.Format("2006-01-02"),
	}
	if u.Phone != nil {
		view.Phone = *u.Phone
	}
	if u.FirstLogin != nil {
		view.FirstLogin = formatTimePtr(u.FirstLogin)
	}
	if u.LastLogin != nil {
		view.LastLogin = formatTimePtr(u.LastLogin)
	}
	if u.Role != nil {
		view.Role = &RoleView{ID: u.Role.ID, Name: u.Role.Name}
	}
	if u.Gender != nil {
		view.Gender = &GenderView{ID: u.Gender.ID, Name: u.Gender.Name}
	}
	if u.ParentMother != nil {
		parent := FromModel(u.ParentMother)
		view.ParentMother = &parent
	}
	if u.ParentFather != nil {
		parent := FromModel(u.ParentFather)
		view.ParentFather = &parent
	}
	return view
}

// FromModels maps a listing into views.
func FromModels(rows []models.User) []UserView {
	views := make([]UserView, 0, len(rows))
	for i := range rows {
		views = append(views, FromModel(&rows[i]))
	}
	return views
}

func formatTimePtr(t *time.Time) *string {
	s := t.UTC().Format(types.ServerTimeLayout)
	return &s
}
