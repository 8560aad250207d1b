package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/YodaBikarbona/school-book-server/internal/authz"
	pkgauth "github.com/YodaBikarbona/school-book-server/pkg/auth"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/security"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	users   map[int64]*models.User
	roles   map[int64]*models.Role
	genders map[int64]*models.Gender
	nextID  int64

	loginsRecorded []int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users: map[int64]*models.User{},
		roles: map[int64]*models.Role{
			1: {ID: 1, Name: string(enums.RoleAdministrator)},
			2: {ID: 2, Name: string(enums.RoleProfessor)},
			3: {ID: 3, Name: string(enums.RoleParent)},
			4: {ID: 4, Name: string(enums.RoleStudent)},
		},
		genders: map[int64]*models.Gender{
			1: {ID: 1, Name: "male"},
			2: {ID: 2, Name: "female"},
		},
		nextID: 100,
	}
}

func (r *stubRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if !u.IsDelete && u.EmailOrEmpty() == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubRepo) LiveEmailExists(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if !u.IsDelete && u.EmailOrEmpty() == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) Create(ctx context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *stubRepo) Save(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubRepo) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	r.loginsRecorded = append(r.loginsRecorded, id)
	return nil
}

func (r *stubRepo) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	var rows []models.User
	for _, u := range r.users {
		if filter.IsDeleted != nil && u.IsDelete != *filter.IsDeleted {
			continue
		}
		if len(filter.visibleRoles) > 0 {
			visible := false
			for _, role := range filter.visibleRoles {
				if u.RoleName() == role {
					visible = true
					break
				}
			}
			if !visible {
				continue
			}
		}
		rows = append(rows, *u)
	}
	return rows, nil
}

func (r *stubRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r *stubRepo) Children(ctx context.Context, parentID int64) ([]models.User, error) {
	var rows []models.User
	for _, u := range r.users {
		if (u.ParentMotherID != nil && *u.ParentMotherID == parentID) ||
			(u.ParentFatherID != nil && *u.ParentFatherID == parentID) {
			rows = append(rows, *u)
		}
	}
	return rows, nil
}

func (r *stubRepo) RoleByID(ctx context.Context, id int64) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *stubRepo) GenderByID(ctx context.Context, id int64) (*models.Gender, error) {
	gender, ok := r.genders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return gender, nil
}

type sentMail struct {
	to   string
	code string
}

type stubNotifier struct {
	sent []sentMail
	err  error
}

func (n *stubNotifier) SendActivationCode(ctx context.Context, to, code string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{to: to, code: code})
	return nil
}

func fixedNow() time.Time {
	return time.Date(2020, 9, 1, 8, 0, 0, 0, time.UTC)
}

var testJWT = config.JWTConfig{Secret: "test-secret"}

func newTestService(t *testing.T, repo *stubRepo, notifier *stubNotifier) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TxRunner: stubTxRunner{},
		Repo:     repo,
		RepoInTx: func(tx *gorm.DB) accountRepository { return repo },
		Notifier: notifier,
		JWT:      testJWT,
		Now:      fixedNow,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedUser(repo *stubRepo, id int64, roleID int64, email, password string, active bool) *models.User {
	role := repo.roles[roleID]
	user := &models.User{
		ID:       id,
		RoleID:   &roleID,
		Role:     role,
		IsActive: active,
	}
	if email != "" {
		e := email
		user.Email = &e
	}
	if password != "" {
		salt, err := security.NewSalt()
		if err != nil {
			panic(err)
		}
		hash := security.HashPassword(salt, password)
		user.Salt = &salt
		user.Password = &hash
	}
	repo.users[id] = user
	return user
}

func principalFor(t *testing.T, user *models.User) authz.Principal {
	t.Helper()
	role, err := enums.ParseRoleName(user.RoleName())
	if err != nil {
		t.Fatalf("parse role: %v", err)
	}
	token, err := pkgauth.MintAccessToken(testJWT, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.EmailOrEmpty(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return authz.NewPrincipal(testJWT, user, token)
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code(), err)
	}
}

func validCreateRequest(roleID int64) CreateAccountRequest {
	return CreateAccountRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     fmt.Sprintf("john.doe.%d@example.com", roleID),
		Address:   "Main Street 1",
		City:      "Zagreb",
		Phone:     "+385911234567",
		BirthDate: "1985-04-12",
		GenderID:  1,
		RoleID:    roleID,
		Password:  "Str0ng@pass",
	}
}

func TestCreateProfessorStartsDeactivatedWithPendingCode(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, notifier)

	user, err := svc.Create(context.Background(), validCreateRequest(2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.IsActive {
		t.Error("expected a fresh account deactivated")
	}
	if user.ActivationCode == nil || len(*user.ActivationCode) != security.ActivationCodeLength {
		t.Fatalf("expected a pending activation code, got %v", user.ActivationCode)
	}
	if user.ExpiredActivationCode == nil || !user.ExpiredActivationCode.Equal(fixedNow().Add(2*time.Hour)) {
		t.Errorf("expected expiry two hours out, got %v", user.ExpiredActivationCode)
	}
	if user.Salt == nil || user.Password == nil {
		t.Fatal("expected stored credentials")
	}
	if *user.Password == "Str0ng@pass" {
		t.Error("password must not be stored in the clear")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one activation mail, got %d", len(notifier.sent))
	}
	if notifier.sent[0].code != *user.ActivationCode {
		t.Error("mailed code differs from the stored one")
	}
}

func TestCreateStudentCarriesNoCredentials(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	parent := seedUser(repo, 10, 3, "parent@example.com", "Str0ng@pass", true)

	req := validCreateRequest(4)
	req.ParentMotherID = &parent.ID
	user, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != nil || user.Phone != nil || user.Salt != nil || user.Password != nil {
		t.Error("students must carry no credential columns")
	}
	if user.ActivationCode != nil {
		t.Error("students never hold activation state")
	}
	if user.ParentMotherID == nil || *user.ParentMotherID != parent.ID {
		t.Error("expected the parent link persisted")
	}
}

func TestCreateStudentWithoutParentIsRejected(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	before := len(repo.users)
	_, err := svc.Create(context.Background(), validCreateRequest(4))
	expectCode(t, err, pkgerrors.CodeValidation)
	if len(repo.users) != before {
		t.Error("rejected create must not insert a row")
	}
}

func TestCreateDuplicateEmailIsRejected(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	req := validCreateRequest(2)
	seedUser(repo, 11, 2, req.Email, "Str0ng@pass", true)

	before := len(repo.users)
	_, err := svc.Create(context.Background(), req)
	expectCode(t, err, pkgerrors.CodeDuplicateEmail)
	if len(repo.users) != before {
		t.Error("rejected create must not insert a row")
	}
}

func TestCreateDeletedEmailCanBeReused(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	req := validCreateRequest(2)
	ghost := seedUser(repo, 11, 2, req.Email, "Str0ng@pass", true)
	ghost.IsDelete = true

	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create over a tombstoned email: %v", err)
	}
}

func TestCreateWeakPasswordIsRejected(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	req := validCreateRequest(2)
	req.Password = "alllowercase1"
	_, err := svc.Create(context.Background(), req)
	expectCode(t, err, pkgerrors.CodeWeakPassword)
}

func TestCreateMailFailureKeepsTheRow(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{err: fmt.Errorf("smtp down")})

	user, err := svc.Create(context.Background(), validCreateRequest(2))
	expectCode(t, err, pkgerrors.CodeNotifier)
	if user == nil {
		t.Fatal("expected the persisted user alongside the notifier failure")
	}
	if _, ok := repo.users[user.ID]; !ok {
		t.Error("expected the row committed despite the mail failure")
	}
}

func TestActivateByCode(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	user := seedUser(repo, 12, 2, "prof@example.com", "Str0ng@pass", false)
	code := "a1B2c3D4e5"
	expiry := fixedNow().Add(2 * time.Hour)
	user.ActivationCode = &code
	user.ExpiredActivationCode = &expiry

	t.Run("wrong code", func(t *testing.T) {
		err := svc.ActivateByCode(context.Background(), ActivateByCodeRequest{Email: "prof@example.com", Code: "XXXXXXXXXX"})
		expectCode(t, err, pkgerrors.CodeCodeWrong)
	})

	t.Run("unknown email", func(t *testing.T) {
		err := svc.ActivateByCode(context.Background(), ActivateByCodeRequest{Email: "nobody@example.com", Code: code})
		expectCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("success", func(t *testing.T) {
		err := svc.ActivateByCode(context.Background(), ActivateByCodeRequest{Email: "prof@example.com", Code: code})
		if err != nil {
			t.Fatalf("ActivateByCode: %v", err)
		}
		if !repo.users[12].IsActive {
			t.Error("expected account active")
		}
		if repo.users[12].ActivationCode != nil {
			t.Error("expected code cleared")
		}
	})

	t.Run("second submission finds nothing pending", func(t *testing.T) {
		err := svc.ActivateByCode(context.Background(), ActivateByCodeRequest{Email: "prof@example.com", Code: code})
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestResendActivation(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, notifier)

	user := seedUser(repo, 13, 2, "prof@example.com", "Str0ng@pass", false)
	stale := "old0ldCode"
	expired := fixedNow().Add(-time.Hour)
	user.ActivationCode = &stale
	user.ExpiredActivationCode = &expired

	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		err := svc.ResendActivation(ctx, "nobody@example.com")
		expectCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("replaces the code and mails it", func(t *testing.T) {
		if err := svc.ResendActivation(ctx, "prof@example.com"); err != nil {
			t.Fatalf("ResendActivation: %v", err)
		}
		if user.ActivationCode == nil || *user.ActivationCode == stale {
			t.Fatal("expected a fresh activation code")
		}
		if user.ExpiredActivationCode == nil || !user.ExpiredActivationCode.After(fixedNow()) {
			t.Error("expected the expiry stamped ahead")
		}
		if len(notifier.sent) != 1 || notifier.sent[0].code != *user.ActivationCode {
			t.Errorf("expected the fresh code mailed out, got %+v", notifier.sent)
		}
	})

	t.Run("active accounts cannot ask for one", func(t *testing.T) {
		active := seedUser(repo, 14, 2, "active@example.com", "Str0ng@pass", true)
		err := svc.ResendActivation(ctx, *active.Email)
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	seedUser(repo, 13, 2, "prof@example.com", "Str0ng@pass", true)
	seedUser(repo, 14, 3, "parent@example.com", "Str0ng@pass", false)

	t.Run("unknown email and wrong password collapse", func(t *testing.T) {
		_, unknownErr := svc.Authenticate(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "Str0ng@pass"})
		expectCode(t, unknownErr, pkgerrors.CodeWrongCreds)

		_, wrongErr := svc.Authenticate(context.Background(), LoginRequest{Email: "prof@example.com", Password: "Wr0ng@pass1"})
		expectCode(t, wrongErr, pkgerrors.CodeWrongCreds)

		if pkgerrors.As(unknownErr).Message() != pkgerrors.As(wrongErr).Message() {
			t.Error("failure messages must not reveal which credential was wrong")
		}
	})

	t.Run("deactivated account is reported distinctly", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), LoginRequest{Email: "parent@example.com", Password: "Str0ng@pass"})
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("success mints a parsable token", func(t *testing.T) {
		result, err := svc.Authenticate(context.Background(), LoginRequest{Email: "prof@example.com", Password: "Str0ng@pass"})
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		claims, err := pkgauth.ParseAccessToken(testJWT, result.Token)
		if err != nil {
			t.Fatalf("ParseAccessToken: %v", err)
		}
		if claims.UserID != 13 || claims.Email != "prof@example.com" || claims.Role != enums.RoleProfessor {
			t.Errorf("unexpected claims %+v", claims)
		}
		if len(repo.loginsRecorded) == 0 || repo.loginsRecorded[len(repo.loginsRecorded)-1] != 13 {
			t.Error("expected the login recorded")
		}
	})
}

func TestChangePassword(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, notifier)

	user := seedUser(repo, 15, 2, "prof@example.com", "Str0ng@pass", true)
	originalSalt := *user.Salt

	t.Run("same password is a no-op", func(t *testing.T) {
		if err := svc.ChangePassword(context.Background(), 15, ChangePasswordRequest{Password: "Str0ng@pass"}); err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		if *user.Salt != originalSalt {
			t.Error("salt must not rotate for an unchanged password")
		}
		if len(notifier.sent) != 0 {
			t.Error("no mail expected for a no-op")
		}
	})

	t.Run("weak replacement is rejected", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 15, ChangePasswordRequest{Password: "weak"})
		expectCode(t, err, pkgerrors.CodeWeakPassword)
	})

	t.Run("rotation re-salts and forces re-activation", func(t *testing.T) {
		if err := svc.ChangePassword(context.Background(), 15, ChangePasswordRequest{Password: "N3w@passwd"}); err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		if *user.Salt == originalSalt {
			t.Error("expected a fresh salt")
		}
		if !security.VerifyPassword(*user.Salt, "N3w@passwd", *user.Password) {
			t.Error("new password must verify against the rotated pair")
		}
		if user.IsActive {
			t.Error("expected account deactivated pending re-activation")
		}
		if user.ActivationCode == nil {
			t.Fatal("expected a pending activation code")
		}
		if len(notifier.sent) != 1 || notifier.sent[0].code != *user.ActivationCode {
			t.Error("expected the new code mailed")
		}
	})

	t.Run("student accounts carry no credentials", func(t *testing.T) {
		seedUser(repo, 16, 4, "", "", true)
		err := svc.ChangePassword(context.Background(), 16, ChangePasswordRequest{Password: "N3w@passwd"})
		expectCode(t, err, pkgerrors.CodeRoleMismatch)
	})
}

func TestGetByIDScoping(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	admin := seedUser(repo, 20, 1, "admin@example.com", "Str0ng@pass", true)
	professor := seedUser(repo, 21, 2, "prof@example.com", "Str0ng@pass", true)
	parent := seedUser(repo, 22, 3, "parent@example.com", "Str0ng@pass", true)
	otherParent := seedUser(repo, 23, 3, "other@example.com", "Str0ng@pass", true)

	child := seedUser(repo, 24, 4, "", "", true)
	child.ParentMotherID = &parent.ID
	stranger := seedUser(repo, 25, 4, "", "", true)
	stranger.ParentFatherID = &otherParent.ID

	ctx := context.Background()

	t.Run("administrator reads anything", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, principalFor(t, admin), stranger.ID); err != nil {
			t.Fatalf("GetByID: %v", err)
		}
	})

	t.Run("professor reads school roles", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, principalFor(t, professor), child.ID); err != nil {
			t.Fatalf("GetByID: %v", err)
		}
	})

	t.Run("professor cannot read administrators", func(t *testing.T) {
		_, err := svc.GetByID(ctx, principalFor(t, professor), admin.ID)
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("parent reads own child", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, principalFor(t, parent), child.ID); err != nil {
			t.Fatalf("GetByID: %v", err)
		}
	})

	t.Run("parent cannot read an unrelated student", func(t *testing.T) {
		_, err := svc.GetByID(ctx, principalFor(t, parent), stranger.ID)
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, principalFor(t, admin), 999)
		expectCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("tombstones read as absent outside administration", func(t *testing.T) {
		deleted := seedUser(repo, 26, 3, "gone@example.com", "Str0ng@pass", true)
		deleted.IsDelete = true

		_, err := svc.GetByID(ctx, principalFor(t, professor), deleted.ID)
		expectCode(t, err, pkgerrors.CodeNotFound)

		if _, err := svc.GetByID(ctx, principalFor(t, admin), deleted.ID); err != nil {
			t.Fatalf("GetByID as administrator: %v", err)
		}
	})
}

func TestListHidesTombstonesFromNonAdministrators(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	admin := seedUser(repo, 35, 1, "admin@example.com", "Str0ng@pass", true)
	professor := seedUser(repo, 36, 2, "prof@example.com", "Str0ng@pass", true)
	deleted := seedUser(repo, 37, 3, "gone@example.com", "Str0ng@pass", true)
	deleted.IsDelete = true

	ctx := context.Background()

	rows, err := svc.List(ctx, principalFor(t, professor), ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, row := range rows {
		if row.IsDelete {
			t.Error("deleted rows must be omitted from a professor listing")
		}
	}
	count, err := svc.Count(ctx, principalFor(t, professor), ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the single live professor-visible row, got %d", count)
	}

	// An administrator may still page through tombstones explicitly.
	adminRows, err := svc.List(ctx, principalFor(t, admin), ListFilter{IsDeleted: boolPtr(true)})
	if err != nil {
		t.Fatalf("List as administrator: %v", err)
	}
	if len(adminRows) != 1 || !adminRows[0].IsDelete {
		t.Errorf("expected only the deleted row, got %d rows", len(adminRows))
	}
}

func TestListRestrictsRolesForProfessors(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	professor := seedUser(repo, 30, 2, "prof@example.com", "Str0ng@pass", true)
	seedUser(repo, 31, 1, "admin@example.com", "Str0ng@pass", true)
	seedUser(repo, 32, 4, "", "", true)

	rows, err := svc.List(context.Background(), principalFor(t, professor), ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, row := range rows {
		if row.RoleName() == string(enums.RoleAdministrator) {
			t.Error("administrator rows must be omitted from a professor listing")
		}
	}
}

func TestSetActive(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	admin := seedUser(repo, 40, 1, "admin@example.com", "Str0ng@pass", true)
	target := seedUser(repo, 41, 2, "prof@example.com", "Str0ng@pass", true)
	bystander := seedUser(repo, 42, 2, "other@example.com", "Str0ng@pass", true)

	ctx := context.Background()

	t.Run("non-admin cannot manage another account", func(t *testing.T) {
		err := svc.SetActive(ctx, principalFor(t, bystander), target.ID, false)
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("deactivate issues a fresh code", func(t *testing.T) {
		if err := svc.SetActive(ctx, principalFor(t, admin), target.ID, false); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		if target.IsActive {
			t.Error("expected account deactivated")
		}
		if target.ActivationCode == nil {
			t.Error("expected a pending code after deactivation")
		}
	})

	t.Run("activate consumes the pending code", func(t *testing.T) {
		if err := svc.SetActive(ctx, principalFor(t, admin), target.ID, true); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		if !target.IsActive {
			t.Error("expected account active")
		}
	})

	t.Run("activate without pending state fails", func(t *testing.T) {
		err := svc.SetActive(ctx, principalFor(t, admin), target.ID, true)
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestSoftDeleteTombstones(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	admin := seedUser(repo, 50, 1, "admin@example.com", "Str0ng@pass", true)
	target := seedUser(repo, 51, 2, "prof@example.com", "Str0ng@pass", true)

	if err := svc.SoftDelete(context.Background(), principalFor(t, admin), target.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if !target.IsDelete {
		t.Error("expected the tombstone flag set")
	}
	if _, ok := repo.users[target.ID]; !ok {
		t.Error("the row itself must survive")
	}
}

func TestChildrenRequiresParent(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubNotifier{})

	parent := seedUser(repo, 60, 3, "parent@example.com", "Str0ng@pass", true)
	professor := seedUser(repo, 61, 2, "prof@example.com", "Str0ng@pass", true)
	child := seedUser(repo, 62, 4, "", "", true)
	child.ParentFatherID = &parent.ID

	rows, err := svc.Children(context.Background(), principalFor(t, parent))
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != child.ID {
		t.Errorf("expected the single linked child, got %v", rows)
	}

	_, err = svc.Children(context.Background(), principalFor(t, professor))
	expectCode(t, err, pkgerrors.CodeForbidden)
}
