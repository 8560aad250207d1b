package accounts

import (
	"context"
	"testing"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
)

type stubReferenceRepo struct {
	*stubRepo
	nextRoleID   int64
	nextGenderID int64
	rolesInUse   map[int64]bool
	gendersInUse map[int64]bool
}

func newStubReferenceRepo() *stubReferenceRepo {
	return &stubReferenceRepo{
		stubRepo:     newStubRepo(),
		nextRoleID:   100,
		nextGenderID: 100,
		rolesInUse:   map[int64]bool{},
		gendersInUse: map[int64]bool{},
	}
}

func (r *stubReferenceRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	var rows []models.Role
	for _, role := range r.roles {
		rows = append(rows, *role)
	}
	return rows, nil
}

func (r *stubReferenceRepo) RoleNameExists(ctx context.Context, name string) (bool, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReferenceRepo) CreateRole(ctx context.Context, role *models.Role) error {
	r.nextRoleID++
	role.ID = r.nextRoleID
	r.roles[role.ID] = role
	return nil
}

func (r *stubReferenceRepo) SaveRole(ctx context.Context, role *models.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *stubReferenceRepo) DeleteRole(ctx context.Context, id int64) error {
	delete(r.roles, id)
	return nil
}

func (r *stubReferenceRepo) RoleInUse(ctx context.Context, id int64) (bool, error) {
	return r.rolesInUse[id], nil
}

func (r *stubReferenceRepo) ListGenders(ctx context.Context) ([]models.Gender, error) {
	var rows []models.Gender
	for _, gender := range r.genders {
		rows = append(rows, *gender)
	}
	return rows, nil
}

func (r *stubReferenceRepo) GenderNameExists(ctx context.Context, name string) (bool, error) {
	for _, gender := range r.genders {
		if gender.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReferenceRepo) CreateGender(ctx context.Context, gender *models.Gender) error {
	r.nextGenderID++
	gender.ID = r.nextGenderID
	r.genders[gender.ID] = gender
	return nil
}

func (r *stubReferenceRepo) SaveGender(ctx context.Context, gender *models.Gender) error {
	r.genders[gender.ID] = gender
	return nil
}

func (r *stubReferenceRepo) DeleteGender(ctx context.Context, id int64) error {
	delete(r.genders, id)
	return nil
}

func (r *stubReferenceRepo) GenderInUse(ctx context.Context, id int64) (bool, error) {
	return r.gendersInUse[id], nil
}

var (
	_ referenceRepository = (*stubReferenceRepo)(nil)
	_ accountRepository   = (*stubRepo)(nil)
	_ accountRepository   = (*Repository)(nil)
	_ referenceRepository = (*Repository)(nil)
)

func TestReferenceServiceRequiresAdministrator(t *testing.T) {
	repo := newStubReferenceRepo()
	svc, err := NewReferenceService(repo)
	if err != nil {
		t.Fatalf("NewReferenceService: %v", err)
	}

	professor := seedUser(repo.stubRepo, 70, 2, "prof@example.com", "Str0ng@pass", true)

	_, listErr := svc.ListRoles(context.Background(), principalFor(t, professor))
	expectCode(t, listErr, pkgerrors.CodeForbidden)

	_, createErr := svc.CreateRole(context.Background(), principalFor(t, professor), RoleRequest{Name: "Janitor"})
	expectCode(t, createErr, pkgerrors.CodeForbidden)
}

func TestRoleLifecycle(t *testing.T) {
	repo := newStubReferenceRepo()
	svc, err := NewReferenceService(repo)
	if err != nil {
		t.Fatalf("NewReferenceService: %v", err)
	}

	admin := seedUser(repo.stubRepo, 71, 1, "admin@example.com", "Str0ng@pass", true)
	p := principalFor(t, admin)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, p, RoleRequest{Name: "Janitor"})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	_, dupErr := svc.CreateRole(ctx, p, RoleRequest{Name: "Janitor"})
	expectCode(t, dupErr, pkgerrors.CodeValidation)

	if _, err := svc.EditRole(ctx, p, role.ID, RoleRequest{Name: "Caretaker"}); err != nil {
		t.Fatalf("EditRole: %v", err)
	}
	if repo.roles[role.ID].Name != "Caretaker" {
		t.Errorf("expected renamed role, got %s", repo.roles[role.ID].Name)
	}

	repo.rolesInUse[role.ID] = true
	expectCode(t, svc.DeleteRole(ctx, p, role.ID), pkgerrors.CodeValidation)

	repo.rolesInUse[role.ID] = false
	if err := svc.DeleteRole(ctx, p, role.ID); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
	if _, ok := repo.roles[role.ID]; ok {
		t.Error("expected the role removed")
	}

	expectCode(t, svc.DeleteRole(ctx, p, role.ID), pkgerrors.CodeNotFound)
}

func TestGenderLifecycle(t *testing.T) {
	repo := newStubReferenceRepo()
	svc, err := NewReferenceService(repo)
	if err != nil {
		t.Fatalf("NewReferenceService: %v", err)
	}

	admin := seedUser(repo.stubRepo, 72, 1, "admin@example.com", "Str0ng@pass", true)
	p := principalFor(t, admin)
	ctx := context.Background()

	rows, err := svc.ListGenders(ctx, p)
	if err != nil {
		t.Fatalf("ListGenders: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the seeded genders, got %d", len(rows))
	}

	gender, err := svc.CreateGender(ctx, p, GenderRequest{Name: "other"})
	if err != nil {
		t.Fatalf("CreateGender: %v", err)
	}

	repo.gendersInUse[gender.ID] = true
	expectCode(t, svc.DeleteGender(ctx, p, gender.ID), pkgerrors.CodeValidation)
}
