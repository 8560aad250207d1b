package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One named in-memory database per test keeps rows from leaking
	// between tests through the connection pool.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.Gender{}, &models.User{}))
	return db
}

func seedReference(t *testing.T, db *gorm.DB) (map[string]int64, int64) {
	t.Helper()

	roles := map[string]int64{}
	for _, name := range []string{
		string(enums.RoleAdministrator),
		string(enums.RoleProfessor),
		string(enums.RoleParent),
		string(enums.RoleStudent),
	} {
		role := models.Role{Name: name}
		require.NoError(t, db.Create(&role).Error)
		roles[name] = role.ID
	}

	gender := models.Gender{Name: "female"}
	require.NoError(t, db.Create(&gender).Error)
	return roles, gender.ID
}

func seedAccount(t *testing.T, db *gorm.DB, roleID, genderID int64, email string, mutate func(*models.User)) *models.User {
	t.Helper()

	user := models.User{
		FirstName: "Ana",
		LastName:  "Anic",
		Address:   "Ilica 1",
		City:      "Zagreb",
		IsActive:  true,
		BirthDate: time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
		RoleID:    &roleID,
		GenderID:  &genderID,
	}
	if email != "" {
		user.Email = &email
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestRepositoryEmailLookups(t *testing.T) {
	db := setupAccountsTestDB(t)
	roles, genderID := seedReference(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	seedAccount(t, db, roles[string(enums.RoleParent)], genderID, "live@example.com", nil)
	seedAccount(t, db, roles[string(enums.RoleParent)], genderID, "gone@example.com", func(u *models.User) {
		u.IsDelete = true
	})

	exists, err := repo.LiveEmailExists(ctx, "live@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.LiveEmailExists(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "tombstoned rows must release their email")

	user, err := repo.FindByEmail(ctx, "live@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, string(enums.RoleParent), user.Role.Name)

	_, err = repo.FindByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRecordLogin(t *testing.T) {
	db := setupAccountsTestDB(t)
	roles, genderID := seedReference(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedAccount(t, db, roles[string(enums.RoleProfessor)], genderID, "prof@example.com", nil)

	first := time.Date(2020, 9, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	require.NoError(t, repo.RecordLogin(ctx, user.ID, first))
	require.NoError(t, repo.RecordLogin(ctx, user.ID, second))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstLogin)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, first.Unix(), got.FirstLogin.UTC().Unix(), "first login is stamped once")
	assert.Equal(t, second.Unix(), got.LastLogin.UTC().Unix())
}

func TestRepositoryListRoleVisibility(t *testing.T) {
	db := setupAccountsTestDB(t)
	roles, genderID := seedReference(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	seedAccount(t, db, roles[string(enums.RoleAdministrator)], genderID, "admin@example.com", nil)
	seedAccount(t, db, roles[string(enums.RoleProfessor)], genderID, "prof@example.com", nil)
	seedAccount(t, db, roles[string(enums.RoleStudent)], genderID, "", nil)

	var filter ListFilter
	filter.RestrictRoles([]string{
		string(enums.RoleProfessor),
		string(enums.RoleStudent),
		string(enums.RoleParent),
	})

	rows, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, string(enums.RoleAdministrator), row.RoleName())
	}

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	active := true
	unrestricted := ListFilter{IsActive: &active}
	count, err = repo.Count(ctx, unrestricted)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepositorySearch(t *testing.T) {
	db := setupAccountsTestDB(t)
	roles, genderID := seedReference(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	seedAccount(t, db, roles[string(enums.RoleParent)], genderID, "ana@example.com", nil)
	seedAccount(t, db, roles[string(enums.RoleProfessor)], genderID, "ivo@example.com", func(u *models.User) {
		u.FirstName = "Ivo"
		u.LastName = "Ivic"
		u.Address = "Vukovarska 12"
	})

	rows, err := repo.List(ctx, ListFilter{Search: "ANA"})
	require.NoError(t, err)
	require.Len(t, rows, 1, "search matches regardless of case")
	assert.Equal(t, "Ana", rows[0].FirstName)

	rows, err = repo.List(ctx, ListFilter{Search: "vukovarska"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ivo", rows[0].FirstName)

	count, err := repo.Count(ctx, ListFilter{Search: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, err = repo.List(ctx, ListFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryChildren(t *testing.T) {
	db := setupAccountsTestDB(t)
	roles, genderID := seedReference(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	mother := seedAccount(t, db, roles[string(enums.RoleParent)], genderID, "mother@example.com", nil)
	father := seedAccount(t, db, roles[string(enums.RoleParent)], genderID, "father@example.com", nil)

	viaMother := seedAccount(t, db, roles[string(enums.RoleStudent)], genderID, "", func(u *models.User) {
		u.ParentMotherID = &mother.ID
	})
	viaFather := seedAccount(t, db, roles[string(enums.RoleStudent)], genderID, "", func(u *models.User) {
		u.ParentMotherID = &mother.ID
		u.ParentFatherID = &father.ID
	})

	children, err := repo.Children(ctx, mother.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, viaMother.ID, children[0].ID)
	assert.Equal(t, viaFather.ID, children[1].ID)

	children, err = repo.Children(ctx, father.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, viaFather.ID, children[0].ID)
}
