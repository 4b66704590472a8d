package user

import (
	"testing"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	jwtpkg "github.com/bluelog/core/internal/pkg/jwt"
	sessionpkg "github.com/bluelog/core/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWithoutAccount(t *testing.T) {
	svc := NewService(dbtest.Open(t))
	_, _, err := svc.Login("admin", "pw", false, "", "")
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestLoginAndLogout(t *testing.T) {
	jwtpkg.SetSecret("test")
	db := dbtest.Open(t)
	svc := NewService(db)
	_, created, err := svc.Upsert("admin", "helloflask", DefaultProfile)
	require.NoError(t, err)
	require.True(t, created)

	_, _, err = svc.Login("admin", "wrong", false, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("other", "helloflask", false, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, ttl, err := svc.Login(" admin ", "helloflask", true, "127.0.0.1", "test")
	require.NoError(t, err)
	assert.Equal(t, sessionpkg.RememberTTL, ttl)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	id, err := claims.AdminID()
	require.NoError(t, err)

	active, err := sessionpkg.IsActive(db, id, claims.SessionID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Logout(id, claims.SessionID))
	active, err = sessionpkg.IsActive(db, id, claims.SessionID)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, svc.Logout(id, claims.SessionID))
}

func TestUpsertUpdatesExistingAdmin(t *testing.T) {
	jwtpkg.SetSecret("test")
	db := dbtest.Open(t)
	svc := NewService(db)
	first, _, err := svc.Upsert("admin", "one", DefaultProfile)
	require.NoError(t, err)
	_, _, err = svc.Login("admin", "one", false, "", "")
	require.NoError(t, err)

	second, created, err := svc.Upsert("root", "two", Profile{BlogTitle: "ignored"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.AdminModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	owner, err := svc.GetOwner()
	require.NoError(t, err)
	assert.Equal(t, "root", owner.Username)
	assert.Equal(t, DefaultProfile.BlogTitle, owner.BlogTitle)
	assert.True(t, owner.ValidatePassword("two"))

	var live int64
	require.NoError(t, db.Model(&models.UserSession{}).Where("revoked_at IS NULL").Count(&live).Error)
	assert.Zero(t, live)
}

func TestUpdateSettings(t *testing.T) {
	svc := NewService(dbtest.Open(t))
	a, _, err := svc.Upsert("admin", "pw", DefaultProfile)
	require.NoError(t, err)

	got, err := svc.UpdateSettings(a.ID, &SettingsForm{Name: "Grey", BlogTitle: "T", BlogSubTitle: "S", About: "A"})
	require.NoError(t, err)
	assert.Equal(t, "Grey", got.Name)
	assert.Equal(t, "T", got.BlogTitle)

	missing, err := svc.UpdateSettings(999, &SettingsForm{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
