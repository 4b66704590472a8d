package session

import (
	"testing"
	"time"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	jwtpkg "github.com/bluelog/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIssueBindsTokenToSession(t *testing.T) {
	db := dbtest.Open(t)

	token, s, err := Issue(db, 1, " 127.0.0.1 ", "go-test", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", s.IP)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, claims.SessionID)

	active, err := IsActive(db, 1, s.ID)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = IsActive(db, 2, s.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRevoke(t *testing.T) {
	db := dbtest.Open(t)
	_, s, err := Issue(db, 1, "", "", 0)
	require.NoError(t, err)

	require.NoError(t, Revoke(db, 1, s.ID))
	active, err := IsActive(db, 1, s.ID)
	require.NoError(t, err)
	assert.False(t, active)

	assert.ErrorIs(t, Revoke(db, 1, s.ID), gorm.ErrRecordNotFound)
}

func TestRevokeAll(t *testing.T) {
	db := dbtest.Open(t)
	_, a, err := Issue(db, 1, "", "", time.Hour)
	require.NoError(t, err)
	_, b, err := Issue(db, 1, "", "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, RevokeAll(db, 1))
	for _, id := range []string{a.ID, b.ID} {
		active, err := IsActive(db, 1, id)
		require.NoError(t, err)
		assert.False(t, active)
	}
}

func TestPurgeExpired(t *testing.T) {
	db := dbtest.Open(t)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Create(&models.UserSession{AdminID: 1, ExpiresAt: past}).Error)
	require.NoError(t, db.Create(&models.UserSession{AdminID: 1, ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &past}).Error)
	_, live, err := Issue(db, 1, "", "", time.Hour)
	require.NoError(t, err)

	n, err := PurgeExpired(db, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var left []models.UserSession
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, live.ID, left[0].ID)
}
