package link

import (
	"testing"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLinkCRUD(t *testing.T) {
	svc := NewService(dbtest.Open(t))

	b, err := svc.Create(&Form{Name: "b", URL: "https://b.example"})
	require.NoError(t, err)
	_, err = svc.Create(&Form{Name: "a", URL: "https://a.example"})
	require.NoError(t, err)

	items, err := svc.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)

	updated, err := svc.Update(b.ID, &Form{Name: "c", URL: "https://c.example"})
	require.NoError(t, err)
	assert.Equal(t, "https://c.example", updated.URL)

	missing, err := svc.Update(999, &Form{Name: "x", URL: "https://x.example"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, svc.Delete(b.ID))
	assert.ErrorIs(t, svc.Delete(b.ID), gorm.ErrRecordNotFound)
	got, err := svc.GetByID(b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
