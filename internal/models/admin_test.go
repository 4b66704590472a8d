package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminPassword(t *testing.T) {
	a := &AdminModel{Username: "admin"}
	assert.False(t, a.ValidatePassword("anything"))

	require.NoError(t, a.SetPassword("helloflask"))
	assert.NotEqual(t, "helloflask", a.PasswordHash)
	assert.True(t, a.ValidatePassword("helloflask"))
	assert.False(t, a.ValidatePassword("wrong"))
}

func TestDefaultCategory(t *testing.T) {
	c := &CategoryModel{Base: Base{ID: DefaultCategoryID}, Name: DefaultCategoryName}
	assert.True(t, c.IsDefault())
	c.ID = 2
	assert.False(t, c.IsDefault())
}
