package services

import (
	"testing"

	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreate(t *testing.T) {
	service := NewProject(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), &models.Project{
		Name: "Demo project",
		Type: "web app",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo project", fetched.Name)
}

func TestProjectCreateShortName(t *testing.T) {
	service := NewProject(file.NewPersistence(t.TempDir()))

	_, err := service.Create(t.Context(), &models.Project{Name: "ab"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProjectNameShort)
	assert.True(t, IsValidationError(err))
}

func TestProjectUpdatePreservesCreatedAt(t *testing.T) {
	service := NewProject(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), &models.Project{Name: "Demo project"})
	require.NoError(t, err)

	updated, err := service.Update(t.Context(), created.ID, &models.Project{Name: "Renamed project"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Renamed project", updated.Name)
}

func TestProjectFetchMissing(t *testing.T) {
	service := NewProject(file.NewPersistence(t.TempDir()))

	_, err := service.FetchByID(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.True(t, IsNotFoundError(err))
}

func TestProjectDelete(t *testing.T) {
	service := NewProject(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), &models.Project{Name: "Demo project"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.ErrorIs(t, service.Delete(t.Context(), created.ID), ErrProjectNotFound)
}
