package file

import (
	"testing"

	"github.com/planline/planline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceHealthCheck(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	assert.NoError(t, fp.HealthCheck(t.Context()))
	assert.NoError(t, fp.Close(t.Context()))
}

func TestPersistenceHealthCheckMissingRoot(t *testing.T) {
	fp := NewPersistence("/nonexistent/planline-test-root")

	assert.Error(t, fp.HealthCheck(t.Context()))
}

func TestPersistenceStripsFileScheme(t *testing.T) {
	dir := t.TempDir()
	fp := NewPersistence("file://" + dir)

	assert.NoError(t, fp.HealthCheck(t.Context()))
}

func TestProjectRepositoryRoundTrip(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	repo := fp.ProjectRepository()

	project := &models.Project{Name: "Checkout revamp", Type: "web app", Owner: "owner-1"}
	require.NoError(t, repo.Save(t.Context(), project))
	require.NotEmpty(t, project.ID)

	fetched, err := repo.GetByID(t.Context(), project.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Checkout revamp", fetched.Name)

	all, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(t.Context(), project.ID))

	gone, err := repo.GetByID(t.Context(), project.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIdeaRepositoryListByProject(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	repo := fp.IdeaRepository()

	mine := &models.Idea{ProjectID: "p1", Title: "Dark mode", Effort: 2, Impact: 8}
	require.NoError(t, repo.Save(t.Context(), mine))

	other := &models.Idea{ProjectID: "p2", Title: "Billing", Effort: 8, Impact: 9}
	require.NoError(t, repo.Save(t.Context(), other))

	ideas, err := repo.ListByProject(t.Context(), "p1")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Dark mode", ideas[0].Title)
}
