package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/models"
)

func newDepartmentStore(t *testing.T) *FileStore[models.Department, *models.Department] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "departments.json")
	return NewFileStore[models.Department](path, zap.NewNop().Sugar())
}

func TestResolveOne(t *testing.T) {
	store := newDepartmentStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &models.Department{Name: "Backend"})
	require.NoError(t, err)

	resolved, err := ResolveOne[models.Department](ctx, store, &created.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, "Backend", resolved.Name)
}

func TestResolveOneNilForeignKey(t *testing.T) {
	store := newDepartmentStore(t)

	resolved, err := ResolveOne[models.Department](context.Background(), store, nil)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestResolveOneDanglingReference(t *testing.T) {
	store := newDepartmentStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &models.Department{Name: "Backend"})
	require.NoError(t, err)
	_, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)

	resolved, err := ResolveOne[models.Department](ctx, store, &created.ID)
	require.NoError(t, err)
	require.Nil(t, resolved, "dangling reference resolves to no related record")
}

func TestResolveManySkipsDanglingAndKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	store := NewFileStore[models.Project](path, zap.NewNop().Sugar())
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"Apollo", "Borealis", "Calypso"} {
		created, err := store.Create(ctx, &models.Project{Name: name})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	_, err := store.Delete(ctx, ids[1])
	require.NoError(t, err)

	resolved, err := ResolveMany[models.Project](ctx, store, []uint{ids[2], ids[1], ids[0]})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.Equal(t, "Calypso", resolved[0].Name)
	require.Equal(t, "Apollo", resolved[1].Name)
}
