package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/models"
)

func newEmployeeStore(t *testing.T) (*FileStore[models.Employee, *models.Employee], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	return NewFileStore[models.Employee](path, zap.NewNop().Sugar()), path
}

func newEmployee(name, position string) *models.Employee {
	return &models.Employee{
		Name:       name,
		Position:   position,
		ProjectIDs: []uint{},
		IsActive:   true,
		HireDate:   time.Date(2022, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAssignsStrictlyIncreasingIDs(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)
	second, err := store.Create(ctx, newEmployee("Bob", "Dev"))
	require.NoError(t, err)
	third, err := store.Create(ctx, newEmployee("Cleo", "Dev"))
	require.NoError(t, err)

	require.Equal(t, uint(1), first.ID)
	require.Equal(t, uint(2), second.ID)
	require.Equal(t, uint(3), third.ID)

	removed, err := store.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, removed)

	fourth, err := store.Create(ctx, newEmployee("Dora", "Dev"))
	require.NoError(t, err)
	require.Equal(t, uint(4), fourth.ID, "ids are never reused after deletes")
}

func TestCreateRoundTrip(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	salary := 75000.0
	departmentID := uint(3)
	created, err := store.Create(ctx, &models.Employee{
		Name:         "Ann",
		Position:     "Dev",
		Salary:       &salary,
		DepartmentID: &departmentID,
		ProjectIDs:   []uint{7, 9},
		IsActive:     true,
		HireDate:     time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	wantJSON, err := json.Marshal(created)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(found)
	require.NoError(t, err)
	require.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestPersistsAcrossReload(t *testing.T) {
	store, path := newEmployeeStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)

	reloaded := NewFileStore[models.Employee](path, zap.NewNop().Sugar())
	found, err := reloaded.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Ann", found.Name)

	next, err := reloaded.Create(ctx, newEmployee("Bob", "Dev"))
	require.NoError(t, err)
	require.Equal(t, uint(2), next.ID, "counter persists alongside data")
}

func TestLoadBareArrayLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees.json")
	raw := `[{"id":3,"name":"Solo","position":"Dev","project_ids":[],"is_active":true,"hire_date":"2020-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	store := NewFileStore[models.Employee](path, zap.NewNop().Sugar())
	ctx := context.Background()

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, uint(3), all[0].ID)

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)
	require.Equal(t, uint(4), created.ID, "nextId derived as max(id)+1")
}

func TestLoadEnvelopeLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees.json")
	raw := `{"entities":[{"id":2,"name":"Solo","position":"Dev","project_ids":[],"is_active":true,"hire_date":"2020-01-01T00:00:00Z"}],"nextId":7}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	store := NewFileStore[models.Employee](path, zap.NewNop().Sugar())
	ctx := context.Background()

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)
	require.Equal(t, uint(7), created.ID)
}

func TestCorruptFileRecoversEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore[models.Employee](path, zap.NewNop().Sugar())
	ctx := context.Background()

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)
	require.Equal(t, uint(1), created.ID)
}

func TestFindByIDMissing(t *testing.T) {
	store, _ := newEmployeeStore(t)

	found, err := store.FindByID(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestFindByMatchesAllCriteria(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	backend := uint(1)
	frontend := uint(2)

	ann := newEmployee("Ann", "Dev")
	ann.DepartmentID = &backend
	bob := newEmployee("Bob", "Dev")
	bob.DepartmentID = &frontend
	cleo := newEmployee("Cleo", "QA")
	cleo.DepartmentID = &backend

	for _, e := range []*models.Employee{ann, bob, cleo} {
		_, err := store.Create(ctx, e)
		require.NoError(t, err)
	}

	matches, err := store.FindBy(ctx, map[string]any{"department_id": backend})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	matches, err = store.FindBy(ctx, map[string]any{"department_id": backend, "position": "Dev"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Ann", matches[0].Name)

	matches, err = store.FindBy(ctx, map[string]any{"position": "Manager"})
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	salary := 50000.0
	employee := newEmployee("Ann", "Dev")
	employee.Salary = &salary
	created, err := store.Create(ctx, employee)
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, map[string]any{"position": "Senior Dev"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "Senior Dev", updated.Position)
	require.Equal(t, "Ann", updated.Name)
	require.NotNil(t, updated.Salary)
	require.Equal(t, 50000.0, *updated.Salary)
	require.True(t, updated.IsActive)
}

func TestUpdateEmptyPatchChangesNothing(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)
	before, err := json.Marshal(created)
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, map[string]any{})
	require.NoError(t, err)
	after, err := json.Marshal(updated)
	require.NoError(t, err)

	require.JSONEq(t, string(before), string(after))
}

func TestUpdateCannotOverrideID(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, map[string]any{"id": 99, "name": "Renamed"})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Renamed", updated.Name)

	ghost, err := store.FindByID(ctx, 99)
	require.NoError(t, err)
	require.Nil(t, ghost)
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	store, _ := newEmployeeStore(t)

	updated, err := store.Update(context.Background(), 42, map[string]any{"name": "Nobody"})
	require.NoError(t, err)
	require.Nil(t, updated)
}

func TestDeleteThenFind(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)

	removed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, removed)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, found)

	removed, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, removed, "repeated delete reports nothing removed")
}

func TestFindAllReturnsSnapshotCopies(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, newEmployee("Ann", "Dev"))
	require.NoError(t, err)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	all[0].Name = "Mutated"

	again, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again[0].Name)
}

func TestConcurrentCreatesNeverDuplicateIDs(t *testing.T) {
	store, _ := newEmployeeStore(t)
	ctx := context.Background()

	const workers = 50
	ids := make(chan uint, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.Create(ctx, newEmployee("Worker", "Dev"))
			assert.NoError(t, err)
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint]bool{}
	for id := range ids {
		require.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	require.Len(t, seen, workers)
}
