package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCatalogRepo struct {
	exercises    []Exercise
	total        int
	muscleGroups []MuscleGroup
	equipment    []Equipment
	lastParams   ListParams
	err          error
}

func (f *fakeCatalogRepo) ListExercises(_ context.Context, params ListParams) ([]Exercise, int, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.exercises, f.total, nil
}

func (f *fakeCatalogRepo) ListMuscleGroups(_ context.Context) ([]MuscleGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.muscleGroups, nil
}

func (f *fakeCatalogRepo) ListEquipment(_ context.Context) ([]Equipment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.equipment, nil
}

func catalogTestRouter(repo *fakeCatalogRepo, getter exerciseGetter) *mux.Router {
	handler := NewHandler(repo, getter)
	router := mux.NewRouter()
	handler.SetupRoutes(router)
	return router
}

func TestHandleList(t *testing.T) {
	repo := &fakeCatalogRepo{
		exercises: []Exercise{
			{ID: 1, Name: "Bench Press", Category: "strength"},
			{ID: 2, Name: "Incline Bench Press", Category: "strength"},
		},
		total: 2,
	}
	router := catalogTestRouter(repo, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises?muscle_group=chest&level=beginner&page=2&size=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "chest", repo.lastParams.MuscleGroup)
	assert.Equal(t, "beginner", repo.lastParams.Level)
	assert.Equal(t, "", repo.lastParams.Equipment)
	assert.Equal(t, 2, repo.lastParams.Page)
	assert.Equal(t, 10, repo.lastParams.Size)

	var listResp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Total)
	require.Len(t, listResp.Exercises, 2)
	assert.Equal(t, "Bench Press", listResp.Exercises[0].Name)
}

func TestHandleList_DefaultPaging(t *testing.T) {
	repo := &fakeCatalogRepo{}
	router := catalogTestRouter(repo, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, defaultListPage, repo.lastParams.Page)
	assert.Equal(t, defaultListSize, repo.lastParams.Size)
}

func TestHandleList_InvalidPage(t *testing.T) {
	router := catalogTestRouter(&fakeCatalogRepo{}, &fakeExerciseGetter{})

	for _, url := range []string{
		"/exercises?page=0",
		"/exercises?page=nan",
		"/exercises?size=-2",
	} {
		req := httptest.NewRequest("GET", url, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, url)
	}
}

func TestHandleList_RepoError(t *testing.T) {
	repo := &fakeCatalogRepo{err: errors.New("db gone")}
	router := catalogTestRouter(repo, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandleGet(t *testing.T) {
	getter := &fakeExerciseGetter{
		exercises: map[int]Exercise{
			7: {ID: 7, Name: "Deadlift", Level: "expert"},
		},
	}
	router := catalogTestRouter(&fakeCatalogRepo{}, getter)

	req := httptest.NewRequest("GET", "/exercises/7", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var exercise Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exercise))
	assert.Equal(t, "Deadlift", exercise.Name)
	assert.Equal(t, "expert", exercise.Level)
}

func TestHandleGet_NotFound(t *testing.T) {
	router := catalogTestRouter(&fakeCatalogRepo{}, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises/999", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGet_InvalidID(t *testing.T) {
	router := catalogTestRouter(&fakeCatalogRepo{}, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleMuscleGroups(t *testing.T) {
	repo := &fakeCatalogRepo{
		muscleGroups: []MuscleGroup{
			{ID: 1, Name: "chest"},
			{ID: 2, Name: "quadriceps"},
		},
	}
	router := catalogTestRouter(repo, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises/muscle-groups", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var groups []MuscleGroup
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "chest", groups[0].Name)
}

func TestHandleEquipment(t *testing.T) {
	repo := &fakeCatalogRepo{
		equipment: []Equipment{
			{ID: 1, Name: "barbell"},
			{ID: 2, Name: "dumbbell"},
		},
	}
	router := catalogTestRouter(repo, &fakeExerciseGetter{})

	req := httptest.NewRequest("GET", "/exercises/equipment", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var equipment []Equipment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &equipment))
	require.Len(t, equipment, 2)
	assert.Equal(t, "dumbbell", equipment[1].Name)
}
