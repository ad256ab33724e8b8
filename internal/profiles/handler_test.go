package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/liftlog/internal/auth"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfilesRepo struct {
	profiles   map[int]*Profile
	byUsername map[string]*Profile
	lastUpdate UpdateParams
	err        error
}

func (f *fakeProfilesRepo) GetByUserID(_ context.Context, userID int) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfilesRepo) GetByUsername(_ context.Context, username string) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfilesRepo) Update(_ context.Context, userID int, params UpdateParams) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.profiles[userID]; !ok {
		return ErrProfileNotFound
	}
	f.lastUpdate = params
	f.profiles[userID].IsPublic = params.IsPublic
	return nil
}

func (f *fakeProfilesRepo) ListPublic(_ context.Context) ([]Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var public []Profile
	for _, p := range f.profiles {
		if p.IsPublic {
			public = append(public, *p)
		}
	}
	return public, nil
}

func profilesTestSetup() (*fakeProfilesRepo, *mux.Router) {
	repo := &fakeProfilesRepo{
		profiles: map[int]*Profile{
			42: {UserID: 42, Username: "mia", IsPublic: true},
			43: {UserID: 43, Username: "drago", IsPublic: false},
		},
	}
	repo.byUsername = map[string]*Profile{
		"mia":   repo.profiles[42],
		"drago": repo.profiles[43],
	}

	router := mux.NewRouter()
	NewHandler(repo).SetupRoutes(router)
	return repo, router
}

func TestHandleListPublic(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listed []Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "mia", listed[0].Username)
}

func TestHandleGetMe(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles/me", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 42))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var profile Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, 42, profile.UserID)
	assert.Equal(t, "mia", profile.Username)
}

func TestHandleGetMe_NoAuth(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleUpdateMe(t *testing.T) {
	repo, router := profilesTestSetup()

	weight := 83.5
	body, err := json.Marshal(UpdateParams{
		IsPublic: false,
		Weight:   &weight,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/profiles/me", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 42))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, repo.lastUpdate.Weight)
	assert.Equal(t, 83.5, *repo.lastUpdate.Weight)
	assert.False(t, repo.profiles[42].IsPublic)
}

func TestHandleUpdateMe_WrongContentType(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("PUT", "/profiles/me", strings.NewReader("is_public=true"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 42))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGetByUsername_Public(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles/mia", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var profile Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "mia", profile.Username)
}

func TestHandleGetByUsername_PrivateForbidden(t *testing.T) {
	_, router := profilesTestSetup()

	// the profile exists but is private: forbidden, not not-found
	req := httptest.NewRequest("GET", "/profiles/drago", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandleGetByUsername_PrivateOwnerAllowed(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles/drago", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 43))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleGetByUsername_NotFound(t *testing.T) {
	_, router := profilesTestSetup()

	req := httptest.NewRequest("GET", "/profiles/nosuchuser", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
