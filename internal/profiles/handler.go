package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type profilesRepo interface {
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	Update(ctx context.Context, userID int, params UpdateParams) error
	ListPublic(ctx context.Context) ([]Profile, error)
}

type Handler struct {
	repo profilesRepo
}

func NewHandler(repo profilesRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/profiles", handler.HandleListPublic).Methods("GET", "OPTIONS").Name("list-public-profiles")
	router.HandleFunc("/profiles/me", handler.HandleGetMe).Methods("GET", "OPTIONS").Name("get-own-profile")
	router.HandleFunc("/profiles/me", handler.HandleUpdateMe).Methods("PUT", "OPTIONS").Name("update-own-profile")
	router.HandleFunc("/profiles/{username}", handler.HandleGetByUsername).Methods("GET", "OPTIONS").Name("get-profile")
}

func (handler *Handler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.listPublic")
	defer span.End()

	publicProfiles, err := handler.repo.ListPublic(ctx)
	if err != nil {
		log.Errorf("list public profiles error: %s", err)
		http.Error(w, "failed to get profiles", http.StatusInternalServerError)
		return
	}
	if publicProfiles == nil {
		publicProfiles = []Profile{}
	}

	profilesJson, err := json.Marshal(publicProfiles)
	if err != nil {
		log.Errorf("marshal profiles error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profilesJson, http.StatusOK)
}

func (handler *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.getMe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	profile, err := handler.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get own profile [user %d] error: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("marshal profile error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.updateMe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Warnf("update profile [user %d], unmarshal json params: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, userID, params); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("update profile [user %d] error: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}

	profile, err := handler.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Errorf("get profile after update [user %d] error: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("marshal profile error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.get")
	defer span.End()

	vars := mux.Vars(r)
	username := vars["username"]
	if username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}

	profile, err := handler.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile [%s] error: %s", username, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// private profiles stay visible to their owner only; the profile
	// exists, so this is a forbidden, not a not-found
	if !profile.IsPublic {
		requesterID, ok := auth.UserIDFromContext(ctx)
		if !ok || requesterID != profile.UserID {
			http.Error(w, "profile is private", http.StatusForbidden)
			return
		}
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("marshal profile error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}
