package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/profiles"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=sessions_test

type sessionsService interface {
	StartOrResume(ctx context.Context, ownerID int, planID *int) (_ *Session, created bool, err error)
	GetActive(ctx context.Context, ownerID int) (*Session, error)
	UpdateProgress(ctx context.Context, sessionID, ownerID int, params ProgressParams) (*Session, error)
	Finish(ctx context.Context, sessionID, ownerID int) (*Session, error)
	Cancel(ctx context.Context, sessionID, ownerID int) (*Session, error)
	LogSet(ctx context.Context, ownerID int, params LogSetParams) (*LoggedSet, error)
	ListForOwner(ctx context.Context, ownerID int) ([]Session, error)
	GetWithLoggedSets(ctx context.Context, sessionID, ownerID int) (*Session, []LoggedSet, error)
	ListForUser(ctx context.Context, viewerID int, username string) ([]Session, error)
	GetPublicSession(ctx context.Context, viewerID, sessionID int) (*Session, []LoggedSet, error)
}

type StartOrResumeRequest struct {
	PlanID *int `json:"plan_id"`
}

type SessionResponse struct {
	Session
	Created bool `json:"created"`
}

type SessionDetailsResponse struct {
	Session
	LoggedSets []LoggedSet `json:"logged_sets"`
}

type Handler struct {
	service sessionsService
}

func NewHandler(service sessionsService) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", handler.HandleStartOrResume).Methods("POST", "OPTIONS").Name("start-or-resume-session")
	router.HandleFunc("/sessions", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	router.HandleFunc("/sessions/active", handler.HandleGetActive).Methods("GET", "OPTIONS").Name("get-active-session")
	router.HandleFunc("/sessions/user/{username}", handler.HandleListForUser).Methods("GET", "OPTIONS").Name("list-user-sessions")
	router.HandleFunc("/sessions/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	router.HandleFunc("/sessions/{id}/progress", handler.HandleUpdateProgress).Methods("PATCH", "OPTIONS").Name("update-session-progress")
	router.HandleFunc("/sessions/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")
	router.HandleFunc("/sessions/{id}/cancel", handler.HandleCancel).Methods("POST", "OPTIONS").Name("cancel-session")
	router.HandleFunc("/sessions/{id}/public", handler.HandleGetPublic).Methods("GET", "OPTIONS").Name("get-public-session")
	router.HandleFunc("/logged-sets", handler.HandleLogSet).Methods("POST", "OPTIONS").Name("log-set")
}

func (handler *Handler) HandleStartOrResume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.startOrResume")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var startParams StartOrResumeRequest
	if r.Body != nil && r.ContentLength > 0 {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			http.Error(w, "invalid content type", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&startParams); err != nil {
			log.Warnf("start session, unmarshal json params: %s", err)
			http.Error(w, "start session failed", http.StatusBadRequest)
			return
		}
	}

	session, created, err := handler.service.StartOrResume(ctx, userID, startParams.PlanID)
	if err != nil {
		if errors.Is(err, ErrInvalidReference) {
			http.Error(w, "error, unknown plan", http.StatusBadRequest)
			return
		}
		log.Errorf("start or resume session [user %d] error: %s", userID, err)
		http.Error(w, "start session failed", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(SessionResponse{
		Session: *session,
		Created: created,
	})
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, statusCode)
}

func (handler *Handler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.getActive")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	session, err := handler.service.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			http.Error(w, "no active session", http.StatusNotFound)
			return
		}
		log.Errorf("get active session [user %d] error: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionsList, err := handler.service.ListForOwner(ctx, userID)
	if err != nil {
		log.Errorf("list sessions [user %d] error: %s", userID, err)
		http.Error(w, "failed to get sessions", http.StatusInternalServerError)
		return
	}
	if sessionsList == nil {
		sessionsList = []Session{}
	}

	sessionsJson, err := json.Marshal(sessionsList)
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionsJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	session, loggedSets, err := handler.service.GetWithLoggedSets(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get session %d [user %d] error: %s", sessionID, userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeSessionDetails(w, session, loggedSets)
}

func (handler *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.updateProgress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var progressParams ProgressParams
	if err := json.NewDecoder(r.Body).Decode(&progressParams); err != nil {
		log.Warnf("update progress, unmarshal json params: %s", err)
		http.Error(w, "update progress failed", http.StatusBadRequest)
		return
	}

	session, err := handler.service.UpdateProgress(ctx, sessionID, userID, progressParams)
	if err != nil {
		handler.writeTransitionError(w, sessionID, userID, err, "update progress")
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.finish")
	defer span.End()
	handler.handleTerminate(ctx, w, r, handler.service.Finish, "finish")
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.cancel")
	defer span.End()
	handler.handleTerminate(ctx, w, r, handler.service.Cancel, "cancel")
}

func (handler *Handler) handleTerminate(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, sessionID, ownerID int) (*Session, error),
	transitionName string,
) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	session, err := transition(ctx, sessionID, userID)
	if err != nil {
		handler.writeTransitionError(w, sessionID, userID, err, transitionName)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) writeTransitionError(w http.ResponseWriter, sessionID, userID int, err error, transitionName string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionNotInProgress):
		http.Error(w, "session not in progress", http.StatusBadRequest)
	default:
		log.Errorf("%s session %d [user %d] error: %s", transitionName, sessionID, userID, err)
		http.Error(w, transitionName+" session failed", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.logSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var logParams LogSetParams
	if err := json.NewDecoder(r.Body).Decode(&logParams); err != nil {
		log.Warnf("log set, unmarshal json params: %s", err)
		http.Error(w, "log set failed", http.StatusBadRequest)
		return
	}

	if logParams.SessionID <= 0 {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}
	if logParams.ExerciseID <= 0 {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	if logParams.ActualWeight == nil {
		http.Error(w, "error, actual weight is required", http.StatusBadRequest)
		return
	}
	if logParams.ActualReps < 0 {
		http.Error(w, "error, actual reps must not be negative", http.StatusBadRequest)
		return
	}

	loggedSet, err := handler.service.LogSet(ctx, userID, logParams)
	if err != nil {
		// a foreign or terminal session is reported as absent here
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionNotInProgress) {
			http.Error(w, "active session not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidReference) {
			http.Error(w, "error, unknown exercise or planned set", http.StatusBadRequest)
			return
		}
		log.Errorf("log set [user %d, session %d] error: %s", userID, logParams.SessionID, err)
		http.Error(w, "log set failed", http.StatusInternalServerError)
		return
	}

	loggedSetJson, err := json.Marshal(loggedSet)
	if err != nil {
		log.Errorf("marshal logged set error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, loggedSetJson, http.StatusCreated)
}

func (handler *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.listForUser")
	defer span.End()

	username := mux.Vars(r)["username"]
	if username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}

	viewerID := AnonymousViewer
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		viewerID = userID
	}

	sessionsList, err := handler.service.ListForUser(ctx, viewerID, username)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrProfileNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, ErrHistoryForbidden):
			http.Error(w, "session history is private", http.StatusForbidden)
		default:
			log.Errorf("list sessions for user [%s] error: %s", username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	if sessionsList == nil {
		sessionsList = []Session{}
	}

	sessionsJson, err := json.Marshal(sessionsList)
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionsJson, http.StatusOK)
}

func (handler *Handler) HandleGetPublic(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.getPublic")
	defer span.End()

	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	viewerID := AnonymousViewer
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		viewerID = userID
	}

	session, loggedSets, err := handler.service.GetPublicSession(ctx, viewerID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, ErrHistoryForbidden):
			http.Error(w, "session history is private", http.StatusForbidden)
		default:
			log.Errorf("get public session %d error: %s", sessionID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeSessionDetails(w, session, loggedSets)
}

func writeSessionDetails(w http.ResponseWriter, session *Session, loggedSets []LoggedSet) {
	if loggedSets == nil {
		loggedSets = []LoggedSet{}
	}
	detailsJson, err := json.Marshal(SessionDetailsResponse{
		Session:    *session,
		LoggedSets: loggedSets,
	})
	if err != nil {
		log.Errorf("marshal session details error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, detailsJson, http.StatusOK)
}

func sessionIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	sessionID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return sessionID, true
}
