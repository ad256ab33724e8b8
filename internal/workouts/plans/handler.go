package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type plansRepo interface {
	Create(ctx context.Context, ownerID int, params PlanParams) (*Plan, error)
	Replace(ctx context.Context, planID, ownerID int, params PlanParams) (*Plan, error)
	Get(ctx context.Context, planID int) (*Plan, error)
	List(ctx context.Context, ownerID int) ([]Plan, error)
	Delete(ctx context.Context, planID, ownerID int) error
}

type Handler struct {
	repo plansRepo
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/plans", handler.HandleCreate).Methods("POST", "OPTIONS").Name("create-plan")
	router.HandleFunc("/plans", handler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	router.HandleFunc("/plans/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	router.HandleFunc("/plans/{id}", handler.HandleReplace).Methods("PUT", "OPTIONS").Name("replace-plan")
	router.HandleFunc("/plans/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, ok := planParamsFromRequest(w, r)
	if !ok {
		return
	}

	plan, err := handler.repo.Create(ctx, userID, *params)
	if err != nil {
		if errors.Is(err, ErrUnknownExercise) {
			http.Error(w, "error, unknown exercise in plan", http.StatusBadRequest)
			return
		}
		log.Errorf("create plan [user %d] error: %s", userID, err)
		http.Error(w, "create plan failed", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("marshal plan error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	plansList, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list plans [user %d] error: %s", userID, err)
		http.Error(w, "failed to get plans", http.StatusInternalServerError)
		return
	}
	if plansList == nil {
		plansList = []Plan{}
	}

	plansJson, err := json.Marshal(plansList)
	if err != nil {
		log.Errorf("marshal plans error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, plansJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	planID, ok := planIDFromRequest(w, r)
	if !ok {
		return
	}

	plan, err := handler.repo.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("get plan %d error: %s", planID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// foreign plans are reported as absent, plans have no public variant
	if !plan.OwnedBy(userID) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("marshal plan error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusOK)
}

func (handler *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.replace")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	planID, ok := planIDFromRequest(w, r)
	if !ok {
		return
	}

	params, ok := planParamsFromRequest(w, r)
	if !ok {
		return
	}

	plan, err := handler.repo.Replace(ctx, planID, userID, *params)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrUnknownExercise) {
			http.Error(w, "error, unknown exercise in plan", http.StatusBadRequest)
			return
		}
		log.Errorf("replace plan %d [user %d] error: %s", planID, userID, err)
		http.Error(w, "replace plan failed", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("marshal plan error: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	planID, ok := planIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, planID, userID); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete plan %d [user %d] error: %s", planID, userID, err)
		http.Error(w, "delete plan failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted:true")
}

func planIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	planID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return planID, true
}

func planParamsFromRequest(w http.ResponseWriter, r *http.Request) (*PlanParams, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return nil, false
	}

	var params PlanParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Warnf("plan params, unmarshal json: %s", err)
		http.Error(w, "invalid plan payload", http.StatusBadRequest)
		return nil, false
	}
	if params.Name == "" {
		http.Error(w, "plan name is required", http.StatusBadRequest)
		return nil, false
	}
	return &params, true
}
