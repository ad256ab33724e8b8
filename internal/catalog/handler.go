package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListPage = 1
	defaultListSize = 50
)

type catalogRepo interface {
	ListExercises(ctx context.Context, params ListParams) (_ []Exercise, total int, err error)
	ListMuscleGroups(ctx context.Context) ([]MuscleGroup, error)
	ListEquipment(ctx context.Context) ([]Equipment, error)
}

type ListResponse struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
}

type Handler struct {
	repo      catalogRepo
	exercises exerciseGetter
}

func NewHandler(repo catalogRepo, exercises exerciseGetter) *Handler {
	return &Handler{
		repo:      repo,
		exercises: exercises,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	router.HandleFunc("/exercises/muscle-groups", handler.HandleMuscleGroups).Methods("GET", "OPTIONS").Name("list-muscle-groups")
	router.HandleFunc("/exercises/equipment", handler.HandleEquipment).Methods("GET", "OPTIONS").Name("list-equipment")
	router.HandleFunc("/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	exercise, err := handler.exercises.GetExercise(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	page := defaultListPage
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			http.Error(w, "invalid page (has to be a positive number)", http.StatusBadRequest)
			return
		}
	}

	size := defaultListSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		var err error
		size, err = strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			http.Error(w, "invalid size (has to be a positive number)", http.StatusBadRequest)
			return
		}
	}

	exercises, total, err := handler.repo.ListExercises(ctx, ListParams{
		ExerciseParams: ExerciseParams{
			MuscleGroup: r.URL.Query().Get("muscle_group"),
			Equipment:   r.URL.Query().Get("equipment"),
			Level:       r.URL.Query().Get("level"),
			Category:    r.URL.Query().Get("category"),
		},
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("list exercises error: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Exercises: exercises,
		Total:     total,
	})
	if err != nil {
		log.Errorf("marshal exercises error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listRespJson, http.StatusOK)
}

func (handler *Handler) HandleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.musclegroups")
	defer span.End()

	groups, err := handler.repo.ListMuscleGroups(ctx)
	if err != nil {
		log.Errorf("list muscle groups error: %s", err)
		http.Error(w, "failed to get muscle groups", http.StatusInternalServerError)
		return
	}

	groupsJson, err := json.Marshal(groups)
	if err != nil {
		log.Errorf("marshal muscle groups error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, groupsJson, http.StatusOK)
}

func (handler *Handler) HandleEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.equipment")
	defer span.End()

	equipment, err := handler.repo.ListEquipment(ctx)
	if err != nil {
		log.Errorf("list equipment error: %s", err)
		http.Error(w, "failed to get equipment", http.StatusInternalServerError)
		return
	}

	equipmentJson, err := json.Marshal(equipment)
	if err != nil {
		log.Errorf("marshal equipment error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, equipmentJson, http.StatusOK)
}
