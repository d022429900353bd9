package misc

import (
	"net/http"

	"github.com/2beens/kinnikutoken/internal/level"
	"github.com/2beens/kinnikutoken/internal/workout"
	"github.com/2beens/kinnikutoken/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	levels      *level.Table
	versionInfo string
}

func NewHandler(levels *level.Table, versionInfo string) *Handler {
	if levels == nil {
		levels = level.Default
	}
	return &Handler{
		levels:      levels,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/api/workout-types", handler.handleWorkoutTypes).Methods("GET", "OPTIONS").Name("workout-types")
	mainRouter.HandleFunc("/api/levels", handler.handleLevels).Methods("GET", "OPTIONS").Name("levels")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteText(w, "筋肉は裏切らない ;)", http.StatusOK)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteText(w, handler.versionInfo, http.StatusOK)
}

type workoutTypesResponse struct {
	WorkoutTypes []workout.TypeConfig `json:"workoutTypes"`
}

func (handler *Handler) handleWorkoutTypes(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, workoutTypesResponse{WorkoutTypes: workout.Types()}, http.StatusOK)
}

type levelsResponse struct {
	Levels             []level.Level `json:"levels"`
	PlusLevelStep      uint64        `json:"plusLevelStep"`
	MaxBackgroundIndex int           `json:"maxBackgroundIndex"`
}

func (handler *Handler) handleLevels(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, levelsResponse{
		Levels:             handler.levels.Levels(),
		PlusLevelStep:      level.PlusLevelStep,
		MaxBackgroundIndex: level.MaxBackgroundIndex,
	}, http.StatusOK)
}
