package history

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/internal/workout"
	"github.com/2beens/kinnikutoken/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const recentRecordsLimit = 20

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=history_test

type historyRepo interface {
	Totals(ctx context.Context, address string) (map[workout.Type]int, error)
	List(ctx context.Context, address string, limit int) ([]Record, error)
	Clear(ctx context.Context, address string) (int64, error)
}

type Handler struct {
	repo historyRepo
}

func NewHandler(repo historyRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

type statsResponse struct {
	Address string   `json:"address"`
	Stats   []Stat   `json:"stats"`
	Recent  []Record `json:"recent"`
}

type clearResponse struct {
	Address string `json:"address"`
	Deleted int64  `json:"deleted"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.get")
	defer span.End()

	address, err := addressFromRequest(r)
	if err != nil {
		pkg.WriteJSON(w, errorResponse{Message: "Invalid address."}, http.StatusBadRequest)
		return
	}

	totals, err := h.repo.Totals(ctx, address)
	if err != nil {
		log.Errorf("get history totals for %s: %s", address, err)
		pkg.WriteJSON(w, errorResponse{Message: "Failed to load workout history."}, http.StatusInternalServerError)
		return
	}

	recent, err := h.repo.List(ctx, address, recentRecordsLimit)
	if err != nil {
		log.Errorf("list history for %s: %s", address, err)
		pkg.WriteJSON(w, errorResponse{Message: "Failed to load workout history."}, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, statsResponse{
		Address: address,
		Stats:   BuildStats(totals),
		Recent:  recent,
	}, http.StatusOK)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.clear")
	defer span.End()

	address, err := addressFromRequest(r)
	if err != nil {
		pkg.WriteJSON(w, errorResponse{Message: "Invalid address."}, http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.Clear(ctx, address)
	if err != nil {
		log.Errorf("clear history for %s: %s", address, err)
		pkg.WriteJSON(w, errorResponse{Message: "Failed to clear workout history."}, http.StatusInternalServerError)
		return
	}

	log.Debugf("cleared %d history records of %s", deleted, address)
	pkg.WriteJSON(w, clearResponse{Address: address, Deleted: deleted}, http.StatusOK)
}

// addressFromRequest returns the canonical (undashed, upper case) form of the path address.
func addressFromRequest(r *http.Request) (string, error) {
	raw := mux.Vars(r)["address"]
	if raw == "" {
		return "", errors.New("address missing")
	}
	address, err := ledger.ParseAddress(raw)
	if err != nil {
		return "", err
	}
	return address.String(), nil
}
