package suzuri

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/kinnikutoken/pkg"

	log "github.com/sirupsen/logrus"
)

type itemsGetter interface {
	GetItems(ctx context.Context) ([]byte, error)
}

type Handler struct {
	api itemsGetter
}

func NewHandler(api itemsGetter) *Handler {
	return &Handler{
		api: api,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) HandleGetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.api.GetItems(r.Context())
	if err != nil {
		if errors.Is(err, ErrAPIKeyMissing) {
			pkg.WriteJSON(w, errorResponse{Error: "SUZURI_API_KEY is not set in environment variables."}, http.StatusInternalServerError)
			return
		}
		log.Errorf("error fetching suzuri items: %s", err)
		pkg.WriteJSON(w, errorResponse{
			Error:   "Failed to fetch items from Suzuri API.",
			Details: err.Error(),
		}, http.StatusInternalServerError)
		return
	}

	pkg.WriteRawJSON(w, items, http.StatusOK)
}
