package balance

import (
	"context"
	"net/http"

	"github.com/2beens/kinnikutoken/pkg"

	"github.com/gorilla/mux"
)

type holdingLookup interface {
	Lookup(ctx context.Context, rawAddress string) Holding
}

type Handler struct {
	service holdingLookup
}

func NewHandler(service holdingLookup) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleGet always answers 200, failures are reported through the message field.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	holding := h.service.Lookup(r.Context(), mux.Vars(r)["address"])
	pkg.WriteJSON(w, holding, http.StatusOK)
}
