package reward

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/motivation"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/internal/workout"
	"github.com/2beens/kinnikutoken/pkg"

	log "github.com/sirupsen/logrus"
)

const maxRequestBodyBytes = 64 << 10

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=reward_test

type rewardService interface {
	Submit(ctx context.Context, sub Submission) (*Result, error)
}

type Handler struct {
	service rewardService
}

func NewHandler(service rewardService) *Handler {
	return &Handler{
		service: service,
	}
}

type workoutRequest struct {
	Type string `json:"type"`
	Reps int    `json:"reps"`
}

// submissionRequest accepts the multi workout body and the two single workout legacy bodies.
type submissionRequest struct {
	RecipientAddress string           `json:"recipientAddress"`
	Workouts         []workoutRequest `json:"workouts"`
	WorkoutType      string           `json:"workoutType"`
	Amount           *int             `json:"amount"`
}

func (r submissionRequest) toSubmission() Submission {
	sub := Submission{RecipientAddress: r.RecipientAddress}

	if len(r.Workouts) == 0 && r.Amount != nil {
		wType := workout.TypeGeneral
		if r.WorkoutType != "" {
			wType = workout.Type(r.WorkoutType)
		}
		sub.Workouts = []workout.Entry{{Type: wType, Reps: *r.Amount}}
		return sub
	}

	sub.Workouts = make([]workout.Entry, 0, len(r.Workouts))
	for _, w := range r.Workouts {
		sub.Workouts = append(sub.Workouts, workout.Entry{Type: workout.Type(w.Type), Reps: w.Reps})
	}
	return sub
}

type submissionResponse struct {
	Message            string  `json:"message"`
	TransactionMessage string  `json:"transactionMessage"`
	EstimatedCalories  float64 `json:"estimatedCalories"`
	TokenAmount        uint64  `json:"tokenAmount"`
	TransactionHash    string  `json:"transactionHash"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) HandleSendTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reward.send")
	defer span.End()

	var req submissionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Debugf("send transaction, unmarshal json params: %s", err)
		pkg.WriteJSON(w, errorResponse{Message: "Invalid input. Please provide a valid address and workouts."}, http.StatusBadRequest)
		return
	}

	result, err := h.service.Submit(ctx, req.toSubmission())
	if err != nil {
		status, resp := errorToResponse(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("send transaction to %s: %s", req.RecipientAddress, err)
		} else {
			log.Debugf("send transaction to %s rejected: %s", req.RecipientAddress, err)
		}
		pkg.WriteJSON(w, resp, status)
		return
	}

	pkg.WriteJSON(w, submissionResponse{
		Message:            "Transaction announced successfully!",
		TransactionMessage: result.TransactionMessage,
		EstimatedCalories:  result.Calories,
		TokenAmount:        result.TokenAmount,
		TransactionHash:    result.TransactionHash,
	}, http.StatusOK)
}

func errorToResponse(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, motivation.ErrNotConfigured):
		return http.StatusInternalServerError, errorResponse{Message: "Server configuration error: Gemini API key not set."}
	case errors.Is(err, ErrMisconfigured):
		return http.StatusInternalServerError, errorResponse{Message: "Server configuration error: Private key not set."}
	case errors.Is(err, ledger.ErrInvalidAddress):
		return http.StatusBadRequest, errorResponse{Message: "Invalid recipient address.", Error: err.Error()}
	case errors.Is(err, ErrNoReward):
		return http.StatusBadRequest, errorResponse{Message: "No valid workouts. Please provide at least one known workout with positive reps."}
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Message: "Invalid input. Please provide a valid address and workouts.", Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Message: "An error occurred during the transaction process.", Error: err.Error()}
	}
}
