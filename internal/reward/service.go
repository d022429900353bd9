package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/motivation"
	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultMaxRepsPerWorkout = 2000
	DefaultRecordTimeout     = 5 * time.Second
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=reward_test

type tokenSender interface {
	SendTokens(ctx context.Context, recipient ledger.Address, amount uint64, message string) (string, error)
}

type messageComposer interface {
	Compose(ctx context.Context, computation workout.Computation) (string, bool, error)
}

type historyRecorder interface {
	Add(ctx context.Context, address, txHash string, entries []workout.Entry, createdAt time.Time) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Submission is a normalized reward request.
type Submission struct {
	RecipientAddress string
	Workouts         []workout.Entry
}

type Result struct {
	TokenAmount        uint64
	Calories           float64
	TransactionMessage string
	TransactionHash    string
	Fallback           bool
}

type Service struct {
	sender            tokenSender
	composer          messageComposer
	history           historyRecorder
	events            eventPublisher
	metrics           *metrics.Manager
	maxRepsPerWorkout int
	recordTimeout     time.Duration
	nowFunc           func() time.Time
}

type ServiceParams struct {
	// Sender is nil when no signing key is configured.
	Sender            tokenSender
	Composer          messageComposer
	History           historyRecorder
	Events            eventPublisher
	MetricsManager    *metrics.Manager
	MaxRepsPerWorkout int
	// RecordTimeout bounds the history write and event publish after a transfer.
	RecordTimeout time.Duration
}

func NewService(params ServiceParams) *Service {
	maxReps := params.MaxRepsPerWorkout
	if maxReps <= 0 {
		maxReps = DefaultMaxRepsPerWorkout
	}
	recordTimeout := params.RecordTimeout
	if recordTimeout <= 0 {
		recordTimeout = DefaultRecordTimeout
	}
	return &Service{
		sender:            params.Sender,
		composer:          params.Composer,
		history:           params.History,
		events:            params.Events,
		metrics:           params.MetricsManager,
		maxRepsPerWorkout: maxReps,
		recordTimeout:     recordTimeout,
		nowFunc:           time.Now,
	}
}

// Submit validates the submission, computes the reward and announces the transfer.
// Nothing reaches the network unless the computed token amount is positive.
func (s *Service) Submit(ctx context.Context, sub Submission) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reward.submit")
	defer span.End()

	if s.sender == nil {
		return nil, fmt.Errorf("%w: private key not set", ErrMisconfigured)
	}

	if sub.RecipientAddress == "" || len(sub.Workouts) == 0 {
		return nil, fmt.Errorf("%w: address and workouts are required", ErrInvalidInput)
	}
	for _, e := range sub.Workouts {
		// skipped entries are never capped
		if e.Counts() && e.Reps > s.maxRepsPerWorkout {
			return nil, fmt.Errorf("%w: %d reps of %s exceed the limit of %d",
				ErrInvalidInput, e.Reps, e.Type, s.maxRepsPerWorkout)
		}
	}

	computation := workout.Compute(sub.Workouts)
	span.SetAttributes(
		attribute.Int64("reward.tokens", int64(computation.TokenAmount)),
		attribute.Int("reward.skipped", computation.Skipped),
	)
	if computation.TokenAmount == 0 {
		s.countTransfer("rejected")
		return nil, ErrNoReward
	}

	recipient, err := ledger.ParseAddress(sub.RecipientAddress)
	if err != nil {
		s.countTransfer("rejected")
		return nil, err
	}

	message, fallback, err := s.composer.Compose(ctx, computation)
	if err != nil {
		if errors.Is(err, motivation.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %w", ErrMisconfigured, err)
		}
		return nil, err
	}
	message = ledger.TruncateMessage(message, ledger.MaxMessageBytes)

	announceStart := time.Now()
	txHash, err := s.sender.SendTokens(ctx, recipient, computation.TokenAmount, message)
	if s.metrics != nil {
		s.metrics.HistLedgerAnnounceDuration.Observe(time.Since(announceStart).Seconds())
	}
	if err != nil {
		s.countTransfer("failed")
		return nil, fmt.Errorf("send tokens: %w", err)
	}

	s.countTransfer("announced")
	if s.metrics != nil {
		s.metrics.CounterTokensAwarded.Add(float64(computation.TokenAmount))
	}
	log.Infof("announced %d tokens to %s, tx %s", computation.TokenAmount, recipient, txHash)

	// recorded even if the client has gone away, but never held past recordTimeout
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	s.afterAnnounce(recordCtx, recipient.String(), txHash, computation)
	cancel()

	return &Result{
		TokenAmount:        computation.TokenAmount,
		Calories:           computation.Calories,
		TransactionMessage: message,
		TransactionHash:    txHash,
		Fallback:           fallback,
	}, nil
}

func (s *Service) afterAnnounce(ctx context.Context, address, txHash string, computation workout.Computation) {
	now := s.nowFunc().UTC()

	if s.history != nil {
		if err := s.history.Add(ctx, address, txHash, computation.Accepted, now); err != nil {
			log.Errorf("record workout history of %s, tx %s: %s", address, txHash, err)
			if s.metrics != nil {
				s.metrics.CounterHistoryWriteFailures.Inc()
			}
		}
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, Event{
			Type:        EventTypeRewardGranted,
			Address:     address,
			TokenAmount: computation.TokenAmount,
			Calories:    computation.Calories,
			TxHash:      txHash,
			Workouts:    computation.Accepted,
			Timestamp:   now,
		}); err != nil {
			log.Errorf("publish reward event of %s, tx %s: %s", address, txHash, err)
		}
	}
}

func (s *Service) countTransfer(outcome string) {
	if s.metrics != nil {
		s.metrics.CounterTransfers.WithLabelValues(outcome).Inc()
	}
}
