package balance

import (
	"context"
	"errors"

	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/level"
	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MessageInvalidAddress = "アドレスの形式が正しくないようです"
	MessageNoToken        = "トークンを保有していません"
	MessageLookupFailed   = "残高を取得できませんでした。しばらくしてから再度お試しください"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=balance_test

type balanceSource interface {
	MosaicBalance(ctx context.Context, address ledger.Address, mosaicID ledger.MosaicID) (uint64, error)
}

// Holding is the balance of one address mapped onto the level table.
type Holding struct {
	Address  string     `json:"address"`
	Balance  uint64     `json:"balance"`
	HasToken bool       `json:"hasToken"`
	Level    level.View `json:"level"`
	Message  string     `json:"message,omitempty"`
}

type Service struct {
	source   balanceSource
	mosaicID ledger.MosaicID
	levels   *level.Table
	metrics  *metrics.Manager
}

func NewService(source balanceSource, mosaicID ledger.MosaicID, levels *level.Table, metricsManager *metrics.Manager) *Service {
	if levels == nil {
		levels = level.Default
	}
	return &Service{
		source:   source,
		mosaicID: mosaicID,
		levels:   levels,
		metrics:  metricsManager,
	}
}

// Lookup never fails: a malformed address or a node error yields the zero state with a message.
func (s *Service) Lookup(ctx context.Context, rawAddress string) Holding {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.balance.lookup")
	defer span.End()

	address, err := ledger.ParseAddress(rawAddress)
	if err != nil {
		s.countLookup("invalid_address")
		return s.zeroState(rawAddress, MessageInvalidAddress)
	}

	amount, err := s.source.MosaicBalance(ctx, address, s.mosaicID)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		s.countLookup("no_token")
		return s.zeroState(address.String(), MessageNoToken)
	case err != nil:
		log.Errorf("balance lookup of %s: %s", address, err)
		span.RecordError(err)
		s.countLookup("failed")
		return s.zeroState(address.String(), MessageLookupFailed)
	case amount == 0:
		s.countLookup("no_token")
		return s.zeroState(address.String(), MessageNoToken)
	}

	span.SetAttributes(attribute.Int64("balance", int64(amount)))
	s.countLookup("ok")
	return Holding{
		Address:  address.String(),
		Balance:  amount,
		HasToken: true,
		Level:    s.levels.View(amount),
	}
}

func (s *Service) zeroState(address, message string) Holding {
	return Holding{
		Address: address,
		Level:   s.levels.ZeroView(),
		Message: message,
	}
}

func (s *Service) countLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.CounterBalanceLookups.WithLabelValues(outcome).Inc()
	}
}
