package ledger

import (
	"context"
	"fmt"
	"time"
)

// Sender builds, signs and announces token transfers from a single server-held account.
type Sender struct {
	client        *Client
	account       *Account
	mosaicID      MosaicID
	feeMultiplier uint32
	deadlineTTL   time.Duration
	nowFunc       func() time.Time
}

type SenderParams struct {
	Client        *Client
	Account       *Account
	MosaicID      MosaicID
	FeeMultiplier uint32
}

func NewSender(params SenderParams) *Sender {
	return &Sender{
		client:        params.Client,
		account:       params.Account,
		mosaicID:      params.MosaicID,
		feeMultiplier: params.FeeMultiplier,
		deadlineTTL:   DefaultDeadline,
		nowFunc:       time.Now,
	}
}

// SendTokens transfers amount tokens to recipient with message attached as a plain note.
// It returns the hash of the announced transaction. No retry is done.
func (s *Sender) SendTokens(ctx context.Context, recipient Address, amount uint64, message string) (string, error) {
	params, err := s.client.NetworkParams(ctx)
	if err != nil {
		return "", fmt.Errorf("network params: %w", err)
	}

	if recipient.Network() != params.NetworkType {
		return "", fmt.Errorf("%w: address is for %s, node is %s",
			ErrInvalidAddress, recipient.Network(), params.NetworkType)
	}

	transfer := Transfer{
		Network:       params.NetworkType,
		Recipient:     recipient,
		Mosaics:       []Mosaic{{ID: s.mosaicID, Amount: amount}},
		Message:       TruncateMessage(message, MaxMessageBytes),
		Deadline:      NetworkDeadline(s.nowFunc(), params.EpochAdjustment, s.deadlineTTL),
		FeeMultiplier: s.feeMultiplier,
	}

	signed, err := transfer.Sign(s.account, params.GenerationHash)
	if err != nil {
		return "", fmt.Errorf("sign transfer: %w", err)
	}

	if err := s.client.Announce(ctx, signed); err != nil {
		return "", err
	}

	return signed.HashHex(), nil
}

func (s *Sender) MosaicID() MosaicID {
	return s.mosaicID
}
