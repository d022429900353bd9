package ledger

import (
	"crypto/ed25519"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

const (
	transferTransactionType    uint16 = 0x4154
	transferTransactionVersion uint8  = 1

	// size(4) + reserved(4) + signature(64) + signer(32) + reserved(4)
	signingOffset   = 108
	transferHeader  = 160
	mosaicEntrySize = 16

	plainMessageType byte = 0x00
	// MaxMessageBytes is the plain text budget of a transfer message (the node allows 1024 incl. the type byte).
	MaxMessageBytes = 1023

	DefaultDeadline = 2 * time.Hour
)

var ErrMessageTooLong = errors.New("message too long")

// MosaicID identifies a token on the ledger, rendered as 16 upper hex chars.
type MosaicID uint64

func ParseMosaicID(s string) (MosaicID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse mosaic id [%s]: %w", s, err)
	}
	return MosaicID(v), nil
}

func (m MosaicID) String() string {
	return fmt.Sprintf("%016X", uint64(m))
}

type Mosaic struct {
	ID     MosaicID
	Amount uint64
}

// Transfer is an unsigned transfer transaction.
type Transfer struct {
	Network   NetworkType
	Recipient Address
	Mosaics   []Mosaic
	Message   string
	// Deadline in milliseconds since the network epoch.
	Deadline uint64
	// FeeMultiplier is applied to the serialized size to get the max fee.
	FeeMultiplier uint32
}

// SignedTransaction is ready to be announced.
type SignedTransaction struct {
	Payload []byte
	Hash    [32]byte
	Signer  []byte
}

func (s SignedTransaction) PayloadHex() string {
	return strings.ToUpper(hex.EncodeToString(s.Payload))
}

func (s SignedTransaction) HashHex() string {
	return strings.ToUpper(hex.EncodeToString(s.Hash[:]))
}

// NetworkDeadline converts now + ttl into network time.
func NetworkDeadline(now time.Time, epochAdjustment time.Duration, ttl time.Duration) uint64 {
	networkNow := now.Add(ttl).UnixMilli() - epochAdjustment.Milliseconds()
	if networkNow < 0 {
		return 0
	}
	return uint64(networkNow)
}

func (t Transfer) Size() int {
	return transferHeader + len(t.Mosaics)*mosaicEntrySize + 1 + len(t.Message)
}

func (t Transfer) MaxFee() uint64 {
	return uint64(t.Size()) * uint64(t.FeeMultiplier)
}

// Serialize encodes the transaction with the signature and signer left empty.
func (t Transfer) Serialize() ([]byte, error) {
	if len(t.Message) > MaxMessageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLong, len(t.Message))
	}
	if len(t.Mosaics) > 255 {
		return nil, fmt.Errorf("too many mosaics: %d", len(t.Mosaics))
	}

	size := t.Size()
	buf := make([]byte, size)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], uint32(size))
	// 4..108: reserved, signature, signer, reserved
	buf[108] = transferTransactionVersion
	buf[109] = byte(t.Network)
	le.PutUint16(buf[110:], transferTransactionType)
	le.PutUint64(buf[112:], t.MaxFee())
	le.PutUint64(buf[120:], t.Deadline)
	copy(buf[128:152], t.Recipient[:])
	le.PutUint16(buf[152:], uint16(len(t.Message)+1))
	buf[154] = byte(len(t.Mosaics))
	// 155..160: reserved

	offset := transferHeader
	for _, m := range t.Mosaics {
		le.PutUint64(buf[offset:], uint64(m.ID))
		le.PutUint64(buf[offset+8:], m.Amount)
		offset += mosaicEntrySize
	}

	buf[offset] = plainMessageType
	copy(buf[offset+1:], t.Message)

	return buf, nil
}

// Sign serializes and signs the transfer for the network identified by generationHash.
func (t Transfer) Sign(signer *Account, generationHash [32]byte) (SignedTransaction, error) {
	payload, err := t.Serialize()
	if err != nil {
		return SignedTransaction{}, err
	}

	signingBytes := make([]byte, 0, len(generationHash)+len(payload)-signingOffset)
	signingBytes = append(signingBytes, generationHash[:]...)
	signingBytes = append(signingBytes, payload[signingOffset:]...)

	signature := ed25519.Sign(signer.privateKey, signingBytes)
	copy(payload[8:72], signature)
	copy(payload[72:104], signer.PublicKey())

	return SignedTransaction{
		Payload: payload,
		Hash:    transactionHash(payload, generationHash),
		Signer:  signer.PublicKey(),
	}, nil
}

func transactionHash(payload []byte, generationHash [32]byte) [32]byte {
	h := sha3.New256()
	h.Write(payload[8:40])   // signature R
	h.Write(payload[72:104]) // signer public key
	h.Write(generationHash[:])
	h.Write(payload[signingOffset:])

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// TruncateMessage cuts s to at most maxBytes without splitting a UTF-8 sequence.
func TruncateMessage(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
