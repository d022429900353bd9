package ledger

import (
	"bytes"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // symbol addresses are defined over RIPEMD-160
	"golang.org/x/crypto/sha3"
)

const (
	AddressSize        = 24
	rawAddressLength   = 39
	addressChecksumLen = 3
)

var ErrInvalidAddress = errors.New("invalid address")

// NetworkType is the network identifier byte prefixed to every address.
type NetworkType uint8

const (
	NetworkMainNet NetworkType = 104
	NetworkTestNet NetworkType = 152
)

func (n NetworkType) IsValid() bool {
	return n == NetworkMainNet || n == NetworkTestNet
}

func (n NetworkType) String() string {
	switch n {
	case NetworkMainNet:
		return "mainnet"
	case NetworkTestNet:
		return "testnet"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(n))
	}
}

// Address is a decoded symbol address: network byte, RIPEMD-160 of the public key and a 3 byte checksum.
type Address [AddressSize]byte

// ParseAddress accepts the 39 char base32 form, with or without dashes, in any case.
func ParseAddress(raw string) (Address, error) {
	var addr Address

	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))
	if len(cleaned) != rawAddressLength {
		return addr, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidAddress, rawAddressLength, len(cleaned))
	}

	decoded, err := base32.StdEncoding.DecodeString(cleaned + "A")
	if err != nil {
		return addr, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	copy(addr[:], decoded[:AddressSize])

	if !addr.Network().IsValid() {
		return addr, fmt.Errorf("%w: unknown network %d", ErrInvalidAddress, decoded[0])
	}

	checksum := addressChecksum(addr[:AddressSize-addressChecksumLen])
	if !bytes.Equal(checksum, addr[AddressSize-addressChecksumLen:]) {
		return addr, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return addr, nil
}

// AddressFromPublicKey derives the address of an account on the given network.
func AddressFromPublicKey(network NetworkType, publicKey []byte) Address {
	shaHash := sha3.Sum256(publicKey)

	ripemd := ripemd160.New()
	ripemd.Write(shaHash[:])

	var addr Address
	addr[0] = byte(network)
	copy(addr[1:], ripemd.Sum(nil))
	copy(addr[AddressSize-addressChecksumLen:], addressChecksum(addr[:AddressSize-addressChecksumLen]))

	return addr
}

func addressChecksum(versionPrefixedHash []byte) []byte {
	sum := sha3.Sum256(versionPrefixedHash)
	return sum[:addressChecksumLen]
}

func (a Address) Network() NetworkType {
	return NetworkType(a[0])
}

// String returns the 39 char base32 form used in wallets.
func (a Address) String() string {
	padded := append(a[:], 0)
	return base32.StdEncoding.EncodeToString(padded)[:rawAddressLength]
}

// Pretty returns the dashed form, e.g. NAR3W7-B4BCOZ-...
func (a Address) Pretty() string {
	s := a.String()
	var sb strings.Builder
	for i := 0; i < len(s); i += 6 {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(s[i:min(i+6, len(s))])
	}
	return sb.String()
}

// Hex is the form the node REST API uses in account payloads.
func (a Address) Hex() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}
