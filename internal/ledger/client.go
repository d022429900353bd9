package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	networkParamsCacheKey    = "network-params"
	networkParamsCacheExpire = 60 * 60 // seconds
)

var ErrAccountNotFound = errors.New("account not found")

// NodeError is returned when the node answers with a non 2xx status.
type NodeError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *NodeError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("node responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("node responded with status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// NetworkParams are the per-network values needed to build and sign transactions.
type NetworkParams struct {
	NetworkType     NetworkType   `json:"networkType"`
	GenerationHash  [32]byte      `json:"generationHash"`
	EpochAdjustment time.Duration `json:"epochAdjustment"`
}

type Client struct {
	nodeURL                string
	httpClient             *http.Client
	cache                  *freecache.Cache
	defaultEpochAdjustment time.Duration
}

func NewClient(nodeURL string, defaultEpochAdjustment time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		nodeURL:                strings.TrimSuffix(nodeURL, "/"),
		httpClient:             httpClient,
		cache:                  freecache.NewCache(512 * 1024),
		defaultEpochAdjustment: defaultEpochAdjustment,
	}
}

type nodeInfoResponse struct {
	NetworkIdentifier         int    `json:"networkIdentifier"`
	NetworkGenerationHashSeed string `json:"networkGenerationHashSeed"`
}

type networkPropertiesResponse struct {
	Network struct {
		Identifier      string `json:"identifier"`
		EpochAdjustment string `json:"epochAdjustment"`
	} `json:"network"`
}

// NetworkParams returns the node's network type, generation hash and epoch adjustment.
// Values are cached, they never change for a running network.
func (c *Client) NetworkParams(ctx context.Context) (params *NetworkParams, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.networkParams")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if cached, err := c.cache.Get([]byte(networkParamsCacheKey)); err == nil {
		params = &NetworkParams{}
		unmarshalErr := json.Unmarshal(cached, params)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("network-params.from-cache", true))
			return params, nil
		}
		log.Errorf("unmarshal cached network params: %s", unmarshalErr)
	}

	var nodeInfo nodeInfoResponse
	if err := c.getJSON(ctx, "/node/info", &nodeInfo); err != nil {
		return nil, fmt.Errorf("get node info: %w", err)
	}

	params = &NetworkParams{
		NetworkType:     NetworkType(nodeInfo.NetworkIdentifier),
		EpochAdjustment: c.defaultEpochAdjustment,
	}
	if !params.NetworkType.IsValid() {
		return nil, fmt.Errorf("node reported unknown network type: %d", nodeInfo.NetworkIdentifier)
	}

	genHash, err := hex.DecodeString(nodeInfo.NetworkGenerationHashSeed)
	if err != nil || len(genHash) != 32 {
		return nil, fmt.Errorf("invalid generation hash seed [%s]", nodeInfo.NetworkGenerationHashSeed)
	}
	copy(params.GenerationHash[:], genHash)

	var netProps networkPropertiesResponse
	if err := c.getJSON(ctx, "/network/properties", &netProps); err != nil {
		// the default epoch adjustment is good enough for mainnet
		log.Warnf("get network properties, using default epoch adjustment: %s", err)
	} else if netProps.Network.EpochAdjustment != "" {
		epochAdjustment, err := time.ParseDuration(netProps.Network.EpochAdjustment)
		if err != nil {
			log.Warnf("parse epoch adjustment [%s]: %s", netProps.Network.EpochAdjustment, err)
		} else {
			params.EpochAdjustment = epochAdjustment
		}
	}

	if paramsJson, err := json.Marshal(params); err == nil {
		if err := c.cache.Set([]byte(networkParamsCacheKey), paramsJson, networkParamsCacheExpire); err != nil {
			log.Errorf("cache network params: %s", err)
		}
	}

	span.SetAttributes(
		attribute.Bool("network-params.from-cache", false),
		attribute.String("network", params.NetworkType.String()),
	)

	return params, nil
}

type announceRequest struct {
	Payload string `json:"payload"`
}

// Announce pushes a signed transaction to the node. Acceptance does not mean confirmation.
func (c *Client) Announce(ctx context.Context, signed SignedTransaction) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.announce")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("tx.hash", signed.HashHex()))

	body, err := json.Marshal(announceRequest{Payload: signed.PayloadHex()})
	if err != nil {
		return fmt.Errorf("marshal announce request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.nodeURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("announce transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readNodeError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	log.Debugf("transaction [%s] announced", signed.HashHex())

	return nil
}

type accountResponse struct {
	Account struct {
		Address string `json:"address"`
		Mosaics []struct {
			ID     string `json:"id"`
			Amount string `json:"amount"`
		} `json:"mosaics"`
	} `json:"account"`
}

// MosaicBalance returns the amount of the given mosaic held by the address.
// A known account without the mosaic has a zero balance; an account the node never saw gives ErrAccountNotFound.
func (c *Client) MosaicBalance(ctx context.Context, address Address, mosaicID MosaicID) (_ uint64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.mosaicBalance")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("account.address", address.String()))

	var accResp accountResponse
	if err := c.getJSON(ctx, "/accounts/"+address.String(), &accResp); err != nil {
		var nodeErr *NodeError
		if errors.As(err, &nodeErr) && nodeErr.StatusCode == http.StatusNotFound {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("get account info: %w", err)
	}

	for _, m := range accResp.Account.Mosaics {
		id, err := ParseMosaicID(m.ID)
		if err != nil {
			log.Warnf("account [%s]: %s", address, err)
			continue
		}
		if id != mosaicID {
			continue
		}
		amount, err := strconv.ParseUint(m.Amount, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse mosaic amount [%s]: %w", m.Amount, err)
		}
		return amount, nil
	}

	return 0, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readNodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func readNodeError(resp *http.Response) error {
	nodeErr := &NodeError{StatusCode: resp.StatusCode}
	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nodeErr
	}
	if err := json.Unmarshal(respBytes, nodeErr); err != nil {
		nodeErr.Message = strings.TrimSpace(string(respBytes))
	}
	return nodeErr
}
