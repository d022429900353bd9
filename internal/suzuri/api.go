package suzuri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultEndpoint = "https://suzuri.jp/api/v1"
	DefaultCacheTTL = 10 * time.Minute
)

var ErrAPIKeyMissing = errors.New("suzuri api key not set")

// UpstreamError is returned when the SUZURI API answers with a non 2xx status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("suzuri api responded with status %d: %s", e.StatusCode, e.Body)
}

type Api struct {
	endpoint    string
	userID      string
	apiKey      string
	cacheTTL    time.Duration
	httpClient  *http.Client
	redisClient *redis.Client
}

type ApiParams struct {
	Endpoint string
	UserID   string
	APIKey   string
	CacheTTL time.Duration
}

func NewApi(params ApiParams, httpClient *http.Client, redisClient *redis.Client) *Api {
	endpoint := params.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	cacheTTL := params.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Api{
		endpoint:    endpoint,
		userID:      params.UserID,
		apiKey:      params.APIKey,
		cacheTTL:    cacheTTL,
		httpClient:  httpClient,
		redisClient: redisClient,
	}
}

func (a *Api) cacheKey() string {
	return fmt.Sprintf("suzuri-items::%s", a.userID)
}

// GetItems returns the raw item listing JSON of the configured user.
func (a *Api) GetItems(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "suzuri.getItems")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if a.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	if a.redisClient != nil {
		cached, err := a.redisClient.Get(ctx, a.cacheKey()).Bytes()
		switch {
		case err == nil && len(cached) > 0:
			span.SetAttributes(attribute.Bool("suzuri.from-cache", true))
			log.Tracef("found suzuri items for [%s] in redis cache", a.userID)
			return cached, nil
		case err != nil && !errors.Is(err, redis.Nil):
			log.Errorf("failed to get suzuri items from redis for [%s]: %s", a.userID, err)
		}
	}
	span.SetAttributes(attribute.Bool("suzuri.from-cache", false))

	itemsURL := fmt.Sprintf("%s/users/%s/items", a.endpoint, url.PathEscape(a.userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get suzuri items: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read suzuri items response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}
	if !json.Valid(respBytes) {
		return nil, fmt.Errorf("suzuri items response is not valid json")
	}

	if a.redisClient != nil {
		if err := a.redisClient.Set(ctx, a.cacheKey(), respBytes, a.cacheTTL).Err(); err != nil {
			log.Errorf("failed to cache suzuri items in redis for [%s]: %s", a.userID, err)
		} else {
			log.Debugf("suzuri items cache set in redis for: %s", a.userID)
		}
	}

	return respBytes, nil
}
