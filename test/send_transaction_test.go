package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendTransactionResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s *IntegrationTestSuite) postSubmission(ctx context.Context, body string) (int, sendTransactionResponse) {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/api/send-transaction", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var sendResp sendTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sendResp))
	return resp.StatusCode, sendResp
}

func (s *IntegrationTestSuite) TestSendTransaction_GeminiNotConfigured() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.resetRedis(ctx)

	t := s.T()
	body := fmt.Sprintf(`{"recipientAddress":"%s","workouts":[{"type":"pushups","reps":30},{"type":"squats","reps":20}]}`, s.holder)
	status, resp := s.postSubmission(ctx, body)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server configuration error: Gemini API key not set.", resp.Message)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Zero(t, s.announced)
}

func (s *IntegrationTestSuite) TestSendTransaction_InvalidInput() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.resetRedis(ctx)

	t := s.T()

	status, resp := s.postSubmission(ctx, fmt.Sprintf(`{"recipientAddress":"%s","workouts":[]}`, s.holder))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid input. Please provide a valid address and workouts.", resp.Message)

	status, resp = s.postSubmission(ctx, fmt.Sprintf(`{"recipientAddress":"%s","workouts":[{"type":"yoga","reps":10}]}`, s.holder))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Message, "No valid workouts")

	status, resp = s.postSubmission(ctx, `{"recipientAddress":"NOT-AN-ADDRESS","workouts":[{"type":"pushups","reps":10}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid recipient address.", resp.Message)
}

func (s *IntegrationTestSuite) TestSendTransaction_RateLimited() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.resetRedis(ctx)

	t := s.T()
	body := fmt.Sprintf(`{"recipientAddress":"%s","workouts":[]}`, s.holder)
	for i := 0; i < testRateLimitPerMin; i++ {
		status, _ := s.postSubmission(ctx, body)
		require.Equal(t, http.StatusBadRequest, status)
	}

	status, _ := s.postSubmission(ctx, body)
	assert.Equal(t, http.StatusTooManyRequests, status)

	// other routes are not limited
	resp, err := s.httpClient.Get(serverEndpoint + "/api/workout-types")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
