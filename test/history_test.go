package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/kinnikutoken/internal/history"
	"github.com/2beens/kinnikutoken/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyResponse struct {
	Address string           `json:"address"`
	Stats   []history.Stat   `json:"stats"`
	Recent  []history.Record `json:"recent"`
}

func (s *IntegrationTestSuite) getHistory(ctx context.Context) historyResponse {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/api/history/"+s.holder.Pretty(), nil)
	require.NoError(t, err)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var historyResp historyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&historyResp))
	return historyResp
}

func (s *IntegrationTestSuite) TestHistory() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	s.resetRedis(ctx)

	historyResp := s.getHistory(ctx)
	assert.Equal(t, s.holder.String(), historyResp.Address)
	assert.Empty(t, historyResp.Stats)
	assert.Empty(t, historyResp.Recent)

	createdAt := time.Now().UTC().Add(-time.Hour)
	rows := []struct {
		workoutType workout.Type
		reps        int
		txHash      string
	}{
		{workout.TypePushups, 30, "AAAA"},
		{workout.TypeSquats, 20, "AAAA"},
		{workout.TypePushups, 15, "BBBB"},
	}
	for _, row := range rows {
		_, err := s.DB.ExecContext(ctx,
			`INSERT INTO workout_history (address, workout_type, reps, tx_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
			s.holder.String(), string(row.workoutType), row.reps, row.txHash, createdAt,
		)
		require.NoError(t, err)
	}

	historyResp = s.getHistory(ctx)
	require.Len(t, historyResp.Stats, 2)
	assert.Equal(t, workout.TypePushups, historyResp.Stats[0].Type)
	assert.Equal(t, 45, historyResp.Stats[0].Reps)
	assert.Equal(t, workout.TypeSquats, historyResp.Stats[1].Type)
	assert.Equal(t, 20, historyResp.Stats[1].Reps)
	assert.Len(t, historyResp.Recent, 3)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, serverEndpoint+"/api/history/"+s.holder.String(), nil)
	require.NoError(t, err)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var clearResp struct {
		Address string `json:"address"`
		Deleted int64  `json:"deleted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&clearResp))
	assert.Equal(t, int64(3), clearResp.Deleted)

	historyResp = s.getHistory(ctx)
	assert.Empty(t, historyResp.Stats)
}

func (s *IntegrationTestSuite) TestHistory_ClearRateLimited() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	s.resetRedis(ctx)

	clearHistory := func() int {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, serverEndpoint+"/api/history/"+s.holder.String(), nil)
		require.NoError(t, err)
		// not a trusted proxy, so the header is ignored
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < testRateLimitPerMin; i++ {
		assert.Equal(t, http.StatusOK, clearHistory())
	}
	assert.Equal(t, http.StatusTooManyRequests, clearHistory())
}
