package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/kinnikutoken/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRootAndVersion() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	for path, expected := range map[string]string{
		"/":        "筋肉は裏切らない ;)",
		"/version": "test-version-info",
	} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
		require.NoError(t, err)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, resp.Body.Close())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, expected, string(body))
	}
}

func (s *IntegrationTestSuite) TestWorkoutTypes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/api/workout-types", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	var typesResp struct {
		WorkoutTypes []workout.TypeConfig `json:"workoutTypes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&typesResp))
	assert.Len(t, typesResp.WorkoutTypes, len(workout.Types()))
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	t := s.T()

	resp, err := s.httpClient.Get("http://" + serverHost + ":9001/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "kinniku_backend_")
}
