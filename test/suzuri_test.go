package test

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestSuzuriItems_Cached() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.resetRedis(ctx)

	t := s.T()

	s.mu.Lock()
	s.suzuriCalls = 0
	s.mu.Unlock()

	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/api/suzuri-items", nil)
		require.NoError(t, err)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, resp.Body.Close())
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"items":[{"id":1,"title":"KINNIKU tee"}]}`, string(respBytes))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, 1, s.suzuriCalls)

	ttl, err := s.redisClient.TTL(ctx, "suzuri-items::"+testSuzuriUser).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}
