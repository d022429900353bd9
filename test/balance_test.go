package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/kinnikutoken/internal/balance"
	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/level"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getBalance(ctx context.Context, address string) balance.Holding {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/api/balance/"+address, nil)
	require.NoError(t, err)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var holding balance.Holding
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&holding))
	return holding
}

func (s *IntegrationTestSuite) TestBalance() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	holding := s.getBalance(ctx, s.holder.Pretty())
	assert.Equal(t, s.holder.String(), holding.Address)
	assert.True(t, holding.HasToken)
	assert.Equal(t, uint64(testHolderTokenAmount), holding.Balance)
	assert.Equal(t, level.Default.View(testHolderTokenAmount), holding.Level)
	assert.Empty(t, holding.Message)
}

func (s *IntegrationTestSuite) TestBalance_ZeroStates() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	holding := s.getBalance(ctx, "not-an-address")
	assert.False(t, holding.HasToken)
	assert.Zero(t, holding.Balance)
	assert.Equal(t, balance.MessageInvalidAddress, holding.Message)

	sender, err := ledger.NewAccountFromPrivateKey(testSenderPrivateKey)
	require.NoError(t, err)
	holding = s.getBalance(ctx, sender.Address(ledger.NetworkMainNet).String())
	assert.False(t, holding.HasToken)
	assert.Equal(t, balance.MessageNoToken, holding.Message)
	assert.Equal(t, level.Default.ZeroView(), holding.Level)
}
