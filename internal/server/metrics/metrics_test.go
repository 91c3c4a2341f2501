package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintOutcome(t *testing.T) {
	m := New()
	m.MintOutcome("cargo", OutcomeOK)
	m.MintOutcome("cargo", OutcomeOK)
	m.MintOutcome("vessel", OutcomePersistFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mintTotal.WithLabelValues("cargo", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mintTotal.WithLabelValues("vessel", OutcomePersistFailed)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.MintOutcome("journey", OutcomeNoTokenID)
	m.MintDuration("journey", 3*time.Second)
	m.RPC("/shipmarket.v1.Marketplace/Ping", "OK")
	m.EventPublishFailed()

	srv := httptest.NewServer(m.NewHTTPServer(":0").Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `shipmarket_mint_total{flow="journey",outcome="no_token_id"} 1`)
	assert.Contains(t, string(body), `shipmarket_grpc_requests_total{code="OK",method="/shipmarket.v1.Marketplace/Ping"} 1`)
	assert.Contains(t, string(body), "shipmarket_event_publish_errors_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
