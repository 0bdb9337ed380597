package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, "gateway", "secret"), server
}

func TestConfirmOrderSendsRejectFlag(t *testing.T) {
	var got map[string]any
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ob/orderconfirmation", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	err := client.ConfirmOrder(context.Background(), "order-1", true)

	assert.NoError(t, err)
	assert.Equal(t, "order-1", got["orderId"])
	assert.Equal(t, true, got["reject"])
}

func TestCommandSendsBasicAuth(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "gateway", username)
		assert.Equal(t, "secret", password)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	assert.NoError(t, client.CancelOrder(context.Background(), "order-1"))
}

func TestCommandFailureCarriesNodeReason(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "reason": "order has already been fulfilled"}`))
	})
	defer server.Close()

	err := client.RefundOrder(context.Background(), "order-1")

	var remote *apperror.RemoteCommandError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, string(models.ActionRefund), remote.Action)
	assert.Equal(t, "order has already been fulfilled", remote.Reason)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
}

func TestCommandFailureWithoutBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	defer server.Close()

	err := client.OpenDispute(context.Background(), "order-1", "претензия")

	var remote *apperror.RemoteCommandError
	assert.ErrorAs(t, err, &remote)
	assert.Empty(t, remote.Reason)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
}

func TestGetOrderFillsID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ob/order/order-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"state": "PENDING", "contract": {"type": "PHYSICAL_GOOD"}}`))
	})
	defer server.Close()

	order, err := client.GetOrder(context.Background(), "order-1")

	assert.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, models.StatePending, order.State)
}

func TestGetOrderNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "reason": "Order not found"}`))
	})
	defer server.Close()

	_, err := client.GetOrder(context.Background(), "order-missing")

	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestGetCaseNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.GetCase(context.Background(), "case-missing")

	assert.ErrorIs(t, err, apperror.ErrCaseNotFound)
}

func TestGetProfileBackfillsPeerID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ob/profile/peer-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"name": "Продавец"}`))
	})
	defer server.Close()

	profile, err := client.GetProfile(context.Background(), "peer-1")

	assert.NoError(t, err)
	assert.Equal(t, "peer-1", profile.PeerID)
}

func TestSpendDecodesResult(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/spend", r.URL.Path)
		var req models.SpendRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1000), req.Amount)
		_, _ = w.Write([]byte(`{"txid": "tx-1", "amount": 1000, "confirmedBalance": 9000}`))
	})
	defer server.Close()

	result, err := client.Spend(context.Background(), models.SpendRequest{
		Address:  "qz...dest",
		Amount:   1000,
		FeeLevel: models.FeeLevelNormal,
	})

	assert.NoError(t, err)
	assert.Equal(t, "tx-1", result.Txid)
	assert.Equal(t, int64(9000), result.ConfirmedBalance)
}

func TestNodeConfig(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ob/config", r.URL.Path)
		_, _ = w.Write([]byte(`{"peerID": "peer-own", "testnet": true}`))
	})
	defer server.Close()

	config, err := client.NodeConfig(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "peer-own", config.PeerID)
	assert.True(t, config.Testnet)
}
