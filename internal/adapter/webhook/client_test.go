package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsJSON(t *testing.T) {
	event := payloads.ModerationEvent{Type: payloads.EventAssetApproved, AssetID: uuid.New(), AssetName: "Key art"}

	var got payloads.ModerationEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, payloads.EventAssetApproved, r.Header.Get("X-Event-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Send(context.Background(), event))
	assert.Equal(t, event.AssetID, got.AssetID)
	assert.Equal(t, "Key art", got.AssetName)
}

func TestSend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), payloads.ModerationEvent{Type: payloads.EventAssetDenied})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSend_DisabledWithoutURL(t *testing.T) {
	require.NoError(t, NewClient("").Send(context.Background(), payloads.ModerationEvent{}))
}
