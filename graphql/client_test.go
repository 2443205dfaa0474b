package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, handle func(t *testing.T, req request, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var req request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handle(t, req, w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListCanteens(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req request, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "canteens")
		w.Write([]byte(`{"data":{"canteens":[{"id":"c1","name":"Main Canteen","location":"Block A","isOpen":true}]}}`))
	})

	got, err := NewClient(srv.URL, "").ListCanteens(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Main Canteen", got[0].Name)
	assert.True(t, got[0].IsOpen)
}

func TestClient_ListMenuItems(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req request, w http.ResponseWriter) {
		assert.Equal(t, "c1", req.Variables["canteenId"])
		w.Write([]byte(`{"data":{"menuItems":[
			{"id":"1","canteenId":"c1","name":"Paneer Roll","category":"Rolls","price":80,"isAvailable":true,"isVegetarian":true}
		]}}`))
	})

	got, err := NewClient(srv.URL, "").ListMenuItems(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].CanteenID)
	assert.InDelta(t, 80, got[0].Price, 1e-9)
	assert.True(t, got[0].IsVegetarian)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"canteens":[]}}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "s3cret").ListCanteens(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Bearer s3cret", auth)
}

func TestClient_GraphQLErrors(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req request, w http.ResponseWriter) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"canteen not found"},{"message":"try again"}]}`))
	})

	_, err := NewClient(srv.URL, "").ListMenuItems(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "canteen not found")
}

func TestClient_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").ListCanteens(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req request, w http.ResponseWriter) {
		w.Write([]byte(`{"data":{"canteens":[]}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "").ListCanteens(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
}
