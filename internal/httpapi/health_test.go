package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthOK(t *testing.T) {
	deps := newTestDeps()
	deps.stats.users = 3
	deps.stats.bookings = 5
	deps.stats.doctors = 2
	srv := newTestServer(t, deps)

	rec := doRequest(srv, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["users"])
	assert.EqualValues(t, 5, body["bookings"])
	assert.EqualValues(t, 2, body["doctors"])
}

func TestHealthDegradedOnPingFailure(t *testing.T) {
	deps := newTestDeps()
	deps.mongo.pingErr = errors.New("no reachable servers")
	srv := newTestServer(t, deps)

	rec := doRequest(srv, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "error", body["mongo"])
}

func TestHealthDegradedOnCountFailure(t *testing.T) {
	deps := newTestDeps()
	deps.stats.err = errors.New("count failed")
	srv := newTestServer(t, deps)

	rec := doRequest(srv, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}
