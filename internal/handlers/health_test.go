package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeEvents bool

func (e fakeEvents) IsHealthy() bool { return bool(e) }

func serveHealth(h *Health) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", h.Check)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serveHealth(NewHealth(fakePinger{}, fakeEvents(true), 0))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serveHealth(NewHealth(fakePinger{}, nil, 0))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthStoreDown(t *testing.T) {
	w := serveHealth(NewHealth(fakePinger{err: errors.New("connection refused")}, nil, 0))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealthEventsDown(t *testing.T) {
	w := serveHealth(NewHealth(fakePinger{}, fakeEvents(false), 0))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "events")
}
