package get

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestGetHealth_OK(t *testing.T) {
	db := new(MockPinger)
	db.On("Ping", mock.Anything).Return(nil).Once()

	rr := httptest.NewRecorder()
	GetHealth(slog.Default(), db).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	db.AssertExpectations(t)
}

func TestGetHealth_DBDown(t *testing.T) {
	db := new(MockPinger)
	db.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused")).Once()

	rr := httptest.NewRecorder()
	GetHealth(slog.Default(), db).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Database unavailable")
	assert.NotContains(t, rr.Body.String(), "connection refused")
	db.AssertExpectations(t)
}
