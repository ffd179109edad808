package get

import (
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type MockKindLister struct {
	mock.Mock
}

func (m *MockKindLister) KindNames() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockKindLister) VariantNames() []string {
	return m.Called().Get(0).([]string)
}

func TestGetKinds(t *testing.T) {
	lister := new(MockKindLister)
	lister.On("KindNames").Return([]string{"cutting", "sewing"})
	lister.On("VariantNames").Return([]string{"efficiency"})

	req := httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
	rr := httptest.NewRecorder()

	GetKinds(slog.Default(), lister, "Asia/Jakarta").ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, []string{"cutting", "sewing"}, resp.Kinds)
	assert.Equal(t, []string{"efficiency"}, resp.Variants)
	assert.Equal(t, "Asia/Jakarta", resp.Timezone)

	lister.AssertExpectations(t)
}
