package cli

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackHandlerState(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		delivered bool
	}{
		{name: "matching state", query: "token=good&state=s-123", wantCode: http.StatusOK, delivered: true},
		{name: "missing state", query: "token=attacker", wantCode: http.StatusBadRequest},
		{name: "empty state", query: "token=attacker&state=", wantCode: http.StatusBadRequest},
		{name: "wrong state", query: "token=attacker&state=other", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan url.Values, 1)
			handler := callbackHandler("s-123", results)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))
			assert.Equal(t, tt.wantCode, rec.Code)

			select {
			case q := <-results:
				assert.True(t, tt.delivered, "query delivered for %q", tt.query)
				assert.Equal(t, "good", q.Get("token"))
			default:
				assert.False(t, tt.delivered, "query not delivered")
			}
		})
	}
}

func TestRejectedCallbackLeavesSessionAnonymous(t *testing.T) {
	h := newHarness(t, "")

	results := make(chan url.Values, 1)
	rec := httptest.NewRecorder()
	callbackHandler("s-123", results).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/callback?token=attacker", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, results)

	assert.Equal(t, "Not signed in\n", h.mustRun("whoami"))
}
