package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/pkg/api"
)

func newJWTManager(t *testing.T) *auth.JWTManager {
	t.Helper()
	key, err := auth.DeriveSigningKey("middleware-test-secret-value")
	require.NoError(t, err)
	return auth.NewJWTManager(key, time.Hour)
}

// capture returns a UnaryFunc that records the context it was called with.
func capture(got *context.Context) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*got = ctx
		return connect.NewResponse(&api.DemoResponse{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := newJWTManager(t)
	token, err := jwtManager.Generate(auth.DemoUser(), true)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "valid", header: "Bearer " + token},
		{name: "lowercase scheme", header: "bearer " + token},
		{name: "missing", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic abc", wantCode: connect.CodeUnauthenticated},
		{name: "garbage token", header: "Bearer not-a-jwt", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx context.Context
			handler := RequireAuth(jwtManager)(capture(&ctx))

			req := connect.NewRequest(&api.DemoRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				assert.Nil(t, ctx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, auth.DemoUserID, GetUserID(ctx))
			assert.Equal(t, auth.DemoUser(), UserFromContext(ctx))
			claims, ok := ClaimsFromContext(ctx)
			require.True(t, ok)
			assert.True(t, claims.Demo)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := newJWTManager(t)

	var ctx context.Context
	handler := OptionalAuth(jwtManager)(capture(&ctx))

	req := connect.NewRequest(&api.DemoRequest{})
	req.Header().Set("Authorization", "Bearer not-a-jwt")
	_, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, GetUserID(ctx))
	assert.Nil(t, UserFromContext(ctx))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := ulid.ParseStrict(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	supplied := NewRequestID()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, supplied)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, supplied, seen)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "other", "404")))

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:8080"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/oremus.v1.GroupService/ListGroups", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}
