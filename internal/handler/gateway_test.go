package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/aniview/internal/middleware"
	"github.com/user/aniview/internal/model"
	"github.com/user/aniview/internal/service"
)

// gatewayKeyStore 网关测试用的内存密钥表
type gatewayKeyStore struct {
	keys map[string]*model.APIKey
}

func (s *gatewayKeyStore) FindActiveByPrefix(prefix string) (*model.APIKey, error) {
	key, ok := s.keys[prefix]
	if !ok || !key.IsActive {
		return nil, nil
	}
	return key, nil
}

func (s *gatewayKeyStore) RecordUsage(id string) error { return nil }

const gatewayUpstreamBody = `{
  "data": {
    "Page": {
      "pageInfo": {"total": 50, "currentPage": 1, "lastPage": 25, "hasNextPage": true, "perPage": 2},
      "media": [
        {"id": 101, "title": {"romaji": "Alpha"}},
        {"id": 102, "title": {"romaji": "Beta"}}
      ]
    }
  }
}`

type gatewayEnv struct {
	engine        *gin.Engine
	upstreamCalls *int64
	activeKey     string
}

// newGatewayEnv 搭一套完整的网关：假上游 + 内存密钥 + CORS 中间件 + 通配路由
func newGatewayEnv(t *testing.T, upstreamBody string, perMinute int) *gatewayEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	t.Cleanup(upstream.Close)

	activeKey := "ak_gatewaytestkey0000000000000000000"
	store := &gatewayKeyStore{keys: map[string]*model.APIKey{
		service.KeyPrefix(activeKey): {
			ID:        "key-live",
			UserID:    1,
			KeyPrefix: service.KeyPrefix(activeKey),
			IsActive:  true,
		},
	}}

	h := &Handler{
		AniList:   service.NewAniListClient(upstream.URL, 5*time.Second),
		Validator: service.NewKeyValidator(store, perMinute),
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Any("/v1/*path", h.Gateway)

	return &gatewayEnv{engine: r, upstreamCalls: &calls, activeKey: activeKey}
}

func (e *gatewayEnv) request(method, path, key string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &body)
	}
	return w, body
}

func TestGatewayPreflight(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	// 预检不需要密钥，直接 200
	w, _ := env.request(http.MethodOptions, "/v1/animes/trending", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Zero(t, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayMissingKey(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/trending", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "API key required", body["error"])
	assert.Equal(t, "Please provide your API key in the Authorization header as: Bearer ak_your_api_key", body["message"])
	assert.Zero(t, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayInvalidFormatKey(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/trending", "sk_wrongformat")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid API key format", body["error"])
}

func TestGatewayUnknownKey(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/trending", "ak_notinthestore000000000000000000")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or inactive API key", body["error"])
	assert.Zero(t, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayTrending(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/trending?limit=2", env.activeKey)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)

	pageInfo, ok := body["pageInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, pageInfo["currentPage"])
	assert.EqualValues(t, 2, pageInfo["perPage"])

	assert.EqualValues(t, 1, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayGenreMissingParam(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	// 参数缺失在路由层就被拦下，不会打到上游
	w, body := env.request(http.MethodGet, "/v1/animes/genre/", env.activeKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Genre parameter required", body["error"])
	assert.NotContains(t, body, "available_endpoints")
	assert.Zero(t, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayUnknownEndpoint(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/nonsense", env.activeKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Unknown endpoint", body["error"])

	endpoints, ok := body["available_endpoints"].([]interface{})
	require.True(t, ok)
	assert.Len(t, endpoints, len(service.AvailableEndpoints))
	assert.Zero(t, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayInvalidPath(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 0)

	w, body := env.request(http.MethodGet, "/v1/movies/trending", env.activeKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid API path", body["error"])
	assert.Equal(t, "API paths should start with /v1/animes/", body["message"])
	assert.Contains(t, body, "available_endpoints")
}

func TestGatewayRateLimit(t *testing.T) {
	env := newGatewayEnv(t, gatewayUpstreamBody, 2)

	for i := 0; i < 2; i++ {
		w, _ := env.request(http.MethodGet, "/v1/animes/trending", env.activeKey)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := env.request(http.MethodGet, "/v1/animes/trending", env.activeKey)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Rate limit exceeded", body["error"])
	assert.EqualValues(t, 2, atomic.LoadInt64(env.upstreamCalls))
}

func TestGatewayUpstreamError(t *testing.T) {
	env := newGatewayEnv(t, `{"data": null, "errors": [{"message": "Too Many Requests."}]}`, 0)

	w, body := env.request(http.MethodGet, "/v1/animes/trending", env.activeKey)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "Too Many Requests.", body["message"])
}
