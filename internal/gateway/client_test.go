package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/errors"
	"github.com/attendly/attendly/internal/log"
	"github.com/attendly/attendly/internal/session"
)

// stubServer is a minimal GraphQL endpoint recording each request
type stubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []stubRequest
	respond  func(operation string) (data any, errs []map[string]any)
}

type stubRequest struct {
	Operation     string
	Authorization string
	Variables     map[string]any
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()

	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))

		s.mu.Lock()
		s.requests = append(s.requests, stubRequest{
			Operation:     payload.OperationName,
			Authorization: r.Header.Get("Authorization"),
			Variables:     payload.Variables,
		})
		respond := s.respond
		s.mu.Unlock()

		data, errs := respond(payload.OperationName)
		response := map[string]any{}
		if data != nil {
			response["data"] = data
		}
		if errs != nil {
			response["errors"] = errs
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubServer) lastRequest() stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func testLogger() *log.Logger {
	return log.New(log.Config{Level: log.LevelError, Output: log.NewOutput(io.Discard)})
}

func TestBearerHeaderAttached(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return map[string]any{"me": map[string]any{"id": "u1", "email": "user@example.com", "role": "EMPLOYEE"}}, nil
	}

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("token-123"))
	client := NewClient(server.URL, store, testLogger())

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Bearer token-123", server.lastRequest().Authorization)
}

func TestBearerHeaderOmittedWhenAnonymous(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return nil, []map[string]any{{
			"message":    "Not authenticated",
			"extensions": map[string]any{"code": "UNAUTHENTICATED"},
		}}
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Empty(t, server.lastRequest().Authorization)
}

func TestQueryCacheAndNetwork(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return map[string]any{"value": "v1"}, nil
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())
	spec := QuerySpec{
		Name:      "Thing",
		Document:  `query Thing { value }`,
		Variables: map[string]any{"id": "1"},
	}

	var out struct {
		Value string `json:"value"`
	}
	cached, err := client.Query(context.Background(), spec, &out)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "v1", out.Value)

	// Second call is served from the cache.
	cached, err = client.Query(context.Background(), spec, &out)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "v1", out.Value)
}

func TestQueryNetworkOnlyBypassesCache(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return map[string]any{"value": "fresh"}, nil
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())
	spec := QuerySpec{
		Name:     "Fresh",
		Document: `query Fresh { value }`,
		Policy:   PolicyNetworkOnly,
	}

	var out struct {
		Value string `json:"value"`
	}
	for i := 0; i < 2; i++ {
		cached, err := client.Query(context.Background(), spec, &out)
		require.NoError(t, err)
		assert.False(t, cached)
	}
	assert.Equal(t, 2, server.requestCount())
	assert.Equal(t, 0, client.cache.len())
}

func TestKeyedPagesShareOneEntry(t *testing.T) {
	// Page 1 and page 2 of the same listing render the same cache key, so a
	// later page replaces the earlier one instead of accumulating beside it.
	cache := newQueryCache()
	specFor := func(pageNum int) QuerySpec {
		return QuerySpec{
			Name:      "GetEmployees",
			Variables: map[string]any{"filter": "active", "page": pageNum},
			CacheKey:  map[string]any{"filter": "active"},
		}
	}

	cache.store(cache.generation(), cacheKey(specFor(1)), []byte(`{"page":"one"}`))
	cache.store(cache.generation(), cacheKey(specFor(2)), []byte(`{"page":"two"}`))

	assert.Equal(t, 1, cache.len())
	data, ok := cache.get(cacheKey(specFor(1)))
	require.True(t, ok)
	assert.JSONEq(t, `{"page":"two"}`, string(data))
}

func TestResetStoreClearsCache(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return map[string]any{"value": "v"}, nil
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())
	spec := QuerySpec{Name: "Thing", Document: `query Thing { value }`}

	var out struct {
		Value string `json:"value"`
	}
	_, err := client.Query(context.Background(), spec, &out)
	require.NoError(t, err)
	require.Equal(t, 1, client.cache.len())

	client.ResetStore()
	assert.Equal(t, 0, client.cache.len())

	cached, err := client.Query(context.Background(), spec, &out)
	require.NoError(t, err)
	assert.False(t, cached, "a reset cache serves nothing until repopulated")
}

func TestStaleGenerationStoreDropped(t *testing.T) {
	cache := newQueryCache()
	gen := cache.generation()

	cache.reset()

	// A result fetched before the reset must not repopulate the cache.
	cache.store(gen, "key", []byte(`{}`))
	assert.Equal(t, 0, cache.len())

	cache.store(cache.generation(), "key", []byte(`{}`))
	assert.Equal(t, 1, cache.len())
}

func TestCacheKeyCanonical(t *testing.T) {
	a := cacheKey(QuerySpec{
		Name:      "GetEmployees",
		Variables: map[string]any{"sortBy": "name", "filter": "active"},
	})
	b := cacheKey(QuerySpec{
		Name:      "GetEmployees",
		Variables: map[string]any{"filter": "active", "sortBy": "name"},
	})
	assert.Equal(t, a, b, "argument order must not affect the key")

	// Explicit key arguments exclude the rest of the variables.
	c := cacheKey(QuerySpec{
		Name:      "GetEmployees",
		Variables: map[string]any{"filter": "active", "page": 1},
		CacheKey:  map[string]any{"filter": "active"},
	})
	d := cacheKey(QuerySpec{
		Name:      "GetEmployees",
		Variables: map[string]any{"filter": "active", "page": 2},
		CacheKey:  map[string]any{"filter": "active"},
	})
	assert.Equal(t, c, d)

	e := cacheKey(QuerySpec{
		Name:      "GetEmployees",
		Variables: map[string]any{"filter": "inactive"},
	})
	assert.NotEqual(t, a, e)
}

func TestLoginMutationRoundTrip(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return map[string]any{"login": map[string]any{
			"token":   "t-1",
			"user":    map[string]any{"id": "u1", "email": "user@example.com", "role": "ADMIN"},
			"success": true,
		}}, nil
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())

	payload, err := client.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, payload.Success)
	assert.Equal(t, "t-1", payload.Token)
	assert.Equal(t, "ADMIN", payload.User.Role)

	// Mutations never populate the cache.
	assert.Equal(t, 0, client.cache.len())

	req := server.lastRequest()
	assert.Equal(t, "Login", req.Operation)
	input, ok := req.Variables["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", input["email"])
}

func TestVerificationRequiredSignal(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return nil, []map[string]any{{
			"message": "Email not verified",
			"extensions": map[string]any{
				"code":  "OTP_REQUIRED",
				"email": "user@example.com",
			},
		}}
	}

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("unverified"))
	client := NewClient(server.URL, store, testLogger())

	_, err := client.Me(context.Background())
	require.Error(t, err)

	email, required := VerificationRequired(err)
	assert.True(t, required)
	assert.Equal(t, "user@example.com", email)
}

func TestResolverErrorKeepsMessage(t *testing.T) {
	server := newStubServer(t)
	server.respond = func(string) (any, []map[string]any) {
		return nil, []map[string]any{{
			"message":    "No account exists with this email",
			"extensions": map[string]any{"code": "BAD_USER_INPUT"},
		}}
	}

	client := NewClient(server.URL, session.NewMemoryStore(), testLogger())

	_, err := client.Login(context.Background(), "none@example.com", "secret123")
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "No account exists with this email", serverErr.Message)
	assert.Equal(t, "BAD_USER_INPUT", serverErr.Code)

	_, required := VerificationRequired(err)
	assert.False(t, required)
}

func TestUnreachableEndpointIsTransportError(t *testing.T) {
	// Nothing listens on this address.
	client := NewClient("http://127.0.0.1:1/graphql", session.NewMemoryStore(), testLogger())

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}
