// Package gateway is the single GraphQL transport for the console.
//
// Every operation goes through one Client, which attaches the bearer token
// from the session store to outgoing requests and maintains a response cache
// for queries. Mutations are never cached. Components must not talk to the
// API or mutate the cache by any other path.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/attendly/attendly/internal/errors"
	"github.com/attendly/attendly/internal/log"
	"github.com/attendly/attendly/internal/session"
)

// FetchPolicy controls how a query consults the response cache
type FetchPolicy int

const (
	// PolicyCacheAndNetwork serves a cached response immediately when one
	// exists and revalidates against the network in the background.
	PolicyCacheAndNetwork FetchPolicy = iota
	// PolicyNetworkOnly bypasses the cache entirely. Used where stale data
	// is security-relevant: identity confirmation and global search.
	PolicyNetworkOnly
)

// QuerySpec describes a cacheable query operation.
//
// CacheKey, when set, restricts which variables participate in the cache key.
// The paginated employees listing keys on filter/sortBy/sortOrder only, so
// every page fetch replaces the previously cached pages for that key set.
type QuerySpec struct {
	Name      string
	Document  string
	Variables map[string]any
	Policy    FetchPolicy
	CacheKey  map[string]any
}

// Client is the GraphQL gateway client
type Client struct {
	gql    *graphql.Client
	store  session.Store
	cache  *queryCache
	logger *log.Logger
}

// authTransport attaches the bearer token from the session store to every
// outgoing request, omitting the header when no token is present.
type authTransport struct {
	store session.Store
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok, _ := t.store.Get(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// NewClient creates a gateway client for the given endpoint
func NewClient(endpoint string, store session.Store, logger *log.Logger) *Client {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			store: store,
			base:  http.DefaultTransport,
		},
	}

	return &Client{
		gql:    graphql.NewClient(endpoint, httpClient),
		store:  store,
		cache:  newQueryCache(),
		logger: logger.With("component", "gateway"),
	}
}

// Query executes a query according to its fetch policy. It reports whether
// the result was served from the cache.
func (c *Client) Query(ctx context.Context, spec QuerySpec, out any) (bool, error) {
	if spec.Policy == PolicyNetworkOnly {
		data, err := c.execute(ctx, spec.Name, spec.Document, spec.Variables)
		if err != nil {
			return false, err
		}
		return false, decode(data, out)
	}

	key := cacheKey(spec)
	if data, ok := c.cache.get(key); ok {
		c.revalidate(spec, key)
		return true, decode(data, out)
	}

	data, err := c.execute(ctx, spec.Name, spec.Document, spec.Variables)
	if err != nil {
		return false, err
	}
	c.cache.store(c.cache.generation(), key, data)
	return false, decode(data, out)
}

// Mutate executes a mutation. Mutations never touch the cache.
func (c *Client) Mutate(ctx context.Context, name, document string, variables map[string]any, out any) error {
	data, err := c.execute(ctx, name, document, variables)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(data, out)
}

// ResetStore discards all cached query state. Called at the three
// identity-changing transitions (login success, OTP verify success, logout)
// so no data leaks across identities. In-flight revalidations started before
// the reset are discarded when they complete.
func (c *Client) ResetStore() {
	c.cache.reset()
	c.logger.Debug("response cache reset")
}

// revalidate refreshes a cached entry in the background. The entry is only
// stored if no cache reset happened while the fetch was in flight.
func (c *Client) revalidate(spec QuerySpec, key string) {
	gen := c.cache.generation()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := c.execute(ctx, spec.Name, spec.Document, spec.Variables)
		if err != nil {
			c.logger.WithError(err).Debug("background revalidation failed", "operation", spec.Name)
			return
		}
		c.cache.store(gen, key, data)
	}()
}

// execute performs one GraphQL round trip and maps failures to the console
// error taxonomy.
func (c *Client) execute(ctx context.Context, name, document string, variables map[string]any) ([]byte, error) {
	start := time.Now()
	data, err := c.gql.ExecRaw(ctx, document, variables, graphql.OperationName(name))
	if err != nil {
		mapped := mapError(err)
		c.logger.WithError(mapped).Debug("operation failed", "operation", name, "elapsed", time.Since(start))
		return nil, mapped
	}

	c.logger.Debug("operation completed", "operation", name, "elapsed", time.Since(start))
	return data, nil
}

// decode unmarshals a raw GraphQL data payload into out
func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewMalformedResponseError(err)
	}
	return nil
}
