// Package client is the transport layer for the broker's REST API:
// OAuth token lifecycle, rate limiting, continuation paging and typed
// error decoding sit here so the product packages stay declarative.
package client

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openkis/gokis/kis/types"
	"github.com/openkis/gokis/pkg/cache"
	"github.com/openkis/gokis/pkg/config"
	"github.com/openkis/gokis/pkg/logger"
	"github.com/openkis/gokis/pkg/ratelimit"
	"github.com/openkis/gokis/pkg/secretstore"
)

// Client talks to one broker domain (real or virtual) with one app key.
type Client struct {
	cfg  *config.Config
	http *resty.Client

	limiter ratelimit.Limiter
	store   *secretstore.Store
	markets *cache.InMemory[string, types.MarketType]

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	approvalKey string
}

// Option tweaks client construction.
type Option func(*Client)

// WithLimiter overrides the default per-domain rate limiter.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithTokenStore persists issued tokens so restarts do not burn the
// one-token-per-minute issuance budget.
func WithTokenStore(s *secretstore.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithHost points the client at a different REST host.
func WithHost(host string) Option {
	return func(c *Client) { c.http.SetBaseURL(strings.TrimSuffix(host, "/")) }
}

// New builds a client from cfg. The real domain allows 20 requests a
// second, the virtual one only 2.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	host := RealHost
	perSecond := 20
	if cfg.Virtual {
		host = VirtualHost
		perSecond = 2
	}

	rc := resty.New().
		SetBaseURL(host).
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})

	c := &Client{
		cfg:     cfg,
		http:    rc,
		limiter: ratelimit.PerSecond(perSecond),
		markets: cache.New[string, types.MarketType](24 * time.Hour),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil && cfg.TokenStorePath != "" {
		store, err := secretstore.Open(secretstore.OpenOptions{Path: cfg.TokenStorePath})
		if err != nil {
			return nil, errors.Wrap(err, "open token store")
		}
		c.store = store
	}

	logger.WithFields(logrus.Fields{
		"virtual": cfg.Virtual,
		"account": cfg.Account,
	}).Debug("client ready")
	return c, nil
}

// Virtual reports whether the client talks to the paper-trading domain.
func (c *Client) Virtual() bool { return c.cfg.Virtual }

// Account returns the configured account number.
func (c *Client) Account() (types.AccountNumber, error) {
	return types.ParseAccountNumber(c.cfg.Account)
}

// WSHost is the realtime endpoint for this client's domain.
func (c *Client) WSHost() string {
	if c.cfg.Virtual {
		return VirtualWSHost
	}
	return RealWSHost
}

// MarketCache is the symbol-to-market resolution cache.
func (c *Client) MarketCache() *cache.InMemory[string, types.MarketType] {
	return c.markets
}

// Close releases the token store.
func (c *Client) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
