package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/openkis/gokis/pkg/logger"
)

// tokenExpiryMargin renews tokens well before the venue invalidates them.
const tokenExpiryMargin = 10 * time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type approvalResponse struct {
	ApprovalKey string `json:"approval_key"`
}

func (c *Client) tokenStoreKey() string {
	domain := "real"
	if c.cfg.Virtual {
		domain = "virtual"
	}
	return "token:" + domain + ":" + c.cfg.AppKey
}

// AccessToken returns a valid bearer token, issuing one when the cached
// token is missing or near expiry. Issued tokens persist in the token
// store with the venue-reported TTL.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > tokenExpiryMargin {
		return c.accessToken, nil
	}

	if c.store != nil {
		if token, ok, err := c.store.GetString(c.tokenStoreKey()); err == nil && ok {
			c.accessToken = token
			// the store's TTL already subtracted the margin
			c.tokenExpiry = time.Now().Add(tokenExpiryMargin + time.Minute)
			return c.accessToken, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"grant_type": "client_credentials",
			"appkey":     c.cfg.AppKey,
			"appsecret":  c.cfg.AppSecret,
		}).
		Post(PathToken)
	if err != nil {
		return "", errors.Wrap(err, "issue token")
	}
	if resp.IsError() {
		return "", errors.Errorf("issue token: status %d: %s", resp.StatusCode(), resp.String())
	}
	// decode from the raw body: the venue (and proxies in front of it) are
	// not reliable about the JSON content type
	var out tokenResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Wrap(err, "issue token: decode response")
	}
	if out.AccessToken == "" {
		return "", errors.New("issue token: empty access_token")
	}

	c.accessToken = out.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)

	if c.store != nil {
		ttl := time.Duration(out.ExpiresIn)*time.Second - tokenExpiryMargin
		if ttl > 0 {
			if err := c.store.SetString(c.tokenStoreKey(), c.accessToken, ttl); err != nil {
				logger.Warnf("persist token: %v", err)
			}
		}
	}
	logger.Debug("access token issued")
	return c.accessToken, nil
}

// InvalidateToken drops the cached token, forcing reissue on next use.
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.tokenExpiry = time.Time{}
	if c.store != nil {
		if err := c.store.Delete(c.tokenStoreKey()); err != nil {
			logger.Warnf("drop stored token: %v", err)
		}
	}
}

// ApprovalKey returns the realtime-session approval key, requesting one
// on first use.
func (c *Client) ApprovalKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.approvalKey != "" {
		return c.approvalKey, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"grant_type": "client_credentials",
			"appkey":     c.cfg.AppKey,
			"secretkey":  c.cfg.AppSecret,
		}).
		Post(PathApproval)
	if err != nil {
		return "", errors.Wrap(err, "request approval key")
	}
	if resp.IsError() {
		return "", errors.Errorf("request approval key: status %d: %s", resp.StatusCode(), resp.String())
	}
	var out approvalResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Wrap(err, "request approval key: decode response")
	}
	if out.ApprovalKey == "" {
		return "", errors.New("request approval key: empty approval_key")
	}
	c.approvalKey = out.ApprovalKey
	return c.approvalKey, nil
}
