package ws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/openkis/gokis/kis/client"
	"github.com/openkis/gokis/pkg/logger"
)

// PriceHandler receives every decoded execution tick.
type PriceHandler func(RealtimePrice)

// Client maintains one realtime session: connect with an approval key,
// subscribe per symbol, decode data frames and reconnect with
// resubscription when the socket drops.
type Client struct {
	api    *client.Client
	url    string
	config *Config

	conn        *websocket.Conn
	approvalKey string
	connMu      sync.Mutex

	running   bool
	runningMu sync.RWMutex

	subscriptions map[string]bool
	subMu         sync.RWMutex

	priceHandler PriceHandler

	priceChan chan RealtimePrice
	errChan   chan error

	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
	doneCh chan struct{}

	reconnectAttempts int
	reconnectMu       sync.Mutex
}

// NewClient builds a realtime client on top of the REST client, which
// supplies the approval key and the domain's endpoint.
func NewClient(api *client.Client, handler PriceHandler, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		api:           api,
		url:           api.WSHost(),
		config:        config,
		subscriptions: make(map[string]bool),
		priceHandler:  handler,
		priceChan:     make(chan RealtimePrice, config.MessageBufferSize),
		errChan:       make(chan error, config.ErrorBufferSize),
		ctx:           ctx,
		cancel:        cancel,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start connects and launches the read and keepalive loops.
func (c *Client) Start(ctx context.Context) error {
	c.runningMu.Lock()
	if c.running {
		c.runningMu.Unlock()
		return errors.New("realtime client already running")
	}
	c.running = true
	c.runningMu.Unlock()

	if ctx != nil {
		c.ctx = ctx
	}

	if err := c.connect(); err != nil {
		c.runningMu.Lock()
		c.running = false
		c.runningMu.Unlock()
		return errors.Wrap(err, "realtime connect")
	}

	go c.readLoop()
	go c.pingLoop()

	logger.Infof("realtime session started: %s", c.url)
	return nil
}

// Stop closes the session and waits for the read loop to drain.
func (c *Client) Stop() {
	c.runningMu.Lock()
	if !c.running {
		c.runningMu.Unlock()
		return
	}
	c.running = false
	c.runningMu.Unlock()

	c.cancel()
	close(c.stopCh)

	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	select {
	case <-c.doneCh:
	case <-time.After(5 * time.Second):
		logger.Warn("realtime shutdown timed out")
	}
}

// IsRunning reports whether the session is live.
func (c *Client) IsRunning() bool {
	c.runningMu.RLock()
	defer c.runningMu.RUnlock()
	return c.running
}

// Prices is the decoded tick stream.
func (c *Client) Prices() <-chan RealtimePrice { return c.priceChan }

// Errors is the asynchronous error stream.
func (c *Client) Errors() <-chan error { return c.errChan }

// Subscribe opens the execution stream for each symbol not yet watched.
func (c *Client) Subscribe(symbols ...string) error {
	c.subMu.Lock()
	fresh := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if !c.subscriptions[s] {
			c.subscriptions[s] = true
			fresh = append(fresh, s)
		}
	}
	c.subMu.Unlock()

	for _, s := range fresh {
		if err := c.sendSubscription(s, true); err != nil {
			return err
		}
	}
	return nil
}

// Unsubscribe closes the stream for each watched symbol.
func (c *Client) Unsubscribe(symbols ...string) error {
	c.subMu.Lock()
	watched := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if c.subscriptions[s] {
			delete(c.subscriptions, s)
			watched = append(watched, s)
		}
	}
	c.subMu.Unlock()

	for _, s := range watched {
		if err := c.sendSubscription(s, false); err != nil {
			return err
		}
	}
	return nil
}

// SubscriptionCount returns the number of watched symbols.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

func (c *Client) connect() error {
	approvalKey, err := c.api.ApprovalKey(c.ctx)
	if err != nil {
		return err
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(c.ctx, c.url+"/tryitout/"+client.TrRealtimePrice, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	c.approvalKey = approvalKey

	c.reconnectMu.Lock()
	c.reconnectAttempts = 0
	c.reconnectMu.Unlock()
	return nil
}

func (c *Client) sendSubscription(symbol string, subscribe bool) error {
	trType := "1"
	if !subscribe {
		trType = "2"
	}
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return errors.New("not connected")
	}

	req := subscribeRequest{
		Header: subscribeHeader{
			ApprovalKey: c.approvalKey,
			CustType:    "P",
			TrType:      trType,
			ContentType: "utf-8",
		},
		Body: subscribeBody{Input: subscribeInput{
			TrID:  client.TrRealtimePrice,
			TrKey: symbol,
		}},
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return errors.Wrapf(err, "subscribe %s", symbol)
	}
	logger.Debugf("subscription request sent: %s tr_type=%s", symbol, trType)
	return nil
}

func (c *Client) resubscribe() error {
	c.subMu.RLock()
	symbols := make([]string, 0, len(c.subscriptions))
	for s := range c.subscriptions {
		symbols = append(symbols, s)
	}
	c.subMu.RUnlock()

	for _, s := range symbols {
		if err := c.sendSubscription(s, true); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.doneCh)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			if c.config.ReconnectEnabled {
				c.reconnect()
			}
			time.Sleep(time.Second)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.connMu.Lock()
			if c.conn != nil {
				_ = c.conn.Close()
				c.conn = nil
			}
			c.connMu.Unlock()

			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			logger.Warnf("realtime read: %v", err)
			if c.config.ReconnectEnabled {
				c.reconnect()
			} else {
				time.Sleep(time.Second)
			}
			continue
		}
		c.handleMessage(message)
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()
			if conn == nil {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warnf("realtime ping: %v", err)
				if c.config.ReconnectEnabled {
					c.reconnect()
				}
			}
		}
	}
}

func (c *Client) reconnect() {
	c.reconnectMu.Lock()
	c.reconnectAttempts++
	attempts := c.reconnectAttempts
	c.reconnectMu.Unlock()

	if attempts > c.config.MaxReconnectAttempts {
		c.pushError(errors.Errorf("gave up after %d reconnect attempts", c.config.MaxReconnectAttempts))
		return
	}

	delay := c.config.ReconnectDelay * time.Duration(attempts)
	if delay > c.config.MaxReconnectDelay {
		delay = c.config.MaxReconnectDelay
	}
	logger.Infof("realtime reconnect in %v (attempt %d/%d)", delay, attempts, c.config.MaxReconnectAttempts)

	select {
	case <-c.ctx.Done():
		return
	case <-c.stopCh:
		return
	case <-time.After(delay):
	}

	if err := c.connect(); err != nil {
		logger.Warnf("realtime reconnect: %v", err)
		return
	}
	if err := c.resubscribe(); err != nil {
		logger.Warnf("realtime resubscribe: %v", err)
	}
}

// handleMessage routes one wire message: JSON frames are control
// traffic, anything else is a pipe-delimited data frame.
func (c *Client) handleMessage(data []byte) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return
	}
	if trimmed[0] == '{' {
		c.handleControl([]byte(trimmed))
		return
	}

	frame, err := parseDataFrame(trimmed)
	if err != nil {
		c.pushError(err)
		return
	}
	if frame.encrypted {
		c.pushError(errors.Errorf("encrypted %s frame not supported", frame.trID))
		return
	}
	if frame.trID != client.TrRealtimePrice {
		logger.Debugf("ignoring %s frame", frame.trID)
		return
	}

	prices, err := parseRealtimePrices(frame, time.Now())
	if err != nil {
		c.pushError(err)
		return
	}
	for _, p := range prices {
		select {
		case c.priceChan <- p:
		default:
			c.pushError(errors.Errorf("price channel full, dropping %s tick", p.Symbol))
		}
		if c.priceHandler != nil {
			c.priceHandler(p)
		}
	}
}

// handleControl answers keepalives and surfaces subscription failures.
func (c *Client) handleControl(data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.pushError(errors.Wrap(err, "decode control message"))
		return
	}
	switch {
	case msg.Header.TrID == "PINGPONG":
		// the venue expects its keepalive echoed back verbatim
		c.connMu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteMessage(websocket.TextMessage, data)
		}
		c.connMu.Unlock()
	case msg.Body.RtCd != "" && msg.Body.RtCd != "0":
		c.pushError(errors.Errorf("subscription %s failed: %s (%s)",
			msg.Header.TrKey, msg.Body.Msg1, msg.Body.MsgCd))
	default:
		logger.Debugf("control ack: %s %s", msg.Header.TrID, msg.Body.MsgCd)
	}
}

func (c *Client) pushError(err error) {
	select {
	case c.errChan <- err:
	default:
	}
}
