package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SubscribeTimeout bounds the wait for a subscription confirmation.
	SubscribeTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		WriteTimeout:      10 * time.Second,
		SubscribeTimeout:  15 * time.Second,
	}
}

// AccountUpdate is a lamports-change notification for a watched account.
type AccountUpdate struct {
	Address  string
	Lamports uint64
}

// WSClient streams account balance changes over the Solana WebSocket
// API (accountSubscribe). It reconnects and resubscribes on connection
// loss.
type WSClient struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// reconnecting guards against concurrent reconnect attempts
	reconnecting atomic.Bool

	// subs maps subscription ID to the consumer channel
	subs   map[int64]chan AccountUpdate
	subsMu sync.RWMutex

	// watched maps subscription ID to address for resubscription
	watched   map[int64]string
	watchedMu sync.RWMutex

	// pending maps request ID to channel waiting for subscription ID
	pending   map[uint64]chan int64
	pendingMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSClient connects to the endpoint and starts the read and ping
// loops.
func NewWSClient(ctx context.Context, endpoint string, config *WSClientConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSClient{
		endpoint: endpoint,
		config:   cfg,
		subs:     make(map[int64]chan AccountUpdate),
		watched:  make(map[int64]string),
		pending:  make(map[uint64]chan int64),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()

	return c, nil
}

func (c *WSClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("client closed")
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn
	return nil
}

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Method string          `json:"method"`
	Params *struct {
		Subscription int64 `json:"subscription"`
		Result       struct {
			Value struct {
				Lamports uint64 `json:"lamports"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// SubscribeAccount subscribes to lamports changes for an address.
func (c *WSClient) SubscribeAccount(ctx context.Context, address string) (<-chan AccountUpdate, error) {
	subID, err := c.subscribe(ctx, address)
	if err != nil {
		return nil, err
	}

	ch := make(chan AccountUpdate, 64)
	c.subsMu.Lock()
	c.subs[subID] = ch
	c.subsMu.Unlock()

	c.watchedMu.Lock()
	c.watched[subID] = address
	c.watchedMu.Unlock()

	return ch, nil
}

func (c *WSClient) subscribe(ctx context.Context, address string) (int64, error) {
	if c.closed.Load() {
		return 0, fmt.Errorf("client closed")
	}

	reqID := c.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "accountSubscribe",
		Params: []interface{}{
			address,
			map[string]string{"encoding": "base64", "commitment": "confirmed"},
		},
	}

	confirmCh := make(chan int64, 1)
	c.pendingMu.Lock()
	c.pending[reqID] = confirmCh
	c.pendingMu.Unlock()

	cleanup := func() {
		c.pendingMu.Lock()
		delete(c.pending, reqID)
		c.pendingMu.Unlock()
	}

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		cleanup()
		return 0, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()
	if err != nil {
		cleanup()
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case subID := <-confirmCh:
		return subID, nil
	case <-time.After(c.config.SubscribeTimeout):
		cleanup()
		return 0, fmt.Errorf("subscription confirmation timeout")
	case <-c.done:
		return 0, fmt.Errorf("client closed")
	case <-ctx.Done():
		cleanup()
		return 0, ctx.Err()
	}
}

func (c *WSClient) readLoop() {
	defer c.wg.Done()

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		// Reconnect in progress; keep looping so confirmations are
		// read as soon as the connection is back.
		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.connMu.Unlock()
			if !c.reconnecting.Swap(true) {
				go c.reconnect()
			}
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg []byte) {
	var m wsMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return
	}

	// Subscription confirmation: result carries the subscription ID.
	if m.ID != 0 && m.Result != nil {
		var subID int64
		if err := json.Unmarshal(m.Result, &subID); err != nil {
			return
		}
		c.pendingMu.Lock()
		if ch, ok := c.pending[m.ID]; ok {
			ch <- subID
			delete(c.pending, m.ID)
		}
		c.pendingMu.Unlock()
		return
	}

	if m.Method != "accountNotification" || m.Params == nil {
		return
	}

	c.watchedMu.RLock()
	address := c.watched[m.Params.Subscription]
	c.watchedMu.RUnlock()

	c.subsMu.RLock()
	ch, ok := c.subs[m.Params.Subscription]
	c.subsMu.RUnlock()
	if !ok {
		return
	}

	update := AccountUpdate{
		Address:  address,
		Lamports: m.Params.Result.Value.Lamports,
	}
	// Drop on a full consumer rather than stalling the read loop;
	// balances are last-value-wins.
	select {
	case ch <- update:
	default:
	}
}

// reconnect re-establishes the connection with exponential backoff,
// then resubscribes every watched account. Runs in its own goroutine
// so the read loop stays free to deliver confirmations.
func (c *WSClient) reconnect() {
	defer c.reconnecting.Store(false)

	delay := c.config.ReconnectDelay

	for {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := c.connect(ctx)
		cancel()
		if err != nil {
			delay *= 2
			if delay > c.config.MaxReconnectDelay {
				delay = c.config.MaxReconnectDelay
			}
			continue
		}

		c.resubscribeAll()
		return
	}
}

func (c *WSClient) resubscribeAll() {
	c.watchedMu.Lock()
	old := c.watched
	c.watched = make(map[int64]string)
	c.watchedMu.Unlock()

	c.subsMu.Lock()
	channels := make(map[string]chan AccountUpdate, len(old))
	for subID, address := range old {
		if ch, ok := c.subs[subID]; ok {
			channels[address] = ch
		}
		delete(c.subs, subID)
	}
	c.subsMu.Unlock()

	for address, ch := range channels {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.SubscribeTimeout)
		subID, err := c.subscribe(ctx, address)
		cancel()
		if err != nil {
			close(ch)
			continue
		}

		c.subsMu.Lock()
		c.subs[subID] = ch
		c.subsMu.Unlock()

		c.watchedMu.Lock()
		c.watched[subID] = address
		c.watchedMu.Unlock()
	}
}

func (c *WSClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

// Close shuts down the client and all subscription channels.
func (c *WSClient) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	c.wg.Wait()

	c.subsMu.Lock()
	for subID, ch := range c.subs {
		close(ch)
		delete(c.subs, subID)
	}
	c.subsMu.Unlock()
	return nil
}
