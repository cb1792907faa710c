package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const defaultClientTimeout = 30 * time.Second

// RemoteError is an error response from the session server
type RemoteError struct {
	Reason  string
	Details string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Details)
}

// Client talks to a session server over one connection. Requests are sent one at a time and
// paced below the server's per-connection limit.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	limiter *rate.Limiter
	timeout time.Duration
	nextID  int
}

// Dial connects to the websocket endpoint at url, e.g. ws://localhost:8765/ws
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Client{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(5), 5), // 5 msg/sec, burst 5
		timeout: defaultClientTimeout,
	}, nil
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Send delivers msg and waits for its response. An error response becomes a *RemoteError.
func (c *Client) Send(ctx context.Context, msg Message) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	msg.ID = strconv.Itoa(c.nextID)
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", msg.Action, err)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	var resp Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", msg.Action, err)
	}
	if resp.ID != msg.ID {
		return nil, fmt.Errorf("response %s does not answer request %s", resp.ID, msg.ID)
	}
	if resp.Status == "error" {
		return &resp, &RemoteError{Reason: resp.Error, Details: resp.Details}
	}
	return &resp, nil
}

// NewSession creates a session holding config, or an empty one when config is nil
func (c *Client) NewSession(ctx context.Context, name string, config []byte) (*Response, error) {
	return c.Send(ctx, Message{Action: ActionNewSession, Name: name, JSONData: json.RawMessage(config)})
}

// Exec runs one command line on a session
func (c *Client) Exec(ctx context.Context, sessionID, line string) (*Response, error) {
	return c.Send(ctx, Message{Action: ActionTextCommand, SessionID: sessionID, Command: line})
}

func (c *Client) LoadSession(ctx context.Context, sessionID string) (*Response, error) {
	return c.Send(ctx, Message{Action: ActionLoadSession, SessionID: sessionID})
}
