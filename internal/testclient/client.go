// Package testclient drives a questkeeper server over WebSocket for integration scenarios.
package testclient

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var sessionPattern = regexp.MustCompile(`Session ([0-9a-f-]{36})`)

// TestClient is one scripted session against a running server
type TestClient struct {
	Name      string
	SessionID string
	conn      *websocket.Conn
	messages  []string
	mu        sync.Mutex
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewTestClient dials url (e.g. ws://localhost:4443/ws) and waits for the welcome line.
func NewTestClient(name, url string) (*TestClient, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name:     name,
		conn:     conn,
		messages: make([]string, 0),
	}

	go client.readMessages()

	welcome, ok := client.WaitForMessage("Welcome", 2*time.Second)
	if !ok {
		messages := client.GetMessages()
		client.Close()
		return nil, fmt.Errorf("no welcome from server, messages: %v", messages)
	}
	if m := sessionPattern.FindStringSubmatch(welcome); m != nil {
		client.SessionID = m[1]
	}

	return client, nil
}

// readMessages continuously reads messages from the server
func (c *TestClient) readMessages() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.mu.Lock()
		c.messages = append(c.messages, string(data))
		c.mu.Unlock()
	}
}

// SendCommand sends a command to the server
func (c *TestClient) SendCommand(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(cmd))
}

// Do clears the buffer, sends cmd, and waits for a message containing want
func (c *TestClient) Do(cmd, want string, timeout time.Duration) (string, bool) {
	c.ClearMessages()
	if err := c.SendCommand(cmd); err != nil {
		return "", false
	}
	return c.WaitForMessage(want, timeout)
}

// GetMessages returns a copy of all messages received so far
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

// ClearMessages clears the message buffer
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make([]string, 0)
}

// WaitForMessage waits for a message containing text and returns it
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		for _, msg := range c.GetMessages() {
			if strings.Contains(msg, text) {
				return msg, true
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	return "", false
}

// HasMessage checks if any message contains the specified text
func (c *TestClient) HasMessage(text string) bool {
	for _, msg := range c.GetMessages() {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// Close closes the client connection
func (c *TestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// PrintMessages prints all messages (for debugging)
func (c *TestClient) PrintMessages() {
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range c.GetMessages() {
		fmt.Printf("[%d] %s\n", i, msg)
	}
	fmt.Println("======================")
}
