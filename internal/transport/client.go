// Package transport sends one frame per TCP connection and reads a single
// bounded reply.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

// Transport errors. Every failure returned by SendAndReceive wraps exactly one.
var (
	ErrTimeout    = errors.New("stove timeout")
	ErrConnection = errors.New("stove connection error")
)

// Config is the minimal transport config.
type Config struct {
	Host       string
	Port       int
	Timeout    time.Duration
	BufferSize int
}

// Client talks to one stove. It keeps no connection between calls.
type Client struct {
	addr       string
	timeout    time.Duration
	bufferSize int
	dial       func(ctx context.Context, network, addr string) (net.Conn, error)
}

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("transport: host required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("transport: invalid port %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("transport: timeout must be > 0")
	}
	if cfg.BufferSize <= 0 {
		return nil, errors.New("transport: buffer size must be > 0")
	}
	var d net.Dialer
	return &Client{
		addr:       net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		timeout:    cfg.Timeout,
		bufferSize: cfg.BufferSize,
		dial:       d.DialContext,
	}, nil
}

// Addr returns host:port.
func (c *Client) Addr() string { return c.addr }

// SendAndReceive opens a connection, writes frame, performs one read of at
// most BufferSize bytes and closes the connection. Longer replies are
// truncated. A peer that closes without answering yields an empty reply.
// Connect, write and read each get the full timeout, capped by ctx.
func (c *Client) SendAndReceive(ctx context.Context, frame []byte) ([]byte, error) {
	dialCtx, cancel := context.WithDeadline(ctx, c.opDeadline(ctx, time.Now()))
	defer cancel()

	conn, err := c.dial(dialCtx, "tcp", c.addr)
	if err != nil {
		return nil, classify(ctx, "dial", err)
	}
	defer closeConn(conn)

	// unblock pending I/O when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := c.armDeadline(ctx, conn.SetWriteDeadline); err != nil {
		return nil, classify(ctx, "set write deadline", err)
	}
	if _, err := conn.Write(frame); err != nil {
		return nil, classify(ctx, "write", err)
	}

	if err := c.armDeadline(ctx, conn.SetReadDeadline); err != nil {
		return nil, classify(ctx, "set read deadline", err)
	}
	buf := make([]byte, c.bufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, classify(ctx, "read", err)
	}
	return buf[:n], nil
}

// opDeadline is now+timeout, or the ctx deadline when that comes first.
func (c *Client) opDeadline(ctx context.Context, now time.Time) time.Time {
	deadline := now.Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}

// armDeadline sets a fresh per-operation deadline. The ctx check runs after
// the set so a cancel that fired first is not overwritten silently.
func (c *Client) armDeadline(ctx context.Context, set func(time.Time) error) error {
	if err := set(c.opDeadline(ctx, time.Now())); err != nil {
		return err
	}
	return ctx.Err()
}

// closeConn tolerates a connection that is already closed.
func closeConn(conn net.Conn) {
	_ = conn.Close()
}

func classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %s: %w", ErrConnection, op, ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrConnection, op, err)
}
