// Package client connects to a docsync server and manages the activation
// lifecycle of a synchronization client.
package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	stdtime "time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/crdtlabs/docsync/api"
	"github.com/crdtlabs/docsync/document/time"
	"github.com/crdtlabs/docsync/internal/breaker"
	"github.com/crdtlabs/docsync/internal/observability"
)

// ErrExhaustedRetries wraps the last RPC error after the retry budget
// runs out.
var ErrExhaustedRetries = errors.New("exhausted retries")

type clientStatus int

const (
	statusDeactivated clientStatus = iota
	statusActivated
)

// Client talks to a docsync server. It is safe for concurrent use.
type Client struct {
	conn    *grpc.ClientConn
	service api.DocSyncServiceClient
	opts    Options
	logger  *zap.Logger

	mu     sync.Mutex
	status clientStatus
	id     *time.ActorID
}

// Dial connects to the docsync server at addr. The connection is lazy;
// failures surface on the first RPC.
func Dial(addr string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, o.DialOptions...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{
		conn:    conn,
		service: api.NewDocSyncServiceClient(conn),
		opts:    o,
		logger:  o.Logger.With(zap.String("client_key", o.Key)),
	}, nil
}

// Activate registers this client with the server and stores the actor id
// the server assigns. Calling Activate on an activated client is a no-op.
func (c *Client) Activate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == statusActivated {
		return nil
	}

	var resp *api.ActivateClientResponse
	err := c.invoke(ctx, "ActivateClient", func(ctx context.Context) error {
		var err error
		resp, err = c.service.ActivateClient(ctx, &api.ActivateClientRequest{
			ClientKey: c.opts.Key,
		})
		return err
	})
	if err != nil {
		return err
	}

	id, err := time.ActorIDFromBytes(resp.ClientId)
	if err != nil {
		return fmt.Errorf("parse client id: %w", err)
	}

	c.status = statusActivated
	c.id = &id
	observability.ClientActivated()
	c.logger.Debug("client activated", zap.String("client_id", id.String()))
	return nil
}

// Deactivate unregisters this client from the server. Calling Deactivate
// on a deactivated client is a no-op.
func (c *Client) Deactivate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == statusDeactivated {
		return nil
	}

	err := c.invoke(ctx, "DeactivateClient", func(ctx context.Context) error {
		_, err := c.service.DeactivateClient(ctx, &api.DeactivateClientRequest{
			ClientId: c.id.Bytes(),
		})
		return err
	})
	if err != nil {
		return err
	}

	c.status = statusDeactivated
	c.id = nil
	observability.ClientDeactivated()
	c.logger.Debug("client deactivated")
	return nil
}

// IsActive reports whether the client has been activated.
func (c *Client) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == statusActivated
}

// ID returns the actor id assigned at activation, or nil before it.
func (c *Client) ID() *time.ActorID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Key returns the client key presented to the server.
func (c *Client) Key() string {
	return c.opts.Key
}

// Options returns a copy of the effective options.
func (c *Client) Options() Options {
	return c.opts
}

// Close releases the server connection. An activated client should be
// deactivated first.
func (c *Client) Close() error {
	return c.conn.Close()
}

// invoke runs one RPC under the rate limiter, circuit breaker and retry
// policy, recording metrics per attempt.
func (c *Client) invoke(ctx context.Context, method string, call func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			observability.RecordRPCRetry()
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-stdtime.After(delay):
			}
		}

		err := c.attempt(ctx, method, call)
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("%s: %w: %w", method, ErrExhaustedRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, method string, call func(context.Context) error) error {
	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	run := func() error {
		rpcCtx, cancel := context.WithTimeout(ctx, c.opts.RPCTimeout)
		defer cancel()

		start := stdtime.Now()
		err := call(rpcCtx)
		duration := stdtime.Since(start)

		if err != nil {
			observability.RecordRPC(method, "error", duration)
			c.logger.Debug("rpc failed",
				zap.String("method", method),
				zap.Duration("duration", duration),
				zap.Error(err))
			return err
		}
		observability.RecordRPC(method, "ok", duration)
		return nil
	}

	if c.opts.Breaker == nil {
		return run()
	}
	err := c.opts.Breaker.Do(run)
	if errors.Is(err, breaker.ErrOpen) {
		observability.RecordBreakerOpen()
	}
	return err
}

func (c *Client) calculateBackoff(attempt int) stdtime.Duration {
	delay := float64(c.opts.RetryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.opts.RetryMaxDelay) {
		delay = float64(c.opts.RetryMaxDelay)
	}
	jitter := delay * 0.1 * rand.Float64()
	return stdtime.Duration(delay + jitter)
}

// isRetryable reports whether an RPC error is worth another attempt.
// Transport hiccups and timeouts are; invalid arguments, client-side
// misuse and an open breaker are not.
func isRetryable(err error) bool {
	if errors.Is(err, breaker.ErrOpen) {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return true
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	default:
		return false
	}
}
