package client

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/crdtlabs/docsync/internal/breaker"
)

const (
	defaultSyncLoopDuration     = 50 * time.Millisecond
	defaultReconnectStreamDelay = time.Second
	defaultRPCTimeout           = 5 * time.Second
	defaultRetryAttempts        = 3
	defaultRetryBaseDelay       = 100 * time.Millisecond
	defaultRetryMaxDelay        = 2 * time.Second
)

// Options configures a Client.
type Options struct {
	// Key identifies this client to the server. A random UUID is used
	// when empty.
	Key string

	// SyncLoopDuration is the interval between synchronization rounds.
	SyncLoopDuration time.Duration

	// ReconnectStreamDelay is the wait before re-establishing a broken
	// watch stream.
	ReconnectStreamDelay time.Duration

	// RPCTimeout bounds each individual RPC attempt.
	RPCTimeout time.Duration

	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	Logger      *zap.Logger
	Limiter     *rate.Limiter
	Breaker     *breaker.Breaker
	DialOptions []grpc.DialOption
}

// Option mutates Options.
type Option func(*Options)

// WithKey sets the client key presented at activation.
func WithKey(key string) Option {
	return func(o *Options) { o.Key = key }
}

// WithLogger sets the logger used for client events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithSyncLoopDuration sets the interval between synchronization rounds.
func WithSyncLoopDuration(d time.Duration) Option {
	return func(o *Options) { o.SyncLoopDuration = d }
}

// WithReconnectStreamDelay sets the wait before stream reconnects.
func WithReconnectStreamDelay(d time.Duration) Option {
	return func(o *Options) { o.ReconnectStreamDelay = d }
}

// WithRPCTimeout bounds each RPC attempt.
func WithRPCTimeout(d time.Duration) Option {
	return func(o *Options) { o.RPCTimeout = d }
}

// WithRetry configures the retry policy for RPCs.
func WithRetry(attempts int, baseDelay, maxDelay time.Duration) Option {
	return func(o *Options) {
		o.RetryAttempts = attempts
		o.RetryBaseDelay = baseDelay
		o.RetryMaxDelay = maxDelay
	}
}

// WithRateLimit throttles outgoing RPCs to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *Options) { o.Limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithBreaker wraps RPCs in the given circuit breaker.
func WithBreaker(b *breaker.Breaker) Option {
	return func(o *Options) { o.Breaker = b }
}

// WithDialOptions appends grpc dial options for the server connection.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *Options) { o.DialOptions = append(o.DialOptions, opts...) }
}

func buildOptions(opts []Option) Options {
	o := Options{
		SyncLoopDuration:     defaultSyncLoopDuration,
		ReconnectStreamDelay: defaultReconnectStreamDelay,
		RPCTimeout:           defaultRPCTimeout,
		RetryAttempts:        defaultRetryAttempts,
		RetryBaseDelay:       defaultRetryBaseDelay,
		RetryMaxDelay:        defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Key == "" {
		o.Key = uuid.New().String()
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = defaultRetryAttempts
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
