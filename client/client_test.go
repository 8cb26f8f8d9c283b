package client_test

import (
	"context"
	"crypto/rand"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/crdtlabs/docsync/api"
	"github.com/crdtlabs/docsync/client"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubServer implements DocSyncService in-process. It assigns a random
// actor id per activated key and tracks live clients.
type stubServer struct {
	mu       sync.Mutex
	clients  map[string][]byte
	failures int
}

func newStubServer() *stubServer {
	return &stubServer{clients: make(map[string][]byte)}
}

func (s *stubServer) ActivateClient(ctx context.Context, req *api.ActivateClientRequest) (*api.ActivateClientResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		return nil, status.Error(codes.Unavailable, "try again")
	}
	if req.ClientKey == "rejected" {
		return nil, status.Error(codes.InvalidArgument, "client key is not allowed")
	}

	id, ok := s.clients[req.ClientKey]
	if !ok {
		id = make([]byte, 12)
		if _, err := rand.Read(id); err != nil {
			return nil, status.Error(codes.Internal, "generate id")
		}
		s.clients[req.ClientKey] = id
	}
	return &api.ActivateClientResponse{ClientKey: req.ClientKey, ClientId: id}, nil
}

func (s *stubServer) DeactivateClient(ctx context.Context, req *api.DeactivateClientRequest) (*api.DeactivateClientResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, id := range s.clients {
		if string(id) == string(req.ClientId) {
			delete(s.clients, key)
			return &api.DeactivateClientResponse{ClientId: req.ClientId}, nil
		}
	}
	return nil, status.Error(codes.NotFound, "client not found")
}

// startServer runs a stub docsync server on an in-memory listener and
// returns a dial option routing connections to it.
func startServer(t *testing.T, stub *stubServer) grpc.DialOption {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	api.RegisterDocSyncServiceServer(srv, stub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(lis)
	}()
	t.Cleanup(func() {
		srv.Stop()
		<-done
	})

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestClient_ActivateDeactivate(t *testing.T) {
	stub := newStubServer()
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn", client.WithKey("c1"), client.WithDialOptions(dialer))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	assert.False(t, c.IsActive())
	assert.Nil(t, c.ID())

	require.NoError(t, c.Activate(ctx))
	assert.True(t, c.IsActive())
	require.NotNil(t, c.ID())
	assert.Len(t, c.ID().Bytes(), 12)

	// Activating twice keeps the same id.
	id := c.ID().String()
	require.NoError(t, c.Activate(ctx))
	assert.Equal(t, id, c.ID().String())

	require.NoError(t, c.Deactivate(ctx))
	assert.False(t, c.IsActive())

	// Deactivating twice is a no-op.
	require.NoError(t, c.Deactivate(ctx))
}

func TestClient_Activate_RetriesUnavailable(t *testing.T) {
	stub := newStubServer()
	stub.failures = 2
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn",
		client.WithKey("c1"),
		client.WithDialOptions(dialer),
		client.WithRetry(3, time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Activate(context.Background()))
	assert.True(t, c.IsActive())
}

func TestClient_Activate_ExhaustsRetries(t *testing.T) {
	stub := newStubServer()
	stub.failures = 10
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn",
		client.WithKey("c1"),
		client.WithDialOptions(dialer),
		client.WithRetry(2, time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	err = c.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrExhaustedRetries))
	assert.False(t, c.IsActive())
}

func TestClient_Activate_DoesNotRetryInvalidArgument(t *testing.T) {
	stub := newStubServer()
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn",
		client.WithKey("rejected"),
		client.WithDialOptions(dialer),
		client.WithRetry(3, time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	err = c.Activate(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, client.ErrExhaustedRetries),
		"an invalid argument should fail immediately without retries")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestClient_DefaultOptions(t *testing.T) {
	stub := newStubServer()
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn", client.WithDialOptions(dialer))
	require.NoError(t, err)
	defer c.Close()

	assert.NotEmpty(t, c.Key(), "a client key should be generated when none is given")
	assert.Equal(t, 50*time.Millisecond, c.Options().SyncLoopDuration)
	assert.Equal(t, time.Second, c.Options().ReconnectStreamDelay)
}

func TestClient_NonPositiveRetryAttemptsFallBack(t *testing.T) {
	stub := newStubServer()
	dialer := startServer(t, stub)

	c, err := client.Dial("passthrough:///bufconn",
		client.WithKey("c1"),
		client.WithDialOptions(dialer),
		client.WithRetry(0, time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 3, c.Options().RetryAttempts)
	require.NoError(t, c.Activate(context.Background()))
}

func TestClient_TwoClientsGetDistinctIDs(t *testing.T) {
	stub := newStubServer()
	dialer := startServer(t, stub)

	ctx := context.Background()

	c1, err := client.Dial("passthrough:///bufconn", client.WithKey("c1"), client.WithDialOptions(dialer))
	require.NoError(t, err)
	defer c1.Close()
	c2, err := client.Dial("passthrough:///bufconn", client.WithKey("c2"), client.WithDialOptions(dialer))
	require.NoError(t, err)
	defer c2.Close()

	require.NoError(t, c1.Activate(ctx))
	require.NoError(t, c2.Activate(ctx))
	defer func() {
		require.NoError(t, c1.Deactivate(ctx))
		require.NoError(t, c2.Deactivate(ctx))
	}()

	assert.NotEqual(t, c1.ID().String(), c2.ID().String())
}
