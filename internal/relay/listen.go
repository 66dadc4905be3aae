package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geocards/geocards-api/internal/errors"
)

// DefaultPort is the first port Listen tries
const DefaultPort = 3000

// Listen binds the first free TCP port in [startPort, startPort+attempts).
// Errors other than "address in use" stop the search.
func Listen(startPort, attempts int) (net.Listener, error) {
	if startPort <= 0 || startPort > 65535 {
		return nil, errors.InvalidArgumentf("invalid start port %d", startPort)
	}
	if attempts <= 0 {
		return nil, errors.InvalidArgument("attempts must be positive")
	}

	for port := startPort; port < startPort+attempts && port <= 65535; port++ {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return lis, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, errors.Wrapf(err, "failed to listen on port %d", port)
		}
		slog.Warn("Relay port in use, trying next", "port", port)
	}

	return nil, errors.Unavailable(fmt.Sprintf("no free port in %d..%d", startPort, startPort+attempts-1))
}

// Serve runs hub on lis until ctx is done, then shuts down gracefully
func Serve(ctx context.Context, lis net.Listener, hub *Hub) error {
	g, ctx := errgroup.WithContext(ctx)

	// Peers outlive Shutdown once hijacked, so their request contexts hang
	// off ctx.
	srv := &http.Server{
		Handler:           hub,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	g.Go(func() error {
		slog.Info("Relay listening", "address", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "relay server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
