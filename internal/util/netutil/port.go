package netutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/imamik/dbprov/internal/util/retry"
)

// DialTimeout bounds a single connection attempt.
const DialTimeout = 2 * time.Second

// WaitForPort waits for a TCP port to accept connections on host, checking
// every interval until timeout. Progress is reported through logger.
func WaitForPort(ctx context.Context, host string, port int, interval, timeout time.Duration, logger retry.Logger) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: DialTimeout}

	_, err := retry.Poll(ctx, retry.Policy{
		Description:   fmt.Sprintf("%s to accept connections", address),
		RetryInterval: interval,
		LogInterval:   4 * interval,
		Timeout:       timeout,
	}, func(ctx context.Context) (struct{}, error) {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return struct{}{}, err
		}
		_ = conn.Close()
		return struct{}{}, nil
	}, retry.WithLogger(logger))
	return err
}
