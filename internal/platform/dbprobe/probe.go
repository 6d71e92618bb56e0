// Package dbprobe checks that a provisioned database accepts authenticated
// connections.
package dbprobe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

// Target identifies a database endpoint and the credentials to log in with.
type Target struct {
	Host     string
	Port     int32
	User     string
	Password string
	Database string
}

// PostgresURL returns a connection URL for t. TLS is preferred but not
// required, matching the RDS default parameter group.
func (t Target) PostgresURL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(t.User, t.Password),
		Host:   net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port))),
		Path:   "/" + t.Database,
	}
	q := url.Values{}
	q.Set("sslmode", "prefer")
	u.RawQuery = q.Encode()
	return u.String()
}

// PingPostgres opens a connection to t, pings it and closes it.
func PingPostgres(ctx context.Context, t Target, timeout time.Duration) error {
	cfg, err := pgx.ParseConfig(t.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to parse connection config: %w", err)
	}
	if timeout > 0 {
		cfg.ConnectTimeout = timeout
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port))), err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping %s: %w", t.Host, err)
	}
	return nil
}
