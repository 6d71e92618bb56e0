package dbprobe

import (
	"context"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget_PostgresURL(t *testing.T) {
	t.Parallel()

	target := Target{
		Host:     "db-1.cluster-abc.us-east-1.rds.amazonaws.com",
		Port:     5432,
		User:     "dbprov",
		Password: "p@ss/word",
		Database: "dbprov",
	}

	u, err := url.Parse(target.PostgresURL())
	require.NoError(t, err)

	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db-1.cluster-abc.us-east-1.rds.amazonaws.com:5432", u.Host)
	assert.Equal(t, "dbprov", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss/word", pw, "password must survive escaping")
	assert.Equal(t, "/dbprov", u.Path)
	assert.Equal(t, "prefer", u.Query().Get("sslmode"))
}

func TestPingPostgres_Refused(t *testing.T) {
	t.Parallel()

	// Reserve a port, then close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	err = PingPostgres(context.Background(), Target{
		Host:     "127.0.0.1",
		Port:     int32(addr.Port),
		User:     "dbprov",
		Password: "secret",
		Database: "dbprov",
	}, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}
