package handlers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning/destroy"
)

func TestResolveFormat(t *testing.T) {
	origTTY := isInteractiveTTY
	t.Cleanup(func() { isInteractiveTTY = origTTY })

	tests := []struct {
		name    string
		output  string
		tty     bool
		want    string
		wantErr bool
	}{
		{name: "tty default", output: "", tty: true, want: OutputTable},
		{name: "pipe default", output: "", tty: false, want: OutputJSON},
		{name: "explicit yaml", output: "yaml", tty: true, want: OutputYAML},
		{name: "explicit table on pipe", output: "table", tty: false, want: OutputTable},
		{name: "unknown", output: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isInteractiveTTY = func() bool { return tt.tty }
			got, err := resolveFormat(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderClusters(t *testing.T) {
	t.Parallel()
	clusters := []*rds.Cluster{{
		Identifier:     "db-1",
		Status:         rds.StatusAvailable,
		Engine:         "postgres",
		EngineVersion:  "16.4",
		Endpoint:       "db-1.example",
		Port:           5432,
		MasterUsername: "dbadmin",
		MasterPassword: "secret-password",
	}}

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, renderClusters(&buf, clusters, OutputTable))
		out := buf.String()
		assert.Contains(t, out, "db-1")
		assert.Contains(t, out, "available")
		assert.Contains(t, out, "postgres 16.4")
		assert.Contains(t, out, "db-1.example:5432")
		assert.NotContains(t, out, "secret-password")
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, renderClusters(&buf, clusters, OutputYAML))
		assert.Contains(t, buf.String(), "master_password: secret-password")

		var decoded []rds.Cluster
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "db-1", decoded[0].Identifier)
		assert.Equal(t, "db-1.example", decoded[0].Endpoint)
	})
}

func TestRenderResults(t *testing.T) {
	t.Parallel()
	results := []destroy.Result{
		{Kind: destroy.KindCluster, Identifier: "db-1", Outcome: destroy.OutcomeDeleted},
		{Kind: destroy.KindSubnetGroup, Identifier: "dbprov-subnets", Outcome: destroy.OutcomeInvalidState, Err: errors.New("in use")},
	}

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, results, OutputTable))
		out := buf.String()
		assert.Contains(t, out, "dbprov-subnets")
		assert.Contains(t, out, "in use")
		assert.Contains(t, out, "1 deleted, 1 invalid-state")
	})

	t.Run("empty json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, nil, OutputJSON))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, nil, OutputTable))
		assert.Contains(t, buf.String(), "nothing to delete")
	})
}
