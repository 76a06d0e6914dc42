package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pincode-cli/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"enrich", "inspect"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "pincode-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestEnrichCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"input", "output", "lat-col", "lon-col", "pincode-col", "limit", "checkpoint-every"} {
		flag := enrichCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "enrich should have --%s flag", flagName)
	}

	limit := enrichCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestInspectCommand_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("LAT,LONG,Pincode\n40.0,-73.0,10001\n28.6,77.2,\n"), 0o644))

	cfg = &config.Config{Columns: config.ColumnsConfig{Lat: "LAT", Lon: "LONG", Code: "Pincode"}}
	inspectInput = path
	t.Cleanup(func() { inspectInput = "" })

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	require.NoError(t, inspectCmd.RunE(inspectCmd, nil))

	assert.Contains(t, out.String(), "Rows:    2")
	assert.Contains(t, out.String(), "Pincodes filled: 1")
	assert.Contains(t, out.String(), "Pincodes blank:  1")
}
