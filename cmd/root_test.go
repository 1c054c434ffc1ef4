package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCmd_Subcommands verifies registered subcommands.
func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["extract"], "extract should be registered")
	assert.True(t, names["inspect"], "inspect should be registered")
}

// TestRootCmd_VersionFlag verifies -V shorthand.
func TestRootCmd_VersionFlag(t *testing.T) {
	flag := rootCmd.Flags().Lookup("version")
	require.NotNil(t, flag)
	assert.Equal(t, "V", flag.Shorthand)
	assert.Contains(t, rootCmd.Version, "version:")
}

func TestRootCmd_HelpText(t *testing.T) {
	assert.Equal(t, "geofab", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "Geofabric")
	assert.Contains(t, rootCmd.Long, "GEOFAB_")
}

// TestLicenseHeaders verifies command sources carry the project's MIT
// header.
func TestLicenseHeaders(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	files = append(files, filepath.Join("..", "main.go"))

	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		data, err := os.ReadFile(f)
		require.NoError(t, err, f)
		src := string(data)
		assert.True(t, strings.HasPrefix(src, "/*\nCopyright © 2026 tewilkins\n"), f)
		assert.Contains(t, src, "Permission is hereby granted, free of charge", f)
	}
}
