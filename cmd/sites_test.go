package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetSitesCmd_Exists verifies getSitesCmd returns
// a valid command.
func TestGetSitesCmd_Exists(t *testing.T) {
	cmd := getSitesCmd()
	require.NotNil(t, cmd, "Sites command should exist")
	assert.Equal(t, "sites PROJECT FILE", cmd.Use,
		"Command usage should name all arguments")
}

// TestGetSitesCmd_Descriptions verifies the command
// documentation.
func TestGetSitesCmd_Descriptions(t *testing.T) {
	cmd := getSitesCmd()

	assert.NotEmpty(t, cmd.Short,
		"Short description should not be empty")
	assert.Contains(t, cmd.Short, "sites",
		"Short description should mention sites")

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "Site Code",
		"Long description should mention the site code")
	assert.Contains(t, cmd.Long, "geometry",
		"Long description should mention geometry")
	assert.Contains(t, cmd.Long, "biosys sites",
		"Long description should show usage examples")
}

// TestGetSitesCmd_ArgsValidation verifies exactly two
// arguments are required.
func TestGetSitesCmd_ArgsValidation(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"project"},
		{"project", "sites.csv", "extra"},
	} {
		cmd := getSitesCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)

		err := cmd.Execute()
		assert.Error(t, err,
			"Should reject %d arguments", len(args))
	}
}

// TestGetSitesCmd_NoFlags verifies sites declares no
// command-specific flags.
func TestGetSitesCmd_NoFlags(t *testing.T) {
	cmd := getSitesCmd()

	assert.False(t, cmd.Flags().HasFlags(),
		"Sites should not declare its own flags")
}

// TestGetSitesCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetSitesCmd_IndependentInstances(t *testing.T) {
	cmd1 := getSitesCmd()
	cmd2 := getSitesCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each getSitesCmd call should return new instance")
}
