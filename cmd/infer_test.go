package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetInferCmd_Exists verifies getInferCmd returns
// a valid command.
func TestGetInferCmd_Exists(t *testing.T) {
	cmd := getInferCmd()
	require.NotNil(t, cmd, "Infer command should exist")
	assert.Equal(t, "infer FILE", cmd.Use,
		"Command usage should name the file argument")
}

// TestGetInferCmd_Descriptions verifies the command
// documentation.
func TestGetInferCmd_Descriptions(t *testing.T) {
	cmd := getInferCmd()

	assert.NotEmpty(t, cmd.Short,
		"Short description should not be empty")
	assert.Contains(t, cmd.Short, "schema",
		"Short description should mention schema")

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "CSV or XLSX",
		"Long description should mention supported formats")
	assert.Contains(t, cmd.Long, "species_observation",
		"Long description should mention dataset types")
	assert.Contains(t, cmd.Long, "biosys infer",
		"Long description should show usage examples")
}

// TestGetInferCmd_ArgsValidation verifies exactly one
// argument is required.
func TestGetInferCmd_ArgsValidation(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"a.csv", "b.csv"},
	} {
		cmd := getInferCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)

		err := cmd.Execute()
		assert.Error(t, err,
			"Should reject %d arguments", len(args))
	}
}

// TestGetInferCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetInferCmd_IndependentInstances(t *testing.T) {
	cmd1 := getInferCmd()
	cmd2 := getInferCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each getInferCmd call should return new instance")
}
