package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrdinaryText(t *testing.T) {
	stdout, _, err := execute(t, "resolve", "America/Los_Angeles", "2015-07-15 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles 2015-07-15 12:00:00 = 2015-07-15T19:00:00Z\n", stdout)
}

func TestResolveOrdinaryJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "resolve", "America/Los_Angeles", "2015-07-15 12:00:00")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", data["zone"])
	assert.Equal(t, "ordinary", data["classification"])
	assert.Equal(t, "2015-07-15T19:00:00Z", data["instant"])
}

func TestResolveAmbiguousListsBothOccurrences(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "resolve", "America/Los_Angeles", "2015-11-01 01:30:00")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ambiguous", data["classification"])
	assert.Equal(t, "2015-11-01T08:30:00Z", data["first_occurrence"])
	assert.Equal(t, "2015-11-01T09:30:00Z", data["second_occurrence"])
}

func TestResolveNonexistentFails(t *testing.T) {
	stdout, _, err := execute(t, "resolve", "America/Los_Angeles", "2005-04-03 02:14:00")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "does not exist in America/Los_Angeles")
}

func TestResolveUnknownZone(t *testing.T) {
	_, _, err := execute(t, "resolve", "Atlantis/Lost", "2015-07-15 12:00:00")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveBadDateTime(t *testing.T) {
	_, _, err := execute(t, "resolve", "UTC", "yesterday at noon")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveZoneFromRuleFile(t *testing.T) {
	stdout, _, err := execute(t, "resolve",
		filepath.Join("testdata", "zone_synthetic.yaml"), "2015-07-15 12:00:00")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test/Synthetic 2015-07-15 12:00:00 = 2015-07-15T19:00:00Z")
}
