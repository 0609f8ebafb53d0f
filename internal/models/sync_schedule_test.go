package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSyncType(t *testing.T) {
	for _, valid := range []string{"inventory", "pricing", "products", "full"} {
		got, err := ParseSyncType(valid)
		require.NoError(t, err)
		assert.Equal(t, SyncType(valid), got)
	}

	// Job-only types are not valid schedule types.
	for _, invalid := range []string{"vehicles", "compatibility", "", "Full", "everything"} {
		_, err := ParseSyncType(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParseSyncFrequency(t *testing.T) {
	for _, valid := range []string{"hourly", "daily", "weekly", "manual"} {
		got, err := ParseSyncFrequency(valid)
		require.NoError(t, err)
		assert.Equal(t, SyncFrequency(valid), got)
	}

	_, err := ParseSyncFrequency("fortnightly")
	assert.Error(t, err)
}

func TestSyncSettingsValidateAppliesDefaults(t *testing.T) {
	s := SyncSettings{}
	require.NoError(t, s.Validate())

	assert.Equal(t, 50, s.MaxNewProducts)
	assert.Equal(t, 100, s.CompatibilityLimit)
	assert.Zero(t, s.DefaultMarkup)
}

func TestSyncSettingsValidateRejectsNegatives(t *testing.T) {
	assert.Error(t, (&SyncSettings{MaxNewProducts: -1}).Validate())
	assert.Error(t, (&SyncSettings{DefaultMarkup: -0.5}).Validate())
	assert.Error(t, (&SyncSettings{CompatibilityLimit: -10}).Validate())
}

func TestSyncSettingsValidateKeepsExplicitValues(t *testing.T) {
	s := SyncSettings{MaxNewProducts: 5, DefaultMarkup: 35, CompatibilityLimit: 10}
	require.NoError(t, s.Validate())

	assert.Equal(t, 5, s.MaxNewProducts)
	assert.Equal(t, 35.0, s.DefaultMarkup)
	assert.Equal(t, 10, s.CompatibilityLimit)
}
