package radar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/radar/internal/radar"
)

func TestParseProtocol_AllKnown(t *testing.T) {
	for _, p := range radar.Protocols {
		got, err := radar.ParseProtocol(string(p))
		require.NoError(t, err, "protocol %q should parse", p)
		assert.Equal(t, p, got)
		assert.True(t, got.Valid())
	}
}

func TestParseProtocol_Unknown(t *testing.T) {
	_, err := radar.ParseProtocol("Closest-Enemies")
	assert.ErrorIs(t, err, radar.ErrInvalidProtocol)

	_, err = radar.ParseProtocol("")
	assert.ErrorIs(t, err, radar.ErrInvalidProtocol)
}

func TestParseProtocols_PreservesOrderAndDuplicates(t *testing.T) {
	got, err := radar.ParseProtocols([]string{"prioritize-mech", "avoid-mech", "prioritize-mech"})
	require.NoError(t, err)
	assert.Equal(t, []radar.Protocol{radar.PrioritizeMech, radar.AvoidMech, radar.PrioritizeMech}, got)
}

func TestParseProtocols_NamesEveryUnknown(t *testing.T) {
	_, err := radar.ParseProtocols([]string{"avoid-mech", "charge", "retreat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, radar.ErrInvalidProtocol)
	assert.Contains(t, err.Error(), `"charge"`)
	assert.Contains(t, err.Error(), `"retreat"`)
}

func TestParseProtocols_Empty(t *testing.T) {
	got, err := radar.ParseProtocols(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnemyType_Valid(t *testing.T) {
	assert.True(t, radar.Soldier.Valid())
	assert.True(t, radar.Mech.Valid())
	assert.False(t, radar.EnemyType("tank").Valid())
}
