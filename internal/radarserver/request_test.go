package radarserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/radar/internal/radar"
)

const sampleRequest = `{
  "protocols": ["avoid-mech", "closest-enemies"],
  "scan": [
    {"coordinates": {"x": 0, "y": 40}, "enemies": {"type": "mech", "number": 1}},
    {"coordinates": {"x": 0, "y": 80}, "enemies": {"type": "soldier", "number": 10}, "allies": 3},
    {"coordinates": {"x": 0, "y": 60}, "enemies": {"type": "soldier", "number": 5}, "allies": 0}
  ]
}`

func TestDecodeRequest_Valid(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(sampleRequest))
	require.NoError(t, err)

	scan, protocols, err := req.Domain()
	require.NoError(t, err)
	assert.Equal(t, []radar.Protocol{radar.AvoidMech, radar.ClosestEnemies}, protocols)
	require.Len(t, scan, 3)

	assert.Equal(t, radar.Coordinate{X: 0, Y: 40}, scan[0].Position)
	assert.Equal(t, radar.Mech, scan[0].Enemy.Type)
	assert.Nil(t, scan[0].Allies)

	require.NotNil(t, scan[1].Allies)
	assert.Equal(t, 3, *scan[1].Allies)
	assert.Equal(t, 10, scan[1].Enemy.Count)

	require.NotNil(t, scan[2].Allies, "a zero reading is still a reading")
	assert.Equal(t, 0, *scan[2].Allies)
}

func TestDecodeRequest_NullAlliesIsAbsent(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{"protocols": [], "scan": [
		{"coordinates": {"x": 1, "y": 2}, "enemies": {"type": "soldier"}, "allies": null}]}`))
	require.NoError(t, err)
	scan, _, err := req.Domain()
	require.NoError(t, err)
	assert.Nil(t, scan[0].Allies)
	assert.Equal(t, 0, scan[0].Enemy.Count)
}

func TestDecodeRequest_WrongType(t *testing.T) {
	_, err := DecodeRequest(strings.NewReader(`{"protocols": "avoid-mech", "scan": []}`))
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestDecodeRequest_NotJSON(t *testing.T) {
	_, err := DecodeRequest(strings.NewReader(`protocols=avoid-mech`))
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestDecodeRequest_TrailingData(t *testing.T) {
	_, err := DecodeRequest(strings.NewReader(`{"protocols": [], "scan": []} {"protocols": []}`))
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestDecodeRequestYAML(t *testing.T) {
	req, err := DecodeRequestYAML(strings.NewReader(`
protocols: [assist-allies]
scan:
  - coordinates: {x: 5, y: 5}
    enemies: {type: soldier, number: 3}
  - coordinates: {x: 10, y: -2.5}
    enemies: {type: mech, number: 1}
    allies: 4
`))
	require.NoError(t, err)
	scan, protocols, err := req.Domain()
	require.NoError(t, err)
	assert.Equal(t, []radar.Protocol{radar.AssistAllies}, protocols)
	assert.Equal(t, radar.Coordinate{X: 10, Y: -2.5}, scan[1].Position)
	require.NotNil(t, scan[1].Allies)
	assert.Equal(t, 4, *scan[1].Allies)
}

func TestDomain_MissingTopLevelFields(t *testing.T) {
	_, _, err := Request{}.Domain()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRequest)
	assert.Contains(t, err.Error(), "protocols is required")
	assert.Contains(t, err.Error(), "scan is required")
}

func TestDomain_ReportsEveryEntryViolation(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{"protocols": [], "scan": [
		{"enemies": {"type": "soldier"}},
		{"coordinates": {"x": 1}, "enemies": {"type": "tank"}},
		{"coordinates": {"x": 1, "y": 1}},
		{"coordinates": {"x": 1, "y": 1}, "enemies": {"type": "mech", "number": -1}, "allies": -2}
	]}`))
	require.NoError(t, err)

	_, _, err = req.Domain()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRequest)
	msg := err.Error()
	assert.Contains(t, msg, "scan[0].coordinates is required")
	assert.Contains(t, msg, "scan[1].coordinates.y is required")
	assert.Contains(t, msg, `scan[1].enemies.type must be one of [soldier, mech], got "tank"`)
	assert.Contains(t, msg, "scan[2].enemies is required")
	assert.Contains(t, msg, "scan[3].enemies.number must be >= 0")
	assert.Contains(t, msg, "scan[3].allies must be >= 0")
}

func TestDomain_InvalidProtocol(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{"protocols": ["avoid-mech", "flank"], "scan": []}`))
	require.NoError(t, err)
	_, _, err = req.Domain()
	assert.ErrorIs(t, err, radar.ErrInvalidProtocol)
	assert.NotErrorIs(t, err, ErrMalformedRequest)
}

func TestDomain_ShapeErrorsTakePrecedence(t *testing.T) {
	_, _, err := Request{Protocols: []string{"flank"}}.Domain()
	assert.ErrorIs(t, err, ErrMalformedRequest)
}
