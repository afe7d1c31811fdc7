package radar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/radar/internal/radar"
)

func TestLoggedResolver_LogsEachStage(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := radar.NewLoggedResolver(zap.New(core))

	scan := radar.Scan{mech(5, 0), soldier(20, 0)}
	res, err := r.Resolve(scan, []radar.Protocol{radar.AvoidMech, radar.ClosestEnemies})
	require.NoError(t, err)
	assert.Equal(t, radar.Coordinate{X: 20, Y: 0}, res.Target)

	stages := logs.FilterMessage("protocol stage applied").All()
	require.Len(t, stages, 2)
	assert.Equal(t, "exclusion", stages[0].ContextMap()["stage"])
	assert.Equal(t, "closest-enemies", stages[1].ContextMap()["protocol"])
	assert.Equal(t, 1, logs.FilterMessage("target resolved").Len())
}

func TestLoggedResolver_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := radar.NewLoggedResolver(zap.New(core))

	_, err := r.Resolve(radar.Scan{mech(1, 1)}, []radar.Protocol{radar.AvoidMech})
	assert.ErrorIs(t, err, radar.ErrExhaustedCandidateSet)
	assert.Equal(t, 1, logs.FilterMessage("resolution failed").Len())
	assert.Equal(t, 0, logs.FilterMessage("target resolved").Len())
}
