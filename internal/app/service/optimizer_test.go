package service

import (
	"testing"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTargets = configloader.AllocationTargets{Native: 40, Stablecoins: 30, Positions: 20, Other: 10}

func TestOptimizeDemoSnapshot(t *testing.T) {
	plan := NewOptimizer(fakeNetworks{profile: testProfile}, testTargets, 5).Optimize(demoSnapshot())

	assert.InDelta(t, 9500, plan.TotalValueUSD, 1e-9)
	require.Len(t, plan.Suggestions, 4)

	want := []struct {
		bucket entity.AllocationBucket
		delta  float64
		action entity.RebalanceAction
	}{
		{entity.BucketNative, 3800 - 6000, entity.ActionReduce},
		{entity.BucketStablecoins, 2850 - 1500, entity.ActionIncrease},
		{entity.BucketPositions, 1900 - 2000, entity.ActionHold},
		{entity.BucketOther, 950, entity.ActionIncrease},
	}
	var deltaSum float64
	for i, w := range want {
		s := plan.Suggestions[i]
		assert.Equal(t, w.bucket, s.Bucket)
		assert.InDelta(t, w.delta, s.DeltaUSD, 1e-6, string(w.bucket))
		assert.Equal(t, w.action, s.Action, string(w.bucket))
		deltaSum += s.DeltaUSD
	}
	assert.InDelta(t, 0, deltaSum, 1e-6)
}

func TestOptimizeEmptySnapshot(t *testing.T) {
	plan := NewOptimizer(fakeNetworks{profile: testProfile}, testTargets, 5).Optimize(BuildSnapshot(nil, nil, "ETH"))

	require.Len(t, plan.Suggestions, 4)
	for _, s := range plan.Suggestions {
		assert.Equal(t, entity.ActionHold, s.Action)
		assert.Zero(t, s.DeltaUSD)
		assert.Zero(t, s.CurrentPercent)
	}
}
