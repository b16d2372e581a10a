package service

import (
	"math"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
)

// OptimizerImpl implements port.Optimizer with difference-from-target arithmetic.
type OptimizerImpl struct {
	networks  port.NetworkProvider
	targets   configloader.AllocationTargets
	tolerance float64
}

// NewOptimizer creates a new instance of OptimizerImpl. tolerance is in percentage points.
func NewOptimizer(np port.NetworkProvider, targets configloader.AllocationTargets, tolerance float64) *OptimizerImpl {
	return &OptimizerImpl{networks: np, targets: targets, tolerance: tolerance}
}

// Optimize suggests, per bucket, the USD move that reaches the target share.
// Buckets within the tolerance are held.
func (o *OptimizerImpl) Optimize(snapshot entity.PortfolioSnapshot) entity.OptimizationPlan {
	alloc := allocate(snapshot, o.networks.Current().NativeCurrencySymbol)

	buckets := []struct {
		name   entity.AllocationBucket
		value  float64
		target float64
	}{
		{entity.BucketNative, alloc.native, o.targets.Native},
		{entity.BucketStablecoins, alloc.stable, o.targets.Stablecoins},
		{entity.BucketPositions, alloc.positions, o.targets.Positions},
		{entity.BucketOther, alloc.other, o.targets.Other},
	}

	plan := entity.OptimizationPlan{
		TotalValueUSD: alloc.total,
		Suggestions:   make([]entity.RebalanceSuggestion, 0, len(buckets)),
		Source:        snapshot.Source,
	}
	for _, b := range buckets {
		current := alloc.percent(b.value)
		s := entity.RebalanceSuggestion{
			Bucket:         b.name,
			CurrentPercent: current,
			TargetPercent:  b.target,
			Action:         entity.ActionHold,
		}
		if alloc.total > 0 {
			s.DeltaUSD = b.target/100*alloc.total - b.value
			if math.Abs(current-b.target) > o.tolerance {
				if current < b.target {
					s.Action = entity.ActionIncrease
				} else {
					s.Action = entity.ActionReduce
				}
			}
		}
		plan.Suggestions = append(plan.Suggestions, s)
	}
	return plan
}
