package entity

// PositionType classifies a protocol position.
type PositionType string

const (
	PositionLiquidityPool PositionType = "LiquidityPool"
	PositionLending       PositionType = "Lending"
	PositionOther         PositionType = "Other"
)

// ProtocolPosition is a position held in a DeFi protocol.
type ProtocolPosition struct {
	ProtocolName string       `json:"protocolName" yaml:"protocolName"`
	PositionType PositionType `json:"positionType" yaml:"positionType"`
	PairLabel    *string      `json:"pairLabel,omitempty" yaml:"pairLabel,omitempty"`
	ValueUSD     float64      `json:"valueUsd" yaml:"valueUsd"`
	APYPercent   *float64     `json:"apyPercent,omitempty" yaml:"apyPercent,omitempty"`
	FeeTier      string       `json:"feeTier,omitempty" yaml:"feeTier,omitempty"`
}

// SnapshotSource tells whether a snapshot was built from live or demo data.
type SnapshotSource string

const (
	SourceLive SnapshotSource = "live"
	SourceDemo SnapshotSource = "demo"
)

// PortfolioSnapshot is derived per request and never cached.
type PortfolioSnapshot struct {
	TotalValueUSD float64            `json:"totalValueUsd"`
	Balances      []TokenBalance     `json:"balances"`
	Positions     []ProtocolPosition `json:"positions"`
	RiskScore     int                `json:"riskScore"`
	Source        SnapshotSource     `json:"source"`
}

// PortfolioResult is a snapshot plus the status of the balance fetch behind it.
type PortfolioResult struct {
	Snapshot PortfolioSnapshot `json:"snapshot"`
	Status   FetchStatus       `json:"status"`
	Err      error             `json:"-"`
}

// RiskLevel is the coarse label attached to a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevelFor labels a score: Low up to 3, Medium 4 to 6, High from 7.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score <= 3:
		return RiskLow
	case score <= 6:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskReport breaks a snapshot's risk down by exposure.
type RiskReport struct {
	Score             int            `json:"score"`
	Level             RiskLevel      `json:"level"`
	NativeSymbol      string         `json:"nativeSymbol"`
	NativePercent     float64        `json:"nativePercent"`
	StablecoinPercent float64        `json:"stablecoinPercent"`
	PositionsPercent  float64        `json:"positionsPercent"`
	Recommendations   []string       `json:"recommendations"`
	Source            SnapshotSource `json:"source"`
}

// AllocationBucket groups holdings for rebalancing.
type AllocationBucket string

const (
	BucketNative      AllocationBucket = "native"
	BucketStablecoins AllocationBucket = "stablecoins"
	BucketPositions   AllocationBucket = "defi_positions"
	BucketOther       AllocationBucket = "other_tokens"
)

// RebalanceAction is the suggested direction for one bucket.
type RebalanceAction string

const (
	ActionIncrease RebalanceAction = "increase"
	ActionReduce   RebalanceAction = "reduce"
	ActionHold     RebalanceAction = "hold"
)

// RebalanceSuggestion compares one bucket against its target allocation.
type RebalanceSuggestion struct {
	Bucket         AllocationBucket `json:"bucket"`
	CurrentPercent float64          `json:"currentPercent"`
	TargetPercent  float64          `json:"targetPercent"`
	DeltaUSD       float64          `json:"deltaUsd"` // positive: buy, negative: sell
	Action         RebalanceAction  `json:"action"`
}

// OptimizationPlan is the full set of suggestions for a snapshot.
type OptimizationPlan struct {
	TotalValueUSD float64               `json:"totalValueUsd"`
	Suggestions   []RebalanceSuggestion `json:"suggestions"`
	Source        SnapshotSource        `json:"source"`
}
