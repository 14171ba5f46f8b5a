package scoring

import (
	"math"
	"time"

	"github.com/polyintel-project/backend/internal/config"
)

// Quality gates. A contract failing any of them is dropped before scoring.
const (
	MinLiquidity  = 10000.0
	MinVolume24hr = 1000.0
	MinYesPrice   = 0.05
	MaxYesPrice   = 0.95

	// DefaultDaysLeft is used when no end date can be resolved
	DefaultDaysLeft = 30.0
)

// EdgeWeights are the weights of the four edge signals
type EdgeWeights struct {
	ProbDeviation float64
	Liquidity     float64
	Volume        float64
	TimePressure  float64
}

// DefaultEdgeWeights favour price uncertainty and depth over activity and timing
var DefaultEdgeWeights = EdgeWeights{
	ProbDeviation: 0.30,
	Liquidity:     0.30,
	Volume:        0.20,
	TimePressure:  0.20,
}

// WeightsFromConfig maps the scoring config onto EdgeWeights
func WeightsFromConfig(cfg config.ScoringConfig) EdgeWeights {
	return EdgeWeights{
		ProbDeviation: cfg.ProbDeviationWeight,
		Liquidity:     cfg.LiquidityWeight,
		Volume:        cfg.VolumeWeight,
		TimePressure:  cfg.TimePressureWeight,
	}
}

// EdgeInput carries the only values the edge score depends on
type EdgeInput struct {
	YesPrice   float64
	Liquidity  float64
	Volume24hr float64
	DaysLeft   float64
}

// PassesQualityGates applies the hard exclusion rules in order:
// liquidity, 24h volume, then the tradeable price band.
func PassesQualityGates(yesPrice, liquidity, volume24hr float64) bool {
	if liquidity < MinLiquidity {
		return false
	}
	if volume24hr < MinVolume24hr {
		return false
	}
	if yesPrice <= MinYesPrice || yesPrice >= MaxYesPrice {
		return false
	}
	return true
}

// Edge computes the 0-100 attractiveness score, rounded to one decimal
func Edge(in EdgeInput, w EdgeWeights) float64 {
	probDeviation := 1 - math.Abs(in.YesPrice-0.5)*2
	liquidityNorm := clamp01(math.Log10(in.Liquidity/MinLiquidity) / 4)
	volumeNorm := clamp01(math.Log10(math.Max(in.Volume24hr, 1)) / 6)

	sum := probDeviation*w.ProbDeviation +
		liquidityNorm*w.Liquidity +
		volumeNorm*w.Volume +
		TimePressure(in.DaysLeft)*w.TimePressure

	return math.Round(sum*1000) / 10
}

// TimePressure favours markets resolving within two weeks.
// Anything inside a day is treated as too close to trade safely.
func TimePressure(daysLeft float64) float64 {
	switch {
	case daysLeft <= 1:
		return 0.5
	case daysLeft <= 14:
		return 1.0
	case daysLeft <= 30:
		return 0.7
	case daysLeft <= 60:
		return 0.4
	default:
		return 0.1
	}
}

// DaysLeft returns the fractional days until end, floored at zero
func DaysLeft(end *time.Time, now time.Time) float64 {
	if end == nil {
		return DefaultDaysLeft
	}
	days := end.Sub(now).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
