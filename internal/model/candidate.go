package model

// PatternSqueeze is the only pattern the scorer recognises.
const PatternSqueeze = "Consolidation/Squeeze"

const (
	stopLossFactor = 0.95
	rewardRisk     = 2.0
)

// ScoredCandidate is a ticker that cleared the score threshold in one scan.
type ScoredCandidate struct {
	Ticker     string
	Score      int
	Pattern    string
	Close      float64
	StopLoss   float64
	Target     float64
	Bars       []OHLCV
	Indicators *IndicatorSet
}

// NewScoredCandidate builds a candidate from its series. The stop sits 5%
// under the latest low and the target projects a 2:1 reward/risk.
func NewScoredCandidate(series *PriceSeries, ind *IndicatorSet, score int) *ScoredCandidate {
	latest := series.Latest()
	stop := latest.Low * stopLossFactor
	return &ScoredCandidate{
		Ticker:     series.Symbol,
		Score:      score,
		Pattern:    PatternSqueeze,
		Close:      latest.Close,
		StopLoss:   stop,
		Target:     latest.Close + (latest.Close-stop)*rewardRisk,
		Bars:       series.Bars,
		Indicators: ind,
	}
}
