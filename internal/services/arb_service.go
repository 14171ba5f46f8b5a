/**
 * @description
 * Cross-venue price gap scan between Polymarket and Kalshi.
 * Best-effort: any Kalshi failure yields an empty result and never touches the snapshot.
 *
 * @dependencies
 * - backend/internal/kalshi
 * - backend/internal/metrics
 */

package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/polyintel-project/backend/internal/kalshi"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/models"
)

const (
	arbKalshiLimit   = 200
	arbMinGap        = 0.03
	arbMinWordLength = 5
	arbMinWordHits   = 2
	arbMaxResults    = 20

	DirectionBuyKalshi     = "Buy Kalshi YES"
	DirectionBuyPolymarket = "Buy Polymarket YES"
)

// KalshiMarketSource lists open Kalshi markets
type KalshiMarketSource interface {
	GetMarkets(ctx context.Context, opts kalshi.GetMarketsOptions) (*kalshi.MarketsResponse, error)
}

// ArbOpportunity is a YES price gap between matched markets on both venues
type ArbOpportunity struct {
	PolymarketQuestion string  `json:"polymarketQuestion"`
	PolymarketURL      string  `json:"polymarketUrl"`
	KalshiTitle        string  `json:"kalshiTitle"`
	KalshiTicker       string  `json:"kalshiTicker"`
	PolymarketPrice    float64 `json:"polymarketPrice"`
	KalshiPrice        float64 `json:"kalshiPrice"`
	Gap                float64 `json:"gap"` // percentage points
	ProfitPer100       float64 `json:"profitPer100"`
	Direction          string  `json:"direction"`
}

type ArbService struct {
	Kalshi  KalshiMarketSource
	Metrics *metrics.Metrics
}

func NewArbService(source KalshiMarketSource, m *metrics.Metrics) *ArbService {
	return &ArbService{Kalshi: source, Metrics: m}
}

// Scan matches open Kalshi markets against the given Polymarket markets by title words
func (s *ArbService) Scan(ctx context.Context, markets []models.NormalizedMarket) []ArbOpportunity {
	arbs := make([]ArbOpportunity, 0)
	if s == nil || s.Kalshi == nil {
		return arbs
	}

	resp, err := s.Kalshi.GetMarkets(ctx, kalshi.GetMarketsOptions{Limit: arbKalshiLimit, Status: "open"})
	if err != nil {
		logger.Error("Kalshi arb scan failed: %v", err)
		s.Metrics.RecordArbScan("error")
		return arbs
	}

	questions := make([]string, len(markets))
	for i := range markets {
		questions[i] = strings.ToLower(markets[i].Question)
	}

	for _, km := range resp.Markets {
		kalshiYes := kalshiYesPrice(km)
		if kalshiYes == 0 {
			continue
		}

		words := titleWords(km)
		if len(words) == 0 {
			continue
		}

		idx := matchQuestion(questions, words)
		if idx < 0 {
			continue
		}
		pm := &markets[idx]

		gap := math.Abs(pm.YesPrice - kalshiYes)
		if gap <= arbMinGap {
			continue
		}

		direction := DirectionBuyPolymarket
		if pm.YesPrice > kalshiYes {
			direction = DirectionBuyKalshi
		}

		points := math.Round(gap*10000) / 100
		arbs = append(arbs, ArbOpportunity{
			PolymarketQuestion: pm.Question,
			PolymarketURL:      pm.PolymarketURL,
			KalshiTitle:        km.Title,
			KalshiTicker:       km.Ticker,
			PolymarketPrice:    pm.YesPrice,
			KalshiPrice:        kalshiYes,
			Gap:                points,
			ProfitPer100:       points,
			Direction:          direction,
		})
	}

	sort.SliceStable(arbs, func(i, j int) bool { return arbs[i].Gap > arbs[j].Gap })
	if len(arbs) > arbMaxResults {
		arbs = arbs[:arbMaxResults]
	}

	s.Metrics.RecordArbScan("success")
	return arbs
}

func kalshiYesPrice(m kalshi.Market) float64 {
	cents := m.YesAsk
	if cents == 0 {
		cents = m.YesBid
	}
	return float64(cents) / 100
}

// titleWords returns the distinctive words of a Kalshi title, falling back to the subtitle
func titleWords(m kalshi.Market) []string {
	title := m.Title
	if title == "" {
		title = m.Subtitle
	}

	var words []string
	for _, w := range strings.Split(strings.ToLower(title), " ") {
		if len(w) >= arbMinWordLength {
			words = append(words, w)
		}
	}
	return words
}

// matchQuestion returns the first question containing enough of the words, or -1
func matchQuestion(questions []string, words []string) int {
	for i, q := range questions {
		hits := 0
		for _, w := range words {
			if strings.Contains(q, w) {
				hits++
			}
		}
		if hits >= arbMinWordHits {
			return i
		}
	}
	return -1
}
