/**
 * @description
 * Transformer: flattens Gamma events into scored NormalizedMarket records.
 *
 * @dependencies
 * - backend/internal/polymarket/gamma
 * - backend/internal/scoring
 * - backend/internal/models
 *
 * @notes
 * - Pure given (events, now, weights). Malformed fields fall back to defaults;
 *   nothing here can fail the batch.
 */

package services

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"github.com/polyintel-project/backend/internal/scoring"
)

const (
	maxDescriptionLength = 500
	defaultSiteURL       = "https://polymarket.com"
)

// Transformer converts raw feed events into normalized markets
type Transformer struct {
	Weights scoring.EdgeWeights
	SiteURL string
}

// NewTransformer creates a Transformer with the given edge weights
func NewTransformer(weights scoring.EdgeWeights, siteURL string) *Transformer {
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	return &Transformer{Weights: weights, SiteURL: siteURL}
}

// Normalize applies the quality gates and scoring to every open contract
func (t *Transformer) Normalize(events []gamma.GammaEvent, now time.Time) []models.NormalizedMarket {
	markets := make([]models.NormalizedMarket, 0, len(events))

	for i := range events {
		ev := &events[i]
		if len(ev.Markets) == 0 {
			continue
		}
		category := scoring.Categorize(ev.Title, ev.TagLabels())

		for j := range ev.Markets {
			if m, ok := t.normalizeMarket(ev, &ev.Markets[j], category, now); ok {
				markets = append(markets, m)
			}
		}
	}

	return markets
}

func (t *Transformer) normalizeMarket(ev *gamma.GammaEvent, gm *gamma.GammaMarket, category models.Category, now time.Time) (models.NormalizedMarket, bool) {
	if gm.Closed || !gm.Active {
		return models.NormalizedMarket{}, false
	}

	prices := gamma.DecodePrices(gm.OutcomePrices)
	yes := clampPrice(prices[0])
	no := 1 - yes
	if len(prices) > 1 && prices[1] != 0 {
		no = clampPrice(prices[1])
	}

	volume := gamma.FirstFloat(gm.VolumeNum, gm.Volume)
	volume24hr := gamma.FirstFloat(gm.Volume24hr)
	liquidity := gamma.FirstFloat(gm.LiquidityNum, gm.Liquidity)

	if !scoring.PassesQualityGates(yes, liquidity, volume24hr) {
		return models.NormalizedMarket{}, false
	}

	endDate := gamma.ParseDate(gm.EndDate, ev.EndDate)
	daysLeft := scoring.DaysLeft(endDate, now)
	change1d := gamma.OptionalFloat(gm.OneDayPriceChange)

	edge := scoring.Edge(scoring.EdgeInput{
		YesPrice:   yes,
		Liquidity:  liquidity,
		Volume24hr: volume24hr,
		DaysLeft:   daysLeft,
	}, t.Weights)

	volumeRatio := 0.0
	if volume > 0 {
		volumeRatio = volume24hr / volume
	}

	lastTrade := gamma.FirstFloat(gm.LastTradePrice)
	if lastTrade == 0 {
		lastTrade = yes
	}

	acceptingOrders := true
	if gm.AcceptingOrders != nil {
		acceptingOrders = *gm.AcceptingOrders
	}

	return models.NormalizedMarket{
		ID:           gm.ID,
		EventID:      ev.ID,
		EventTitle:   ev.Title,
		EventSlug:    ev.Slug,
		Question:     firstNonEmpty(gm.GroupItemTitle, gm.Question, ev.Title),
		Slug:         gm.Slug,
		Description:  truncateRunes(firstNonEmpty(gm.Description, ev.Description), maxDescriptionLength),
		Category:     category,
		CategoryIcon: scoring.CategoryIcon(category),

		Outcomes: gamma.DecodeOutcomes(gm.Outcomes),
		Prices:   prices,
		YesPrice: yes,
		NoPrice:  no,

		Volume:          volume,
		Volume24hr:      volume24hr,
		Volume24hrFmt:   scoring.FormatUSD(volume24hr),
		Volume1wk:       gamma.FirstFloat(gm.Volume1wk),
		Liquidity:       liquidity,
		LiquidityFmt:    scoring.FormatUSD(liquidity),
		VolumeRatio:     volumeRatio,
		Competitive:     gamma.FirstFloat(gm.Competitive),
		AcceptingOrders: acceptingOrders,

		EndDate:  endDate,
		DaysLeft: math.Round(daysLeft*10) / 10,

		LastTradePrice: lastTrade,
		BestBid:        gamma.FirstFloat(gm.BestBid),
		BestAsk:        gamma.FirstFloat(gm.BestAsk),
		Spread:         gamma.FirstFloat(gm.Spread),
		PriceChange1d:  change1d,
		PriceChange1w:  gamma.OptionalFloat(gm.OneWeekPriceChange),
		PriceChange1m:  gamma.OptionalFloat(gm.OneMonthPriceChange),

		Image:         firstNonEmpty(gm.Image, gm.Icon, ev.Image, ev.Icon),
		PolymarketURL: t.SiteURL + "/event/" + ev.Slug,

		Edge:    edge,
		NewsLag: scoring.ClassifyNewsLag(change1d, daysLeft),
	}, true
}

// clampPrice keeps probabilities inside [0, 1]; NaN becomes 0
func clampPrice(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
