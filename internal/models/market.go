/**
 * @description
 * Normalized market model served by the read endpoints.
 * One NormalizedMarket is built per tradeable Gamma contract per refresh cycle
 * and is never mutated afterwards.
 */

package models

import "time"

// Category is the keyword-inferred topic of an event
type Category string

const (
	CategoryPolitics      Category = "Politics"
	CategorySports        Category = "Sports"
	CategoryCrypto        Category = "Crypto"
	CategoryEntertainment Category = "Entertainment"
	CategoryScience       Category = "Science"
	CategoryEconomics     Category = "Economics"
	CategoryOther         Category = "Other"
)

// NewsLag flags a price that looks stale relative to time-to-resolution
type NewsLag string

const (
	NewsLagHigh   NewsLag = "HIGH"
	NewsLagMedium NewsLag = "MEDIUM"
	NewsLagLow    NewsLag = "LOW"
)

// NormalizedMarket is a single active contract after quality gates and scoring
type NormalizedMarket struct {
	ID           string   `json:"id"`
	EventID      string   `json:"eventId"`
	EventTitle   string   `json:"eventTitle"`
	EventSlug    string   `json:"eventSlug"`
	Question     string   `json:"question"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	CategoryIcon string   `json:"categoryIcon"`

	Outcomes []string  `json:"outcomes"`
	Prices   []float64 `json:"prices"`
	YesPrice float64   `json:"yesPrice"`
	NoPrice  float64   `json:"noPrice"`

	Volume          float64 `json:"volume"`
	Volume24hr      float64 `json:"volume24hr"`
	Volume24hrFmt   string  `json:"volume24hrFmt"`
	Volume1wk       float64 `json:"volume1wk"`
	Liquidity       float64 `json:"liquidity"`
	LiquidityFmt    string  `json:"liquidityFmt"`
	VolumeRatio     float64 `json:"volumeRatio"`
	Competitive     float64 `json:"competitive"`
	AcceptingOrders bool    `json:"acceptingOrders"`

	EndDate  *time.Time `json:"endDate"`
	DaysLeft float64    `json:"daysLeft"`

	LastTradePrice float64  `json:"lastTradePrice"`
	BestBid        float64  `json:"bestBid"`
	BestAsk        float64  `json:"bestAsk"`
	Spread         float64  `json:"spread"`
	PriceChange1d  *float64 `json:"priceChange1d"`
	PriceChange1w  *float64 `json:"priceChange1w"`
	PriceChange1m  *float64 `json:"priceChange1m"`

	Image         string `json:"image"`
	PolymarketURL string `json:"polymarketUrl"`

	Edge    float64 `json:"edge"`
	NewsLag NewsLag `json:"newsLag"`
}

// EndsWithin reports whether the market resolves in (now, now+d]
func (m *NormalizedMarket) EndsWithin(now time.Time, d time.Duration) bool {
	if m.EndDate == nil {
		return false
	}
	return m.EndDate.After(now) && !m.EndDate.After(now.Add(d))
}
