package models

import "time"

// Column names as exposed on the wire
const (
	ColumnDontMiss    = "dontMiss"
	ColumnHighRisk    = "highRisk"
	ColumnSafePlays   = "safePlays"
	ColumnClosingSoon = "closingSoon"
	ColumnTrending    = "trending"
	ColumnNewsLag     = "newsLag"
)

// ColumnNames lists every column in canonical order
var ColumnNames = []string{
	ColumnDontMiss,
	ColumnHighRisk,
	ColumnSafePlays,
	ColumnClosingSoon,
	ColumnTrending,
	ColumnNewsLag,
}

// Columns holds the curated views. A market may appear in several columns.
type Columns struct {
	DontMiss    []NormalizedMarket `json:"dontMiss"`
	HighRisk    []NormalizedMarket `json:"highRisk"`
	SafePlays   []NormalizedMarket `json:"safePlays"`
	ClosingSoon []NormalizedMarket `json:"closingSoon"`
	Trending    []NormalizedMarket `json:"trending"`
	NewsLag     []NormalizedMarket `json:"newsLag"`
}

// ByName resolves a column by its wire name
func (c *Columns) ByName(name string) ([]NormalizedMarket, bool) {
	switch name {
	case ColumnDontMiss:
		return c.DontMiss, true
	case ColumnHighRisk:
		return c.HighRisk, true
	case ColumnSafePlays:
		return c.SafePlays, true
	case ColumnClosingSoon:
		return c.ClosingSoon, true
	case ColumnTrending:
		return c.Trending, true
	case ColumnNewsLag:
		return c.NewsLag, true
	}
	return nil, false
}

// Counts returns the size of every column keyed by name
func (c *Columns) Counts() map[string]int {
	counts := make(map[string]int, len(ColumnNames))
	for _, name := range ColumnNames {
		col, _ := c.ByName(name)
		counts[name] = len(col)
	}
	return counts
}

// Stats are the aggregate counters computed alongside the columns
type Stats struct {
	TotalMarkets      int            `json:"totalMarkets"`
	TotalVolume24h    float64        `json:"totalVolume24h"`
	TotalVolume24hFmt string         `json:"totalVolume24hFmt"`
	ClosingToday      int            `json:"closingToday"`
	TotalEvents       int            `json:"totalEvents"`
	LastRefresh       time.Time      `json:"lastRefresh"`
	ColumnCounts      map[string]int `json:"columnCounts"`
}

// Snapshot is the full bundle produced by one refresh cycle.
// Readers share the pointer; it is never modified after publication.
type Snapshot struct {
	Markets   []NormalizedMarket
	Columns   Columns
	Stats     Stats
	FetchedAt time.Time
}
