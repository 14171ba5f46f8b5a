package services

import (
	"sort"
	"strings"

	"github.com/polyintel-project/backend/internal/models"
)

const (
	DefaultQueryLimit = 500
	MaxQueryLimit     = 2000

	SortVolume24hr = "volume24hr"
	SortEndDate    = "endDate"
	SortLiquidity  = "liquidity"
	SortEdge       = "edge"
	SortNewest     = "newest"

	CategoryAll = "All"
)

type MarketQuery struct {
	Search   string
	Category string
	Sort     string
	Limit    int
}

// QueryMarkets filters and sorts a copy of the snapshot's market list.
// Unknown sort keys keep the feed order (24h volume from upstream).
func QueryMarkets(markets []models.NormalizedMarket, q MarketQuery) []models.NormalizedMarket {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	if category == CategoryAll {
		category = ""
	}

	out := make([]models.NormalizedMarket, 0, len(markets))
	for i := range markets {
		m := &markets[i]
		if category != "" && string(m.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Question), search) &&
			!strings.Contains(strings.ToLower(m.EventTitle), search) {
			continue
		}
		out = append(out, *m)
	}

	switch q.Sort {
	case SortVolume24hr:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Volume24hr > out[j].Volume24hr })
	case SortLiquidity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Liquidity > out[j].Liquidity })
	case SortEdge:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Edge > out[j].Edge })
	case SortEndDate:
		sort.SliceStable(out, func(i, j int) bool { return endsBefore(&out[i], &out[j], false) })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return endsBefore(&out[i], &out[j], true) })
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// endsBefore orders by end date; markets without one always sort last
func endsBefore(a, b *models.NormalizedMarket, desc bool) bool {
	switch {
	case a.EndDate == nil:
		return false
	case b.EndDate == nil:
		return true
	case desc:
		return a.EndDate.After(*b.EndDate)
	default:
		return a.EndDate.Before(*b.EndDate)
	}
}

// FindMarket looks a market up by id
func FindMarket(markets []models.NormalizedMarket, id string) (*models.NormalizedMarket, error) {
	for i := range markets {
		if markets[i].ID == id {
			m := markets[i]
			return &m, nil
		}
	}
	return nil, ErrMarketNotFound
}
