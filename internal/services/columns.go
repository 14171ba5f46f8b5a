package services

import (
	"math"
	"sort"
	"time"

	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/scoring"
)

// ColumnCap bounds every curated column
const ColumnCap = 20

const closingSoonWindow = 48 * time.Hour

type column struct {
	keep func(m *models.NormalizedMarket) bool
	less func(a, b *models.NormalizedMarket) bool
}

func columnRules(now time.Time) map[string]column {
	return map[string]column{
		// high conviction: tradeable price, deep book, active, resolves within a month
		models.ColumnDontMiss: {
			keep: func(m *models.NormalizedMarket) bool {
				return m.YesPrice >= 0.20 && m.YesPrice <= 0.80 &&
					m.Liquidity >= 25000 && m.Volume24hr >= 5000 && m.DaysLeft <= 30
			},
			less: func(a, b *models.NormalizedMarket) bool { return a.Edge > b.Edge },
		},
		// genuine uncertainty with real volume
		models.ColumnHighRisk: {
			keep: func(m *models.NormalizedMarket) bool {
				return m.YesPrice >= 0.35 && m.YesPrice <= 0.65 &&
					m.Volume24hr >= 2000 && m.Liquidity >= 15000
			},
			less: byVolume24hrDesc,
		},
		models.ColumnSafePlays: {
			keep: func(m *models.NormalizedMarket) bool {
				return (m.YesPrice > 0.75 || m.YesPrice < 0.25) &&
					m.Liquidity >= 20000 && m.Volume24hr >= 3000 && m.DaysLeft <= 21
			},
			less: byVolume24hrDesc,
		},
		models.ColumnClosingSoon: {
			keep: func(m *models.NormalizedMarket) bool {
				return m.EndsWithin(now, closingSoonWindow) && m.Liquidity >= 10000
			},
			less: byEndDateAsc,
		},
		models.ColumnTrending: {
			keep: func(m *models.NormalizedMarket) bool {
				return m.PriceChange1d != nil && math.Abs(*m.PriceChange1d) > 0.02 && m.Volume24hr >= 3000
			},
			less: func(a, b *models.NormalizedMarket) bool {
				return math.Abs(*a.PriceChange1d) > math.Abs(*b.PriceChange1d)
			},
		},
		models.ColumnNewsLag: {
			keep: func(m *models.NormalizedMarket) bool {
				return (m.NewsLag == models.NewsLagHigh || m.NewsLag == models.NewsLagMedium) && m.Liquidity >= 15000
			},
			less: func(a, b *models.NormalizedMarket) bool { return a.DaysLeft < b.DaysLeft },
		},
	}
}

// Classify builds every curated column from the normalized market list.
// The input slice is not reordered.
func Classify(markets []models.NormalizedMarket, now time.Time) models.Columns {
	rules := columnRules(now)
	build := func(name string) []models.NormalizedMarket {
		return selectColumn(markets, rules[name])
	}

	return models.Columns{
		DontMiss:    build(models.ColumnDontMiss),
		HighRisk:    build(models.ColumnHighRisk),
		SafePlays:   build(models.ColumnSafePlays),
		ClosingSoon: build(models.ColumnClosingSoon),
		Trending:    build(models.ColumnTrending),
		NewsLag:     build(models.ColumnNewsLag),
	}
}

func selectColumn(markets []models.NormalizedMarket, c column) []models.NormalizedMarket {
	selected := make([]models.NormalizedMarket, 0)
	for i := range markets {
		if c.keep(&markets[i]) {
			selected = append(selected, markets[i])
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return c.less(&selected[i], &selected[j])
	})

	if len(selected) > ColumnCap {
		selected = selected[:ColumnCap]
	}
	return selected
}

// BuildStats computes the aggregate counters for a snapshot
func BuildStats(markets []models.NormalizedMarket, columns *models.Columns, totalEvents int, now time.Time) models.Stats {
	var volume24h float64
	closingToday := 0
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())

	for i := range markets {
		m := &markets[i]
		volume24h += m.Volume24hr
		if m.EndDate != nil && m.EndDate.After(now) && !m.EndDate.After(endOfDay) {
			closingToday++
		}
	}

	return models.Stats{
		TotalMarkets:      len(markets),
		TotalVolume24h:    volume24h,
		TotalVolume24hFmt: scoring.FormatUSD(volume24h),
		ClosingToday:      closingToday,
		TotalEvents:       totalEvents,
		LastRefresh:       now,
		ColumnCounts:      columns.Counts(),
	}
}

func byVolume24hrDesc(a, b *models.NormalizedMarket) bool {
	return a.Volume24hr > b.Volume24hr
}

func byEndDateAsc(a, b *models.NormalizedMarket) bool {
	return a.EndDate.Before(*b.EndDate)
}
