package services

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"github.com/polyintel-project/backend/internal/scoring"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func decodeEvents(t *testing.T, raw string) []gamma.GammaEvent {
	t.Helper()
	var events []gamma.GammaEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return events
}

func TestNormalizeDropsContractsFailingGates(t *testing.T) {
	events := decodeEvents(t, `[{
		"id": "ev-1", "slug": "nba-finals", "title": "NBA Finals Winner",
		"markets": [
			{"id": "m-1", "question": "Lakers?", "active": true, "closed": false,
			 "outcomePrices": ["0.4", "0.6"], "liquidityNum": 50000, "volume24hr": 10000, "volumeNum": 200000},
			{"id": "m-2", "question": "Celtics?", "active": true, "closed": false,
			 "outcomePrices": ["0.4", "0.6"], "liquidityNum": 500, "volume24hr": 10000}
		]
	}]`)

	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(events, testNow)
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}

	m := markets[0]
	if m.ID != "m-1" || m.EventID != "ev-1" {
		t.Fatalf("unexpected market %+v", m)
	}
	if m.Category != models.CategorySports {
		t.Errorf("expected Sports, got %s", m.Category)
	}
	if m.PolymarketURL != "https://polymarket.com/event/nba-finals" {
		t.Errorf("unexpected url %s", m.PolymarketURL)
	}
	if m.DaysLeft != scoring.DefaultDaysLeft {
		t.Errorf("expected default daysLeft without end date, got %v", m.DaysLeft)
	}
	if m.VolumeRatio != 0.05 {
		t.Errorf("expected volumeRatio 0.05, got %v", m.VolumeRatio)
	}
	if m.Edge <= 0 || m.Edge > 100 {
		t.Errorf("edge out of range: %v", m.Edge)
	}
}

func TestNormalizeStringEncodedPrices(t *testing.T) {
	events := decodeEvents(t, `[{
		"id": "ev-1", "slug": "s", "title": "Will it rain?",
		"markets": [{"id": "m-1", "active": true,
			"outcomes": "[\"Yes\",\"No\"]", "outcomePrices": "[\"0.6\",\"0.4\"]",
			"liquidity": "20000", "volume24hr": "5000", "volume": "100000"}]
	}]`)

	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(events, testNow)
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}
	m := markets[0]
	if m.YesPrice != 0.6 || m.NoPrice != 0.4 {
		t.Fatalf("expected 0.6/0.4, got %v/%v", m.YesPrice, m.NoPrice)
	}
	if len(m.Outcomes) != 2 || m.Outcomes[0] != "Yes" {
		t.Fatalf("unexpected outcomes %v", m.Outcomes)
	}
	if m.Liquidity != 20000 || m.Volume != 100000 {
		t.Fatalf("string numerics not parsed: liq=%v vol=%v", m.Liquidity, m.Volume)
	}
	// question falls back to the event title
	if m.Question != "Will it rain?" {
		t.Fatalf("unexpected question %q", m.Question)
	}
	if m.LastTradePrice != 0.6 {
		t.Fatalf("lastTradePrice should fall back to yes price, got %v", m.LastTradePrice)
	}
	if !m.AcceptingOrders {
		t.Fatal("acceptingOrders should default to true")
	}
}

func TestNormalizeDerivesNoPriceAndSkipsClosed(t *testing.T) {
	events := decodeEvents(t, `[
		{"id": "ev-empty", "title": "no markets", "markets": []},
		{"id": "ev-1", "slug": "s", "title": "Election", "endDate": "2026-03-12T12:00:00Z",
		 "markets": [
			{"id": "open", "active": true, "outcomePrices": ["0.3"], "liquidityNum": 20000, "volume24hr": 2000,
			 "oneDayPriceChange": 0.001, "groupItemTitle": "Candidate A", "acceptingOrders": false},
			{"id": "closed", "active": true, "closed": true, "outcomePrices": ["0.3", "0.7"], "liquidityNum": 20000, "volume24hr": 2000},
			{"id": "inactive", "active": false, "outcomePrices": ["0.3", "0.7"], "liquidityNum": 20000, "volume24hr": 2000}
		 ]}
	]`)

	markets := NewTransformer(scoring.DefaultEdgeWeights, "https://example.test").Normalize(events, testNow)
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}
	m := markets[0]
	if math.Abs(m.NoPrice-0.7) > 1e-9 {
		t.Fatalf("expected derived no price 0.7, got %v", m.NoPrice)
	}
	if m.Question != "Candidate A" {
		t.Fatalf("groupItemTitle should win, got %q", m.Question)
	}
	if m.EndDate == nil || m.DaysLeft != 2 {
		t.Fatalf("expected event end date 2 days out, got %v / %v", m.EndDate, m.DaysLeft)
	}
	if m.NewsLag != models.NewsLagHigh {
		t.Fatalf("expected HIGH news lag, got %s", m.NewsLag)
	}
	if m.AcceptingOrders {
		t.Fatal("explicit acceptingOrders=false was lost")
	}
	if m.PolymarketURL != "https://example.test/event/s" {
		t.Fatalf("unexpected url %s", m.PolymarketURL)
	}
}

func TestNormalizeMalformedFieldsNeverFail(t *testing.T) {
	events := decodeEvents(t, `[{"id": "ev", "title": "x", "markets": [
		{"id": "m", "active": true, "outcomePrices": "not json", "outcomes": 42,
		 "liquidityNum": "abc", "volume24hr": null, "endDate": "yesterday-ish"}
	]}]`)

	// malformed prices decode to [0,0], which the price band rejects
	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(events, testNow)
	if len(markets) != 0 {
		t.Fatalf("expected the malformed contract to be gated out, got %d", len(markets))
	}
}

func TestNormalizeOutputPassesGates(t *testing.T) {
	raw := `[{"id": "ev", "title": "Bitcoin", "markets": [
		{"id": "a", "active": true, "outcomePrices": ["0.05", "0.95"], "liquidityNum": 50000, "volume24hr": 5000},
		{"id": "b", "active": true, "outcomePrices": ["0.50", "0.50"], "liquidityNum": 9999, "volume24hr": 5000},
		{"id": "c", "active": true, "outcomePrices": ["0.50", "0.50"], "liquidityNum": 50000, "volume24hr": 999},
		{"id": "d", "active": true, "outcomePrices": ["0.95", "0.05"], "liquidityNum": 50000, "volume24hr": 5000},
		{"id": "e", "active": true, "outcomePrices": ["0.51", "0.49"], "liquidityNum": 10000, "volume24hr": 1000}
	]}]`

	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(decodeEvents(t, raw), testNow)
	if len(markets) != 1 || markets[0].ID != "e" {
		t.Fatalf("expected only market e, got %+v", markets)
	}
	for _, m := range markets {
		if m.Liquidity < scoring.MinLiquidity || m.Volume24hr < scoring.MinVolume24hr ||
			m.YesPrice <= scoring.MinYesPrice || m.YesPrice >= scoring.MaxYesPrice {
			t.Fatalf("market %s violates the quality gates", m.ID)
		}
		if m.NoPrice < 0 || m.NoPrice > 1 || m.DaysLeft < 0 {
			t.Fatalf("market %s has out of range fields", m.ID)
		}
	}
}

func TestNormalizeRejectsNonFiniteNumbers(t *testing.T) {
	raw := `[{"id": "ev-1", "slug": "s", "title": "Will it rain?", "markets": [
		{"id": "nan-liq", "active": true, "outcomePrices": ["0.5", "0.5"], "liquidity": "NaN", "volume24hr": 5000},
		{"id": "inf-vol", "active": true, "outcomePrices": ["0.5", "0.5"], "liquidity": "20000", "volume24hr": "Inf"},
		{"id": "inf-price", "active": true, "outcomePrices": ["Infinity", "0.5"], "liquidity": "20000", "volume24hr": 5000},
		{"id": "ok", "active": true, "outcomePrices": ["0.5", "0.5"], "liquidity": "20000", "volume24hr": 5000}
	]}]`

	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(decodeEvents(t, raw), testNow)
	if len(markets) != 1 || markets[0].ID != "ok" {
		t.Fatalf("expected only the finite market, got %+v", markets)
	}

	cols := Classify(markets, testNow)
	if _, err := json.Marshal(markets); err != nil {
		t.Fatalf("markets must encode: %v", err)
	}
	if _, err := json.Marshal(cols); err != nil {
		t.Fatalf("columns must encode: %v", err)
	}
}

func TestNormalizeKeepsEventWithMalformedContract(t *testing.T) {
	raw := `[{"id": "ev-1", "slug": "s", "title": "Will it rain?", "markets": [
		{"id": 2, "active": "true", "outcomePrices": ["0.5", "0.5"], "liquidity": "20000", "volume24hr": 5000},
		{"id": "ok", "active": true, "outcomePrices": ["0.5", "0.5"], "liquidity": "20000", "volume24hr": 5000}
	]}]`

	markets := NewTransformer(scoring.DefaultEdgeWeights, "").Normalize(decodeEvents(t, raw), testNow)
	if len(markets) != 1 || markets[0].ID != "ok" {
		t.Fatalf("expected the well-formed contract to survive, got %+v", markets)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Fatalf("short strings must be untouched, got %q", got)
	}
}
