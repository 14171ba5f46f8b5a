package gamma

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestDecodePrices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []float64
	}{
		{"string encoded", `"[\"0.6\",\"0.4\"]"`, []float64{0.6, 0.4}},
		{"native strings", `["0.25","0.75"]`, []float64{0.25, 0.75}},
		{"native numbers", `[0.3, 0.7]`, []float64{0.3, 0.7}},
		{"garbage string", `"not json"`, []float64{0, 0}},
		{"null", `null`, []float64{0, 0}},
		{"empty", ``, []float64{0, 0}},
		{"non numeric entry", `["abc","0.4"]`, []float64{0, 0.4}},
	}
	for _, tt := range tests {
		got := DecodePrices(json.RawMessage(tt.raw))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: DecodePrices = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecodeOutcomes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"string encoded", `"[\"Up\",\"Down\"]"`, []string{"Up", "Down"}},
		{"native", `["Trump","Harris"]`, []string{"Trump", "Harris"}},
		{"broken", `"[\"Up\""`, []string{"Yes", "No"}},
		{"object", `{"a":1}`, []string{"Yes", "No"}},
		{"missing", ``, []string{"Yes", "No"}},
	}
	for _, tt := range tests {
		got := DecodeOutcomes(json.RawMessage(tt.raw))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: DecodeOutcomes = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMarketUnmarshalLooseTypes(t *testing.T) {
	body := `{
		"id": "123",
		"outcomePrices": "[\"0.6\",\"0.4\"]",
		"volume": "1500.5",
		"volumeNum": 1500.5,
		"liquidity": "25000",
		"volume24hr": 1200,
		"oneDayPriceChange": -0.01
	}`

	var m GammaMarket
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got := FirstFloat(m.LiquidityNum, m.Liquidity); got != 25000 {
		t.Fatalf("expected liquidity fallback to string field, got %v", got)
	}
	if got := FirstFloat(m.VolumeNum, m.Volume); got != 1500.5 {
		t.Fatalf("expected volume 1500.5, got %v", got)
	}
	if change := OptionalFloat(m.OneDayPriceChange); change == nil || *change != -0.01 {
		t.Fatalf("expected 1d change -0.01, got %v", change)
	}
	if OptionalFloat(m.OneWeekPriceChange) != nil {
		t.Fatal("expected missing 1w change to stay nil")
	}
	if prices := DecodePrices(m.OutcomePrices); prices[0] != 0.6 || prices[1] != 0.4 {
		t.Fatalf("unexpected prices %v", prices)
	}
}

func TestParseFloatRejectsNonFinite(t *testing.T) {
	for _, v := range []interface{}{"NaN", "nan", "Inf", "-Inf", "+Infinity", json.Number("NaN"), math.NaN(), math.Inf(1)} {
		if f, ok := ParseFloat(v); ok || f != 0 {
			t.Errorf("ParseFloat(%v) = %v, %v; want 0, false", v, f, ok)
		}
	}
	if got := FirstFloat("NaN", "12.5"); got != 12.5 {
		t.Fatalf("expected fallback past NaN, got %v", got)
	}
	if OptionalFloat("Inf") != nil {
		t.Fatal("expected Inf to read as absent")
	}
	if prices := DecodePrices(json.RawMessage(`["NaN","0.4"]`)); prices[0] != 0 || prices[1] != 0.4 {
		t.Fatalf("unexpected prices %v", prices)
	}
}

func TestEventUnmarshalDropsMalformedEntries(t *testing.T) {
	body := `{
		"id": "ev-1",
		"title": "Event",
		"markets": [{"id": 2, "active": "true"}, {"id": "m-1", "active": true}],
		"tags": [{"id": "1", "label": "Politics"}, {"label": 7}]
	}`

	var ev GammaEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ev.ID != "ev-1" || ev.Title != "Event" {
		t.Fatalf("unexpected event fields %+v", ev)
	}
	if len(ev.Markets) != 1 || ev.Markets[0].ID != "m-1" || !ev.Markets[0].Active {
		t.Fatalf("expected only m-1 to survive, got %+v", ev.Markets)
	}
	if labels := ev.TagLabels(); !reflect.DeepEqual(labels, []string{"Politics"}) {
		t.Fatalf("unexpected tags %v", labels)
	}
}

func TestDecodeEvents(t *testing.T) {
	events, skipped, err := DecodeEvents([]byte(`[{"id": "ev-1"}, {"id": {"bad": true}}, {"id": "ev-3"}]`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if skipped != 1 || len(events) != 2 || events[0].ID != "ev-1" || events[1].ID != "ev-3" {
		t.Fatalf("unexpected result %d %+v", skipped, events)
	}

	if _, _, err := DecodeEvents([]byte(`{"not":"an array"}`)); err == nil {
		t.Fatal("expected an error for a non-array page")
	}
}

func TestParseDate(t *testing.T) {
	if ParseDate("", "  ") != nil {
		t.Fatal("expected nil for empty candidates")
	}

	got := ParseDate("", "2026-11-03T12:00:00Z")
	want := time.Date(2026, 11, 3, 12, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	dateOnly := ParseDate("2026-12-31")
	if dateOnly == nil || dateOnly.Day() != 31 {
		t.Fatalf("expected date-only layout to parse, got %v", dateOnly)
	}

	if ParseDate("tomorrow") != nil {
		t.Fatal("expected unparseable date to be nil")
	}
}

func TestTagLabels(t *testing.T) {
	ev := GammaEvent{Tags: []GammaTag{{Label: "Sports"}, {Slug: "nba"}}}
	if got := ev.TagLabels(); !reflect.DeepEqual(got, []string{"Sports", "nba"}) {
		t.Fatalf("unexpected labels %v", got)
	}
}
