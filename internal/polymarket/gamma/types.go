/**
 * @description
 * Type definitions for the Polymarket Gamma API responses.
 * These structs map to the JSON returned by the /events endpoint.
 *
 * @notes
 * - Gamma is loose with types: numeric fields arrive as numbers or strings and
 *   outcome lists arrive as arrays or JSON-encoded strings. Decoders here never
 *   fail; they substitute defaults instead.
 * - A contract, tag or event that does not fit its struct is dropped on its own
 *   and never fails the page.
 */

package gamma

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// GammaEvent represents an event object from the Gamma API
type GammaEvent struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	EndDate     string        `json:"endDate"` // Gamma returns ISO strings
	Image       string        `json:"image"`
	Icon        string        `json:"icon"`
	Markets     []GammaMarket `json:"markets"`
	Tags        []GammaTag    `json:"tags"`
}

// GammaMarket represents a market (contract) nested under an event
type GammaMarket struct {
	ID             string          `json:"id"`
	Question       string          `json:"question"`
	GroupItemTitle string          `json:"groupItemTitle"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	EndDate        string          `json:"endDate"`
	Active         bool            `json:"active"`
	Closed         bool            `json:"closed"`
	Outcomes       json.RawMessage `json:"outcomes"`      // []string or stringified JSON
	OutcomePrices  json.RawMessage `json:"outcomePrices"` // []string or stringified JSON

	Volume       interface{} `json:"volume"` // Can be string or number
	VolumeNum    interface{} `json:"volumeNum"`
	Volume24hr   interface{} `json:"volume24hr"`
	Volume1wk    interface{} `json:"volume1wk"`
	Liquidity    interface{} `json:"liquidity"`
	LiquidityNum interface{} `json:"liquidityNum"`

	OneDayPriceChange   interface{} `json:"oneDayPriceChange"`
	OneWeekPriceChange  interface{} `json:"oneWeekPriceChange"`
	OneMonthPriceChange interface{} `json:"oneMonthPriceChange"`

	LastTradePrice  interface{} `json:"lastTradePrice"`
	BestBid         interface{} `json:"bestBid"`
	BestAsk         interface{} `json:"bestAsk"`
	Spread          interface{} `json:"spread"`
	Competitive     interface{} `json:"competitive"`
	AcceptingOrders *bool       `json:"acceptingOrders"`

	Image string `json:"image"`
	Icon  string `json:"icon"`
}

// GammaTag represents a tag object
type GammaTag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// UnmarshalJSON decodes contracts and tags one at a time. An entry that does
// not fit the struct is dropped; the rest of the event survives.
func (e *GammaEvent) UnmarshalJSON(data []byte) error {
	type eventAlias GammaEvent
	var raw struct {
		eventAlias
		Markets []json.RawMessage `json:"markets"`
		Tags    []json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = GammaEvent(raw.eventAlias)
	e.Markets = decodeEach[GammaMarket](raw.Markets)
	e.Tags = decodeEach[GammaTag](raw.Tags)
	return nil
}

// DecodeEvents decodes a page of events, dropping events that do not decode.
// It returns how many entries were dropped.
func DecodeEvents(data []byte) ([]GammaEvent, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}
	events := decodeEach[GammaEvent](raw)
	return events, len(raw) - len(events), nil
}

func decodeEach[T any](raw []json.RawMessage) []T {
	if raw == nil {
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// TagLabels returns the label of every tag, falling back to its slug
func (e *GammaEvent) TagLabels() []string {
	labels := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		if t.Label != "" {
			labels = append(labels, t.Label)
		} else {
			labels = append(labels, t.Slug)
		}
	}
	return labels
}

var defaultOutcomes = []string{"Yes", "No"}

// DecodeOutcomes decodes the outcome labels, defaulting to Yes/No
func DecodeOutcomes(raw json.RawMessage) []string {
	items, ok := decodeList(raw)
	if !ok || len(items) == 0 {
		return append([]string(nil), defaultOutcomes...)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			return append([]string(nil), defaultOutcomes...)
		}
	}
	return out
}

// DecodePrices decodes the outcome prices, defaulting to [0, 0].
// Individual entries that are not numeric become 0.
func DecodePrices(raw json.RawMessage) []float64 {
	items, ok := decodeList(raw)
	if !ok || len(items) == 0 {
		return []float64{0, 0}
	}
	out := make([]float64, len(items))
	for i, it := range items {
		out[i], _ = ParseFloat(it)
	}
	return out
}

// decodeList accepts a native JSON array or a string holding one
func decodeList(raw json.RawMessage) ([]interface{}, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, false
		}
		raw = []byte(encoded)
	}

	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// ParseFloat reads a number that may be encoded as a JSON number or string
func ParseFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

// finite rejects NaN and ±Inf, which strconv accepts but JSON cannot carry
func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FirstFloat returns the first value that parses to a non-zero number, else 0
func FirstFloat(values ...interface{}) float64 {
	for _, v := range values {
		if f, ok := ParseFloat(v); ok && f != 0 {
			return f
		}
	}
	return 0
}

// OptionalFloat returns nil when the value is absent or malformed
func OptionalFloat(v interface{}) *float64 {
	f, ok := ParseFloat(v)
	if !ok {
		return nil
	}
	return &f
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses the first non-empty ISO date among candidates
func ParseDate(candidates ...string) *time.Time {
	for _, s := range candidates {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}
