package scoring

import (
	"math"

	"github.com/polyintel-project/backend/internal/models"
)

// ClassifyNewsLag flags prices that barely moved while resolution is close.
// An unknown 1d change is always LOW.
func ClassifyNewsLag(priceChange1d *float64, daysLeft float64) models.NewsLag {
	if priceChange1d == nil {
		return models.NewsLagLow
	}
	change := math.Abs(*priceChange1d)
	switch {
	case change < 0.005 && daysLeft < 3:
		return models.NewsLagHigh
	case change < 0.02 && daysLeft < 7:
		return models.NewsLagMedium
	default:
		return models.NewsLagLow
	}
}
