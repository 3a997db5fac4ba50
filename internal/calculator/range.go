package calculator

import (
	"errors"
	"math"

	"ForecastLens/internal/model"
)

// ForecastRange returns the highest and lowest forecast prices.
func ForecastRange(points []model.ForecastPoint) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no forecast points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points {
		if p.Price > high {
			high = p.Price
		}
		if p.Price < low {
			low = p.Price
		}
	}
	return high, low, nil
}

// HistoricalRange scans bars and returns the high and low.
func HistoricalRange(bars []model.HistoricalBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no historical bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// ChangePct returns the percentage move from base to target.
func ChangePct(base, target float64) (float64, error) {
	if base == 0 {
		return 0, errors.New("base price must be non-zero")
	}
	return (target - base) / base * 100, nil
}
