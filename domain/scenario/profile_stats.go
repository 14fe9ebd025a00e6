package scenario

import (
	"gonum.org/v1/gonum/stat"
)

// SpreadAround returns the standard deviation of configured profile
// temperatures within +/- window days of the given offset. A flat profile
// yields 0; fewer than two points in the window also yield 0.
//
// The temperature resolver scales profile confidence down as local spread
// grows: a volatile stretch of the curve is a worse stand-in for a missing
// measurement than a flat one.
func (p TemperatureProfile) SpreadAround(dayOffset, window int) float64 {
	var temps []float64
	for _, pt := range p {
		if pt.DayOffset >= dayOffset-window && pt.DayOffset <= dayOffset+window {
			temps = append(temps, pt.TemperatureC)
		}
	}
	if len(temps) < 2 {
		return 0
	}
	return stat.StdDev(temps, nil)
}

// MeanTemperature returns the mean of all configured profile temperatures.
func (p TemperatureProfile) MeanTemperature() float64 {
	if len(p) == 0 {
		return 0
	}
	temps := make([]float64, len(p))
	for i, pt := range p {
		temps[i] = pt.TemperatureC
	}
	return stat.Mean(temps, nil)
}
