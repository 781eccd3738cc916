package mixer

import "math"

// Fader scale bounds in dB. Slider position 0 is treated as -inf.
const (
	DBMin = -60.0
	DBMax = 10.0
)

// SliderToDB maps a fader position (0..100) to its dB value.
func SliderToDB(position int) float64 {
	return DBMin + float64(position)/100.0*(DBMax-DBMin)
}

// DBToSlider maps a dB value back to the nearest fader position.
func DBToSlider(db float64) int {
	return int((db - DBMin) / (DBMax - DBMin) * 100)
}

// DBToGain converts decibels to linear gain.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDB converts linear gain to decibels. Zero or negative gain maps to
// DBMin, the bottom of the fader scale.
func GainToDB(gain float64) float64 {
	if gain <= 0 {
		return DBMin
	}
	return 20 * math.Log10(gain)
}

// SliderToGain maps a fader position straight to linear gain, with position 0
// yielding exact silence.
func SliderToGain(position int) float64 {
	if position <= 0 {
		return 0
	}
	return DBToGain(SliderToDB(position))
}

// GainToSlider maps linear gain back to a fader position.
func GainToSlider(gain float64) int {
	if gain <= 0 {
		return 0
	}
	return DBToSlider(GainToDB(gain))
}
