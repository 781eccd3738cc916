package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliderToDB(t *testing.T) {
	assert.InDelta(t, -60.0, SliderToDB(0), 1e-9)
	assert.InDelta(t, 10.0, SliderToDB(100), 1e-9)
	assert.InDelta(t, -25.0, SliderToDB(50), 1e-9)
}

func TestDBToSlider(t *testing.T) {
	assert.Equal(t, 0, DBToSlider(-60))
	assert.Equal(t, 100, DBToSlider(10))
	assert.Equal(t, 50, DBToSlider(-25))
}

func TestDBGainRoundTrip(t *testing.T) {
	for _, db := range []float64{-40, -12, -6, 0, 6, 10} {
		gain := DBToGain(db)
		assert.InDelta(t, db, GainToDB(gain), 1e-9, "round trip for %v dB", db)
	}
}

func TestDBToGainKnownValues(t *testing.T) {
	assert.InDelta(t, 1.0, DBToGain(0), 1e-9)
	assert.InDelta(t, 0.5011872336, DBToGain(-6), 1e-9)
	assert.InDelta(t, 2.0, DBToGain(6.0206), 1e-4)
}

func TestSliderToGain(t *testing.T) {
	t.Run("position zero is silence", func(t *testing.T) {
		assert.Zero(t, SliderToGain(0))
		assert.Zero(t, SliderToGain(-5))
	})

	t.Run("top of scale is +10 dB", func(t *testing.T) {
		assert.InDelta(t, DBToGain(10), SliderToGain(100), 1e-9)
	})
}

func TestGainToSlider(t *testing.T) {
	assert.Equal(t, 0, GainToSlider(0))
	assert.Equal(t, 100, GainToSlider(DBToGain(10)))

	// A mid-scale position survives the round trip.
	pos := 73
	assert.Equal(t, pos, GainToSlider(SliderToGain(pos)))
}

func TestGainToDBFloorsAtDBMin(t *testing.T) {
	assert.Equal(t, DBMin, GainToDB(0))
	assert.Equal(t, DBMin, GainToDB(-1))
}
