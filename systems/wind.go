package systems

import opensimplex "github.com/ojrac/opensimplex-go"

// Wind produces smooth gusts layered over the steady left wind.
type Wind struct {
	noise    opensimplex.Noise
	strength float64
	scale    float64
}

// NewWind creates a gust source. A zero strength yields a steady wind.
func NewWind(seed int64, strength, scale float64) *Wind {
	return &Wind{
		noise:    opensimplex.New(seed),
		strength: strength,
		scale:    scale,
	}
}

// Gust returns the extra wind at the given tick, in [-strength, strength].
func (w *Wind) Gust(tick int32) float64 {
	if w == nil || w.strength == 0 {
		return 0
	}
	return w.strength * w.noise.Eval2(float64(tick)*w.scale, 0)
}
