package world

import (
	"math/rand"
	"sync"

	"pitwall/server/internal/wire"
)

// WeatherTemplate is one configured weather option.
type WeatherTemplate struct {
	Graphics          string
	BaseRoadTemp      float32
	VariationRoadTemp float32
	BaseAmbientTemp   float32
	VariationAmbient  float32
	WindMinSpeed      float32
	WindMaxSpeed      float32
	WindBaseDirection float32
	WindVariation     float32
}

// ResolvedWeather is one sampled-and-resolved weather instance, ready to
// broadcast.
type ResolvedWeather struct {
	Graphics      string
	AmbientTemp   float32
	RoadTemp      float32
	WindSpeed     float32
	WindDirection float32
}

// Weather holds the configured templates and the currently-resolved
// instance, guarded by a single mutex per the World Model's rw-lock design
// (§5): handshake/HTTP readers may hold it briefly, the tick writes on
// rotation.
type Weather struct {
	mu        sync.RWMutex
	templates []WeatherTemplate
	current   ResolvedWeather
	rng       *rand.Rand
}

func NewWeather(templates []WeatherTemplate, seed int64) *Weather {
	w := &Weather{templates: templates, rng: rand.New(rand.NewSource(seed))}
	if len(templates) > 0 {
		w.current = resolve(templates[0], w.rng)
	}
	return w
}

func uniform(rng *rand.Rand, base, variation float32) float32 {
	return base + (rng.Float32()*2-1)*variation
}

func resolve(t WeatherTemplate, rng *rand.Rand) ResolvedWeather {
	windSpeed := t.WindMinSpeed + rng.Float32()*(t.WindMaxSpeed-t.WindMinSpeed)
	dir := uniform(rng, t.WindBaseDirection, t.WindVariation)
	for dir < 0 {
		dir += 360
	}
	for dir >= 360 {
		dir -= 360
	}
	return ResolvedWeather{
		Graphics:      t.Graphics,
		AmbientTemp:   uniform(rng, t.BaseAmbientTemp, t.VariationAmbient),
		RoadTemp:      uniform(rng, t.BaseRoadTemp, t.VariationRoadTemp),
		WindSpeed:     windSpeed,
		WindDirection: dir,
	}
}

// Rotate uniformly samples a new template and resolves its values. Returns
// the new resolved weather to broadcast.
func (w *Weather) Rotate() ResolvedWeather {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.templates) == 0 {
		return w.current
	}
	t := w.templates[w.rng.Intn(len(w.templates))]
	w.current = resolve(t, w.rng)
	return w.current
}

// Current returns the currently-resolved weather.
func (w *Weather) Current() ResolvedWeather {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// ToWire narrows the resolved weather to the reference client's integer
// Weather layout: whole-degree temperatures, wind speed/direction as i16.
func (r ResolvedWeather) ToWire() wire.Weather {
	return wire.Weather{
		AmbientTemp:   uint8(r.AmbientTemp),
		RoadTemp:      uint8(r.RoadTemp),
		Graphics:      r.Graphics,
		WindSpeed:     int16(r.WindSpeed),
		WindDirection: int16(r.WindDirection),
	}
}
