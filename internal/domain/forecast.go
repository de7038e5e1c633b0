package domain

import "time"

// ForecastConfig is the model metadata loaded once from the artifacts
// directory and cached for the process lifetime. Never mutated after load.
type ForecastConfig struct {
	FreqMin  int    `json:"freq_min" validate:"required,min=1"`
	Lookback int    `json:"lookback" validate:"required,min=1"`
	Offsets  []int  `json:"offsets" validate:"required,min=1,dive,min=1"`
	Target   string `json:"target"`
	Units    string `json:"units"`
}

// MaxOffset returns the largest configured offset (step count).
func (c *ForecastConfig) MaxOffset() int {
	max := 0
	for _, o := range c.Offsets {
		if o > max {
			max = o
		}
	}
	return max
}

// HorizonMinutes is the forecast horizon past the anchor, in minutes.
func (c *ForecastConfig) HorizonMinutes() int {
	return c.FreqMin * c.MaxOffset()
}

// AnchorContext is the reference point and lookback window feeding the
// model. ContextValues has length exactly Lookback and ends at the anchor.
// Derived per request, never persisted.
type AnchorContext struct {
	AnchorTime    time.Time
	AnchorValue   float64
	ContextValues []float64
}

// ForecastPoint is one predicted value at a named offset past the anchor.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	ValueMgDl float64   `json:"value_mg_dl"`
	AheadMin  int       `json:"ahead_min"`
}

// ForecastOutput is the full model response for one anchor, with points in
// configured offset order.
type ForecastOutput struct {
	AnchorTime time.Time       `json:"anchor_time"`
	Config     ForecastConfig  `json:"config"`
	Predicted  []ForecastPoint `json:"predicted"`
}
