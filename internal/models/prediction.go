package models

import "time"

// Pick is the categorical forecast derived from a probability vector.
type Pick string

const (
	PickHome Pick = "H"
	PickDraw Pick = "D"
	PickAway Pick = "A"
)

// Prediction is the record emitted by the ensemble predictor and
// consumed by the Brier tracker. Invariants: PHome+PDraw+PAway sum to
// 1 within 1e-6, each probability in [0,1], Pick is argmax unless a
// draw rule in the predictor overrides it.
type Prediction struct {
	MatchID      string    `json:"match_id"`
	Home         string    `json:"home"`
	Away         string    `json:"away"`
	PHome        float64   `json:"p_h"`
	PDraw        float64   `json:"p_d"`
	PAway        float64   `json:"p_a"`
	Pick         Pick      `json:"pick"`
	Triggers     []string  `json:"triggers"`
	FeatureRow   [16]float64 `json:"feature_row,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	ActualResult *Result   `json:"actual_result,omitempty"`
	BrierScore   *float64  `json:"brier_score,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Closed reports whether a result has already been recorded against
// this prediction.
func (p *Prediction) Closed() bool {
	return p.ActualResult != nil
}

// ReflectionEntry is a past prediction's feature row retained with its
// realized label, reused with elevated sample weight on next fit.
type ReflectionEntry struct {
	MatchID  string     `json:"match_id"`
	Features [16]float64 `json:"features"`
	Label    Result     `json:"label"`
}
