// Package models holds the data types shared across the forecasting
// pipeline: historical match records, prediction records, and the
// reflection entries retained for reweighted retraining.
package models

import "time"

// Result is the three-way outcome of a completed match.
type Result int

const (
	ResultAway Result = 0
	ResultDraw Result = 1
	ResultHome Result = 2
)

// Match is an immutable completed-match record, canonical once ingested.
type Match struct {
	Date    time.Time `json:"date"`
	League  string    `json:"league"`
	Season  string    `json:"season"`
	Home    string    `json:"home"`
	Away    string    `json:"away"`
	HGoals  int       `json:"h_goals"`
	AGoals  int       `json:"a_goals"`
	Result  Result    `json:"result"`
	HShots  float64   `json:"h_shots"`
	AShots  float64   `json:"a_shots"`
	HSOT    float64   `json:"h_sot"`
	ASOT    float64   `json:"a_sot"`
	OddsH   float64   `json:"odds_h"`
	OddsD   float64   `json:"odds_d"`
	OddsA   float64   `json:"odds_a"`
}

// ID is a deterministic identity for a match, used for idempotent
// ingestion and reflection bookkeeping: (home, away, date).
func (m Match) ID() string {
	return m.Home + "_vs_" + m.Away + "_" + m.Date.Format("2006-01-02")
}

// HasOdds reports whether all three pre-match odds were present.
func (m Match) HasOdds() bool {
	return m.OddsH > 0 && m.OddsD > 0 && m.OddsA > 0
}
