// Package teamnames resolves free-form fixture-line team names to the
// canonical spellings the historical CSV data and ELO/Kalman state use.
// Spec.md treats this as a wholly external collaborator; this package
// ships a minimal canonical-aliases table rather than the full
// Korean-to-English dictionary the original tool carried.
package teamnames

import "strings"

// Lookup resolves a free-form team name to its canonical spelling.
type Lookup interface {
	Normalize(raw string) (canonical string, ok bool)
}

// staticLookup is the default Lookup: common alternate spellings for
// the subset of clubs that appear under more than one name across
// football-data.co.uk's own league files.
type staticLookup struct {
	aliases map[string]string
}

// NewStatic returns the default alias-table Lookup.
func NewStatic() Lookup {
	aliases := map[string]string{
		"man united":    "Manchester Utd",
		"man utd":       "Manchester Utd",
		"manchester united": "Manchester Utd",
		"man city":      "Manchester City",
		"spurs":         "Tottenham",
		"inter milan":   "Inter",
		"internazionale": "Inter",
		"ac milan":      "AC Milan",
		"milan":         "AC Milan",
		"atletico madrid": "Ath Madrid",
		"real madrid":   "Real Madrid",
		"psg":           "Paris SG",
		"paris saint germain": "Paris SG",
	}
	return &staticLookup{aliases: aliases}
}

// Normalize looks raw up case-insensitively after trimming whitespace.
// A name not in the alias table is returned unchanged and ok=true,
// since most CSV team names need no remapping; ok=false only for an
// empty name.
func (s *staticLookup) Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if canonical, found := s.aliases[strings.ToLower(trimmed)]; found {
		return canonical, true
	}
	return trimmed, true
}
