// Package matchstore fetches and caches historical match results from
// football-data.co.uk-shaped CSV endpoints and exposes them as a
// time-ordered sequence for the feature builder and feedback loop.
package matchstore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

const csvDateLayout = "02/01/2006"

// requiredColumns mirrors the original fetcher's sanity check: rows
// are only parsed when the header carries these fields.
var requiredColumns = []string{"HomeTeam", "AwayTeam", "FTHG", "FTAG", "FTR", "Date"}

// fetchCSV downloads one league/season CSV and returns its decoded
// body, replacing byte sequences the source encoding cannot represent
// rather than failing the whole fetch over a handful of bad bytes.
func fetchCSV(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("matchstore: build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", "soccer-guardian/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matchstore: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("matchstore: %s returned status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("matchstore: read body of %s: %w", url, err)
	}

	return decodeReplacing(raw), nil
}

// decodeReplacing runs raw bytes through a UTF-8 transformer that
// substitutes the Unicode replacement character for any byte sequence
// it cannot interpret, instead of aborting the whole fetch.
func decodeReplacing(raw []byte) []byte {
	decoder := unicode.UTF8.NewDecoder()
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		// Fall back to a byte-level scrub: the UTF-8
		// decoder only errors on structurally invalid sequences, which
		// the replacement transformer below absorbs.
		out = scrubInvalidUTF8(raw)
	}
	return out
}

// scrubInvalidUTF8 replaces invalid UTF-8 byte sequences one rune at a
// time using the standard replacement-decoder transform chain.
func scrubInvalidUTF8(raw []byte) []byte {
	t := transform.Chain(encoding.Replacement.NewEncoder())
	out, _, err := transform.Bytes(t, raw)
	if err != nil {
		return raw
	}
	return out
}

// ParseCSV parses a decoded football-data.co.uk CSV body into Matches,
// skipping malformed rows and counting them rather than aborting.
func ParseCSV(league string, body []byte) ([]models.Match, int) {
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, 0
	}
	header := splitCSVLine(scanner.Text())
	col := columnIndex(header)

	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			log.Warn().Str("league", league).Str("column", name).Msg("matchstore: CSV missing required column")
			return nil, 0
		}
	}

	var matches []models.Match
	skipped := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitCSVLine(line)
		m, ok := parseRow(league, col, fields)
		if !ok {
			skipped++
			continue
		}
		matches = append(matches, m)
	}

	if skipped > 0 {
		metrics.CSVRowsSkipped.WithLabelValues(league, "").Add(float64(skipped))
	}
	return matches, skipped
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(league string, col map[string]int, fields []string) (models.Match, bool) {
	get := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(fields) {
			return "", false
		}
		return strings.TrimSpace(fields[i]), true
	}

	date, ok := get("Date")
	if !ok {
		return models.Match{}, false
	}
	parsedDate, err := time.Parse(csvDateLayout, date)
	if err != nil {
		return models.Match{}, false
	}

	home, ok1 := get("HomeTeam")
	away, ok2 := get("AwayTeam")
	if !ok1 || !ok2 || home == "" || away == "" {
		return models.Match{}, false
	}

	hgStr, _ := get("FTHG")
	agStr, _ := get("FTAG")
	hg, err1 := strconv.Atoi(hgStr)
	ag, err2 := strconv.Atoi(agStr)
	if err1 != nil || err2 != nil {
		return models.Match{}, false
	}

	ftr, _ := get("FTR")
	var result models.Result
	switch ftr {
	case "H":
		result = models.ResultHome
	case "D":
		result = models.ResultDraw
	case "A":
		result = models.ResultAway
	default:
		return models.Match{}, false
	}

	m := models.Match{
		Date:   parsedDate,
		League: league,
		Home:   home,
		Away:   away,
		HGoals: hg,
		AGoals: ag,
		Result: result,
	}
	if v, ok := get("HS"); ok {
		m.HShots = parseFloatOrZero(v)
	}
	if v, ok := get("AS"); ok {
		m.AShots = parseFloatOrZero(v)
	}
	if v, ok := get("HST"); ok {
		m.HSOT = parseFloatOrZero(v)
	}
	if v, ok := get("AST"); ok {
		m.ASOT = parseFloatOrZero(v)
	}
	if v, ok := get("B365H"); ok {
		m.OddsH = parseFloatOrZero(v)
	}
	if v, ok := get("B365D"); ok {
		m.OddsD = parseFloatOrZero(v)
	}
	if v, ok := get("B365A"); ok {
		m.OddsA = parseFloatOrZero(v)
	}

	return m, true
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// splitCSVLine is a lenient comma-splitter: football-data.co.uk CSVs
// do not quote fields, so a full RFC 4180 parser is unneeded and would
// reject the rare malformed row this package is built to skip instead.
func splitCSVLine(line string) []string {
	return strings.Split(line, ",")
}
