package matchstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

const sampleCSV = "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR,HS,AS,B365H,B365D,B365A\n" +
	"15/08/2023,Arsenal,Fulham,2,1,H,15,8,1.50,4.20,6.50\n" +
	"16/08/2023,Chelsea,Luton,1,1,D,12,6,1.60,3.90,5.80\n" +
	"bogus row with too few fields\n" +
	"17/08/2023,BadScore,Team,x,y,H\n"

func TestParseCSVParsesWellFormedRows(t *testing.T) {
	matches, skipped := ParseCSV("E0", []byte(sampleCSV))
	require.Len(t, matches, 2)
	assert.Equal(t, "Arsenal", matches[0].Home)
	assert.Equal(t, models.ResultHome, matches[0].Result)
	assert.Equal(t, models.ResultDraw, matches[1].Result)
	assert.GreaterOrEqual(t, skipped, 1)
}

func TestParseCSVCapturesOptionalOddsColumns(t *testing.T) {
	matches, _ := ParseCSV("E0", []byte(sampleCSV))
	require.Len(t, matches, 2)
	assert.InDelta(t, 1.50, matches[0].OddsH, 1e-9)
	assert.True(t, matches[0].HasOdds())
}

func TestParseCSVReturnsNothingWhenHeaderMissingRequiredColumn(t *testing.T) {
	body := "Date,HomeTeam,AwayTeam\n15/08/2023,Arsenal,Fulham\n"
	matches, skipped := ParseCSV("E0", []byte(body))
	assert.Nil(t, matches)
	assert.Equal(t, 0, skipped)
}

func TestParseCSVSkipsUnparseableDate(t *testing.T) {
	body := "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n" +
		"not-a-date,Arsenal,Fulham,2,1,H\n"
	matches, skipped := ParseCSV("E0", []byte(body))
	assert.Empty(t, matches)
	assert.Equal(t, 1, skipped)
}

func TestDecodeReplacingPassesThroughValidUTF8(t *testing.T) {
	out := decodeReplacing([]byte("Arsenal,Fulham"))
	assert.Equal(t, "Arsenal,Fulham", string(out))
}
