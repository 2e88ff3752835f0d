package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVerdict(t *testing.T) {
	assert.Equal(t, VerdictBuy, NormalizeVerdict("buy"))
	assert.Equal(t, VerdictBuy, NormalizeVerdict(" BUY "))
	assert.Equal(t, VerdictSell, NormalizeVerdict("Sell"))
	assert.Equal(t, VerdictHold, NormalizeVerdict("hold"))

	// anything unrecognized collapses to Hold
	assert.Equal(t, VerdictHold, NormalizeVerdict("strong buy"))
	assert.Equal(t, VerdictHold, NormalizeVerdict(""))
}

func TestFallbackVerdict(t *testing.T) {
	v := FallbackVerdict()
	assert.Equal(t, "Analysis data unavailable due to formatting error.", v.Summary)
	assert.Equal(t, string(VerdictHold), v.Verdict)
	assert.Equal(t, "Pending manual review.", v.Rationale)
	assert.Empty(t, v.Outlook)
}
