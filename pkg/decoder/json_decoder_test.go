package decoder

import (
	"testing"

	"golang-alpha-seek/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verdictPayload struct {
	Summary   string `json:"summary"`
	Verdict   string `json:"verdict"`
	Rationale string `json:"rationale"`
}

func TestDecode_PlainObject(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	var out verdictPayload
	err := d.Decode(`{"summary":"ok","verdict":"Buy","rationale":"cheap"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "Buy", out.Verdict)
	assert.Equal(t, "cheap", out.Rationale)
}

func TestDecode_FencedObjectMatchesPlain(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	fenced := "```json\n{\"summary\":\"ok\",\"verdict\":\"Sell\",\"rationale\":\"expensive\"}\n```"
	plain := `{"summary":"ok","verdict":"Sell","rationale":"expensive"}`

	var fromFenced, fromPlain verdictPayload
	require.NoError(t, d.Decode(fenced, &fromFenced))
	require.NoError(t, d.Decode(plain, &fromPlain))
	assert.Equal(t, fromPlain, fromFenced)
}

func TestDecode_SurroundingProse(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	raw := "Here is the analysis you asked for:\n{\"summary\":\"fine\",\"verdict\":\"Hold\",\"rationale\":\"wait\"}\nLet me know if you need more."
	var out verdictPayload
	require.NoError(t, d.Decode(raw, &out))
	assert.Equal(t, "Hold", out.Verdict)
}

func TestDecode_EscapedNewlinePreserved(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	var out verdictPayload
	require.NoError(t, d.Decode(`{"summary":"line one\nline two","verdict":"Hold","rationale":"r"}`, &out))
	assert.Equal(t, "line one\nline two", out.Summary)
}

func TestDecode_NoObjectFound(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	var out verdictPayload
	err := d.Decode("the model refused to answer", &out)
	assert.Error(t, err)
}

func TestDecode_MalformedObject(t *testing.T) {
	d := NewJSONDecoder(logger.NewNop())

	var out verdictPayload
	err := d.Decode(`{"summary": "unterminated}`, &out)
	assert.Error(t, err)
}
