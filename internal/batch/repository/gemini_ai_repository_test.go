package repository

import (
	"testing"

	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/pkg/decoder"
	"golang-alpha-seek/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeminiRepo() *geminiAIRepository {
	log := logger.NewNop()
	return &geminiAIRepository{
		logger:      log,
		jsonDecoder: decoder.NewJSONDecoder(log),
	}
}

func geminiResponseWith(text string) *dto.GeminiAPIResponse {
	return &dto.GeminiAPIResponse{
		Candidates: []dto.Candidate{{
			Content: dto.Content{Parts: []dto.Part{{Text: text}}},
		}},
	}
}

func TestParseVerdictResponse_NormalizesVerdict(t *testing.T) {
	r := newTestGeminiRepo()

	verdict, err := r.parseVerdictResponse(geminiResponseWith(
		`{"summary": "s", "verdict": "buy", "rationale": "r"}`,
	))
	require.NoError(t, err)
	assert.Equal(t, string(dto.VerdictBuy), verdict.Verdict)

	verdict, err = r.parseVerdictResponse(geminiResponseWith(
		`{"summary": "s", "verdict": "strong accumulate", "rationale": "r"}`,
	))
	require.NoError(t, err)
	assert.Equal(t, string(dto.VerdictHold), verdict.Verdict)
}

func TestParseVerdictResponse_FencedPayload(t *testing.T) {
	r := newTestGeminiRepo()

	verdict, err := r.parseVerdictResponse(geminiResponseWith(
		"```json\n{\"summary\": \"s\", \"verdict\": \"Sell\", \"rationale\": \"r\", \"outlook\": \"o\"}\n```",
	))
	require.NoError(t, err)
	assert.Equal(t, string(dto.VerdictSell), verdict.Verdict)
	assert.Equal(t, "o", verdict.Outlook)
}

func TestParseVerdictResponse_Errors(t *testing.T) {
	r := newTestGeminiRepo()

	_, err := r.parseVerdictResponse(&dto.GeminiAPIResponse{})
	assert.Error(t, err)

	_, err = r.parseVerdictResponse(geminiResponseWith("the market looks fine"))
	assert.Error(t, err)
}
