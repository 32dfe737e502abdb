package dto

import (
	"encoding/json"
	"testing"

	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityInputUnmarshalNumeric(t *testing.T) {
	var s SeverityInput
	require.NoError(t, json.Unmarshal([]byte(`7`), &s))
	assert.True(t, s.Set)
	assert.Equal(t, 7, s.Score)
	assert.Empty(t, s.Tier)
}

func TestSeverityInputUnmarshalTier(t *testing.T) {
	var s SeverityInput
	require.NoError(t, json.Unmarshal([]byte(`"high"`), &s))
	assert.True(t, s.Set)
	assert.Equal(t, models.PriorityHigh, s.Tier)
}

func TestSeverityInputRejectsOutOfRange(t *testing.T) {
	var s SeverityInput
	assert.Error(t, json.Unmarshal([]byte(`0`), &s))
	assert.Error(t, json.Unmarshal([]byte(`11`), &s))
	assert.Error(t, json.Unmarshal([]byte(`"critical"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestSubmitReportRequestSeverityOptional(t *testing.T) {
	var req SubmitReportRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"target_kind": "user",
		"target_id": "abc",
		"reason_code": "harassment",
		"narrative": "sent threatening messages"
	}`), &req))
	assert.Nil(t, req.Severity)

	require.NoError(t, json.Unmarshal([]byte(`{
		"target_kind": "post",
		"target_id": "p1",
		"reason_code": "spam",
		"narrative": "link farm",
		"severity": 9
	}`), &req))
	require.NotNil(t, req.Severity)
	assert.Equal(t, 9, req.Severity.Score)
}
