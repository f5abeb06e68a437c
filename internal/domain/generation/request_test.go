package generation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	req, err := Normalize(Request{Topic: "  Q4 Sales Review "})
	require.NoError(t, err)
	require.Equal(t, Request{
		Topic:    "Q4 Sales Review",
		Type:     "business_presentation",
		Audience: "general_employees",
		Duration: 15,
		Tone:     "professional",
		Template: "modern-elegant",
	}, req)
}

func TestNormalizeRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		msg  string
	}{
		{"type", Request{Topic: "x", Type: "roast"}, "unknown presentation type"},
		{"audience", Request{Topic: "x", Audience: "aliens"}, "unknown audience"},
		{"tone", Request{Topic: "x", Tone: "angry"}, "unknown tone"},
		{"template", Request{Topic: "x", Template: "comic-sans"}, "unknown template"},
		{"duration", Request{Topic: "x", Duration: -5}, "positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, CodeInvalidInput))
			require.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestMinutesAcceptsNumbersAndStrings(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"topic":"a","duration":"20"}`), &req))
	require.Equal(t, Minutes(20), req.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"topic":"a","duration":45}`), &req))
	require.Equal(t, Minutes(45), req.Duration)

	req = Request{}
	require.NoError(t, json.Unmarshal([]byte(`{"topic":"a","duration":null}`), &req))
	require.Equal(t, Minutes(0), req.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"topic":"a","duration":"soon"}`), &req))
	require.Error(t, json.Unmarshal([]byte(`{"topic":"a","duration":1.5}`), &req))
}

func TestNewIDIsUniqueAndFilenameSafe(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := defaultIDSource()
		require.NotContains(t, id, "-")
		require.NotContains(t, id, "/")
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
