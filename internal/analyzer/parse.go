package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gramlens/internal/types"
)

// llmErrorSentinel is the legacy in-band failure marker. The LLM clients now
// return typed errors, but the parser still recognizes the prefix so any text
// carrying it is absorbed instead of being parsed as analysis.
const llmErrorSentinel = "LLM_ERROR:"

// FallbackContext carries the fields needed to build a well-formed error
// result when parsing fails.
type FallbackContext struct {
	Username  string
	Biography string
	Model     string
	Timestamp time.Time
}

// ParseAnalysis parses the LLM's text into an AnalysisResult. It never fails:
// on empty input, a sentinel-marked error, or malformed JSON it returns the
// error-shaped result from ErrorResult. Successful parses are normalized so
// every required array field is present.
func ParseAnalysis(raw string, fb FallbackContext) *types.AnalysisResult {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return ErrorResult(fb, "empty response from LLM")
	}
	if strings.HasPrefix(trimmed, llmErrorSentinel) {
		return ErrorResult(fb, trimmed)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return ErrorResult(fb, fmt.Sprintf("failed to parse analysis JSON: %v", err))
	}

	result.Normalize()
	return &result
}

// ErrorResult builds the fallback AnalysisResult: the metadata is marked with
// the error schema version, the narrative fields carry the error message,
// every required array is empty rather than absent, and the network graph is
// seeded with the profile owner.
func ErrorResult(fb FallbackContext, errMsg string) *types.AnalysisResult {
	result := &types.AnalysisResult{
		AnalysisMetadata: types.AnalysisMetadata{
			TimestampUTC:    fb.Timestamp.UTC().Format(time.RFC3339),
			ModelUsed:       fb.Model,
			AnalysisVersion: types.AnalysisVersionError,
		},
		ProfileContext: types.ProfileContext{
			Username:      fb.Username,
			BiographyText: fb.Biography,
		},
		InitialProfileAnalysis: types.InitialProfileAnalysis{
			ProfileOverview: fmt.Sprintf("Error analyzing profile: %s", errMsg),
			SentimentAnalysis: types.SentimentAnalysis{
				Label: "Error",
			},
		},
		AccountAuthenticity: types.AccountAuthenticity{
			Assessment: "Error during analysis",
		},
		NetworkGraphData: types.NetworkGraphData{
			Nodes: []types.GraphNode{
				{ID: "profile_owner", Label: fb.Username, Type: "ProfileOwner"},
			},
		},
		VisualizationData: types.VisualizationData{
			MentionNetwork: &types.MentionNetwork{},
		},
	}
	result.Normalize()
	return result
}
