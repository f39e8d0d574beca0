package analyzer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gramlens/internal/types"
)

var testFallback = FallbackContext{
	Username:  "alice",
	Biography: "hiker. coffee.",
	Model:     "test-model",
	Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
}

// requireArrays marshals the result and fails on any null where the schema
// promises an array.
func requireArrays(t *testing.T, result *types.AnalysisResult) {
	t.Helper()
	b, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		"key_information", "potential_interests", "pii_indicators",
		"mentioned_locations", "usernames", "urls", "keywords_of_interest",
		"positive", "negative", "neutral", "recommendations",
		"mentions", "hashtags", "emails", "phone_numbers", "locations",
		"organizations", "persons", "technologies_tools", "projects_products",
		"potential_affiliations", "potential_skills", "potential_locations",
		"nodes", "edges", "posting_heatmap", "sentiment_timeline",
		"topic_distribution",
	} {
		if strings.Contains(string(b), `"`+key+`":null`) {
			t.Errorf("%s serialized as null", key)
		}
	}
}

func TestParseAnalysisNeverFails(t *testing.T) {
	inputs := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t  "},
		{"not json", "I cannot analyze this profile."},
		{"truncated json", `{"analysis_metadata": {"model_used": "x"`},
		{"json array", `[1, 2, 3]`},
		{"sentinel", "LLM_ERROR: upstream timed out"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseAnalysis(tt.raw, testFallback)
			if result == nil {
				t.Fatal("nil result")
			}
			if result.AnalysisMetadata.AnalysisVersion != types.AnalysisVersionError {
				t.Errorf("analysis_version: got %q, want %q",
					result.AnalysisMetadata.AnalysisVersion, types.AnalysisVersionError)
			}
			requireArrays(t, result)
		})
	}
}

func TestErrorResultShape(t *testing.T) {
	result := ErrorResult(testFallback, "upstream timed out")

	if result.AnalysisMetadata.AnalysisVersion != "error" {
		t.Errorf("analysis_version: got %q", result.AnalysisMetadata.AnalysisVersion)
	}
	if result.AnalysisMetadata.ModelUsed != "test-model" {
		t.Errorf("model_used: got %q", result.AnalysisMetadata.ModelUsed)
	}
	if result.AnalysisMetadata.TimestampUTC != "2026-08-01T12:00:00Z" {
		t.Errorf("timestamp_utc: got %q", result.AnalysisMetadata.TimestampUTC)
	}
	if result.ProfileContext.Username != "alice" || result.ProfileContext.BiographyText != "hiker. coffee." {
		t.Errorf("profile_context: %+v", result.ProfileContext)
	}
	if !strings.Contains(result.InitialProfileAnalysis.ProfileOverview, "upstream timed out") {
		t.Errorf("profile_overview does not carry the error: %q", result.InitialProfileAnalysis.ProfileOverview)
	}
	if result.InitialProfileAnalysis.SentimentAnalysis.Label != "Error" {
		t.Errorf("sentiment label: got %q", result.InitialProfileAnalysis.SentimentAnalysis.Label)
	}
	if result.AccountAuthenticity.Assessment != "Error during analysis" {
		t.Errorf("assessment: got %q", result.AccountAuthenticity.Assessment)
	}

	nodes := result.NetworkGraphData.Nodes
	if len(nodes) != 1 || nodes[0].ID != "profile_owner" || nodes[0].Label != "alice" || nodes[0].Type != "ProfileOwner" {
		t.Errorf("graph nodes: %+v", nodes)
	}

	if len(result.InitialProfileAnalysis.KeyInformation) != 0 {
		t.Error("key_information not empty")
	}
	if len(result.EntityExtraction.Mentions) != 0 {
		t.Error("mentions not empty")
	}
	if result.TemporalAnalysis != nil || result.ContentAnalysis != nil {
		t.Error("post-only sections present in error result")
	}
	requireArrays(t, result)
}

func TestParseAnalysisNormalizesPartialJSON(t *testing.T) {
	raw := `{
		"analysis_metadata": {"timestamp_utc": "2026-08-01T12:00:00Z", "model_used": "m", "analysis_version": "1.0"},
		"initial_profile_analysis": {"profile_overview": "A hiker."},
		"entity_extraction": {"hashtags": ["#hiking"]},
		"content_analysis": {"dominant_themes": ["outdoors"], "post_analyses": [{"summary": "s"}]}
	}`

	result := ParseAnalysis(raw, testFallback)
	if result.AnalysisMetadata.AnalysisVersion != "1.0" {
		t.Fatalf("valid JSON treated as error: %+v", result.AnalysisMetadata)
	}
	if result.InitialProfileAnalysis.ProfileOverview != "A hiker." {
		t.Errorf("profile_overview: got %q", result.InitialProfileAnalysis.ProfileOverview)
	}
	if len(result.EntityExtraction.Hashtags) != 1 {
		t.Errorf("hashtags: %v", result.EntityExtraction.Hashtags)
	}

	// Omitted array fields come back empty, not nil.
	if result.EntityExtraction.Mentions == nil {
		t.Error("mentions is nil")
	}
	if result.NetworkGraphData.Nodes == nil {
		t.Error("graph nodes is nil")
	}
	if result.ContentAnalysis == nil {
		t.Fatal("content_analysis dropped")
	}
	if result.ContentAnalysis.ConcerningContent == nil {
		t.Error("concerning_content is nil")
	}
	if result.ContentAnalysis.PostAnalyses[0].KeyObservations == nil {
		t.Error("key_observations is nil")
	}
	// Absent optional sections stay absent.
	if result.TemporalAnalysis != nil {
		t.Error("temporal_analysis invented")
	}
	requireArrays(t, result)
}
