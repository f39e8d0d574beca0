package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gramlens/internal/types"
)

// maxSampleTimestamps caps the timestamp list embedded in the comprehensive
// prompt to bound prompt size.
const maxSampleTimestamps = 50

// escapeJSON returns s as a JSON string literal (including the surrounding
// quotes) so free text can be embedded in a requested JSON output format
// without quotes or newlines breaking it.
func escapeJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func isoDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// sortedByTimestamp returns a copy of posts ordered oldest to newest.
func sortedByTimestamp(posts []types.Post) []types.Post {
	out := make([]types.Post, len(posts))
	copy(out, posts)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// formatPosts renders posts for content analysis, one block per post with a
// human-readable derived date.
func formatPosts(posts []types.Post) string {
	var sb strings.Builder
	for i, p := range posts {
		caption := p.Caption
		if caption == "" {
			caption = "None"
		}
		tagged := "None"
		if len(p.TaggedUsers) > 0 {
			tagged = strings.Join(p.TaggedUsers, ", ")
		}
		location := p.Location
		if location == "" {
			location = "None"
		}
		fmt.Fprintf(&sb, "Post %d:\n  Date: %s\n  Caption: %s\n  Tagged: %s\n  Location: %s\n\n",
			i+1, isoDate(p.Timestamp), caption, tagged, location)
	}
	return sb.String()
}

// formatTimeline renders the oldest/newest bounds plus a capped sample of
// timestamps for temporal analysis. posts must already be sorted ascending.
func formatTimeline(posts []types.Post) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Post Timeline:\n- Oldest: %s\n- Newest: %s\n- Post Count: %d\n",
		isoDate(posts[0].Timestamp), isoDate(posts[len(posts)-1].Timestamp), len(posts))

	sb.WriteString("Sample Timestamps:\n")
	limit := min(maxSampleTimestamps, len(posts))
	for _, p := range posts[:limit] {
		fmt.Fprintf(&sb, "- %s\n", isoDate(p.Timestamp))
	}
	return sb.String()
}

// BuildComprehensivePrompt constructs the single structured prompt covering
// the full analysis schema. The biography is JSON-escaped before embedding;
// the schema text tells the model to use empty arrays/strings, never null.
func BuildComprehensivePrompt(profile *types.Profile, model string, now time.Time) string {
	timestamp := now.UTC().Format(time.RFC3339)
	escapedBio := escapeJSON(profile.Biography)
	hasPosts := len(profile.Posts) > 0

	var sb strings.Builder

	sb.WriteString("You are a digital forensics expert specializing in social media analysis. ")
	sb.WriteString("You need to analyze an Instagram profile and provide a complete, structured analysis in JSON format that can be parsed by a frontend visualization system.\n\n")

	sb.WriteString("PROFILE DATA:\n")
	fmt.Fprintf(&sb, "- Username: %s\n", profile.Username)
	fmt.Fprintf(&sb, "- Biography: %s\n", escapedBio)
	if profile.FullName != "" {
		fmt.Fprintf(&sb, "- Full Name: %s\n", profile.FullName)
	}
	fmt.Fprintf(&sb, "- Followers: %d\n", profile.FollowerCount)
	fmt.Fprintf(&sb, "- Following: %d\n", profile.FollowingCount)
	fmt.Fprintf(&sb, "- Verified: %t\n", profile.IsVerified)
	sb.WriteString("\n")

	if hasPosts {
		sorted := sortedByTimestamp(profile.Posts)
		sb.WriteString("POST DATA:\n")
		sb.WriteString(formatPosts(sorted))
		sb.WriteString("\nTIMELINE DATA:\n")
		sb.WriteString(formatTimeline(sorted))
	} else {
		sb.WriteString("No posts data available for analysis.\n")
	}

	sb.WriteString(`
ANALYSIS REQUIREMENTS:
1. Analyze all provided profile information.
2. Identify patterns, entities, and insights.
3. Format your entire response as a SINGLE, well-structured JSON object matching the exact schema provided below.
4. Include detailed analysis across all available dimensions.
5. Generate appropriate data for visualizations where applicable.
6. If certain data is unavailable, include empty arrays or appropriate default values rather than omitting keys.

OUTPUT FORMAT:
Respond ONLY with a valid JSON object following this exact structure:

`)

	sb.WriteString("{\n")
	fmt.Fprintf(&sb, `  "analysis_metadata": {
    "timestamp_utc": "%s",
    "model_used": "%s",
    "analysis_version": "1.0"
  },
`, timestamp, model)
	fmt.Fprintf(&sb, `  "profile_context": {
    "username": "%s",
    "biography_text": %s
  },
`, profile.Username, escapedBio)
	sb.WriteString(`  "initial_profile_analysis": {
    "profile_overview": "",
    "biography_summary": "",
    "sentiment_analysis": {"label": "", "score": 0.0},
    "key_information": [],
    "potential_interests": []
  },
  "forensic_analysis": {
    "pii_indicators": [],
    "mentioned_locations": [],
    "external_connections": {"usernames": [], "urls": []},
    "keywords_of_interest": [],
    "language_notes": ""
  },
  "account_authenticity": {
    "assessment": "",
    "indicators": {"positive": [], "negative": [], "neutral": []},
    "recommendations": []
  },
  "entity_extraction": {
    "mentions": [],
    "hashtags": [],
    "urls": [],
    "emails": [],
    "phone_numbers": [],
    "locations": [],
    "organizations": [],
    "persons": [],
    "technologies_tools": [],
    "projects_products": []
  },
`)
	if hasPosts {
		sb.WriteString(`  "temporal_analysis": {
    "posting_frequency": {"summary": "", "patterns": []},
    "time_of_day_patterns": {"summary": "", "patterns": []},
    "seasonal_variations": [],
    "gaps_or_spikes": [],
    "evolution_over_time": "",
    "anomalies": []
  },
  "content_analysis": {
    "dominant_themes": [],
    "linguistic_style": {"summary": "", "patterns": []},
    "hashtag_strategy": "",
    "mention_patterns": [],
    "sentiment_evolution": {"summary": "", "trends": []},
    "content_evolution": "",
    "automated_vs_human": {"assessment": "", "indicators": []},
    "concerning_content": [],
    "post_analyses": [
      {"timestamp": "YYYY-MM-DDTHH:mm:ssZ", "summary": "", "key_observations": [], "sentiment": "", "themes": []}
    ]
  },
`)
	}
	sb.WriteString(`  "inferred_analysis": {
    "potential_interests": [{"interest": "", "reasoning": "", "confidence": "Low/Medium/High"}],
    "potential_affiliations": [{"affiliation": "", "reasoning": "", "confidence": "Low/Medium/High"}],
    "potential_skills": [{"skill": "", "reasoning": "", "confidence": "Low/Medium/High"}],
    "potential_locations": [{"location": "", "reasoning": "", "confidence": "Low/Medium/High"}]
  },
`)
	fmt.Fprintf(&sb, `  "network_graph_data": {
    "nodes": [
      {"id": "profile_owner", "label": "%s", "type": "ProfileOwner"}
    ],
    "edges": []
  },
`, profile.Username)
	if hasPosts {
		sb.WriteString(`  "visualization_data": {
    "posting_heatmap": [{"day": 0, "hour": 0, "count": 0}],
    "sentiment_timeline": [{"timestamp": 0, "sentiment": 0.0}],
    "topic_distribution": [{"topic": "", "count": 0}],
    "mention_network": {"nodes": [], "edges": []}
  }
}
`)
	} else {
		sb.WriteString(`  "visualization_data": {
    "posting_heatmap": [],
    "sentiment_timeline": [],
    "topic_distribution": []
  }
}
`)
	}

	sb.WriteString(`
IMPORTANT NOTES:
- Your entire response must be ONLY a valid, parseable JSON object. No explanatory text before or after. No markdown formatting outside the JSON.
- Use numeric values for scores (not strings).
- Confidence values must be exactly "Low", "Medium", or "High".
- Use empty arrays [] rather than null for missing list data.
- Use empty strings "" rather than null for missing text fields.
`)

	return sb.String()
}

// BuildReportPrompt constructs the plain-text "initial reconnaissance" prompt
// from the username and biography alone.
func BuildReportPrompt(username, biography string) string {
	var sb strings.Builder
	sb.WriteString("**Task:** Generate an \"Initial Profile Reconnaissance\" report based *only* on the provided Instagram biography text and username context. Output ONLY plain text.\n\n")
	fmt.Fprintf(&sb, "**Username Context:** Analyze potential implications of the username (%s) itself if relevant.\n", username)
	fmt.Fprintf(&sb, "**Biography Text:** %s\n\n", escapeJSON(biography))
	sb.WriteString("**Report Structure (Use Plain Text Headings/Lists):**\n")
	fmt.Fprintf(&sb, "1. Profile Overview: Briefly mention the username (%s).\n", username)
	sb.WriteString(`2. Biography Summary: Summarize the key themes, stated purpose, or activities mentioned in the biography text (2-4 sentences). If empty or nonsensical, state that.
3. Sentiment Analysis: State the inferred overall sentiment of the biography text (Positive, Negative, Neutral, Mixed, or Not Applicable if empty/nonsensical).
4. Key Information Extraction: List any explicitly mentioned key entities like locations, organizations, projects, or skills identified directly in the bio text. If none, state "No specific entities mentioned." Use simple list format (e.g., "- Entity 1").
5. Potential Interests (Inferred): Briefly mention 1-2 potential high-level interests that might be inferred speculatively from the bio or username, clearly labeling them as such. If none inferred, state "No specific interests could be reasonably inferred."
6. Concluding Remark: Add a brief concluding sentence (e.g., "Analysis based solely on provided bio text.").

**Output:** Generate ONLY the plain text report. Do NOT use any markdown formatting (no asterisks, no hashes, no markdown lists). Use simple line breaks for structure.
`)
	return sb.String()
}

// BuildForensicPrompt constructs the plain-text forensic-indicator prompt.
func BuildForensicPrompt(biography string) string {
	var sb strings.Builder
	sb.WriteString("**Task:** Analyze the provided Instagram biography text *strictly* for potential digital forensic points of interest. Focus *only* on patterns and explicit mentions within the text provided. Do not make assumptions beyond the text. Output ONLY plain text.\n\n")
	fmt.Fprintf(&sb, "**Biography Text:** %s\n\n", escapeJSON(biography))
	sb.WriteString(`**Analysis Points (Use Plain Text Headings/Lists):**
1. Potential PII Indicators: Identify any patterns that might resemble PII (e.g., email format user@domain.com, phone number patterns XXX-XXX-XXXX, specific location names). Note the presence of the pattern/mention found in the text. If none, state "No direct PII pattern indicators identified in the bio text."
2. Explicitly Mentioned Locations: List any specific cities, states, countries, or landmarks mentioned. If none, state "No locations mentioned." Use simple list format.
3. Explicit Mentions/Connections: List any other usernames (@mentions) or specific websites (URLs beginning with http/https) found directly in the text. If none, state "No external usernames or URLs mentioned." Use simple list format.
4. Keywords/Themes of Interest: List 3-5 key terms or concepts directly present in the bio that might be relevant for further investigation. If none, state "No specific keywords/themes identified."
5. Language/Tone Notes: Briefly comment if the language used seems unusual, coded, highly technical, or noteworthy in tone (optional, only if prominent).

**Output:** Generate ONLY the analysis notes as plain text. Use simple headings and simple lists. Do NOT use any markdown formatting. State clearly if no relevant information was found for a point.
`)
	return sb.String()
}

// BuildTemporalPrompt constructs the posting-pattern prompt over the post
// timeline. Returns "" when there are no posts to analyze.
func BuildTemporalPrompt(username string, posts []types.Post) string {
	if len(posts) == 0 {
		return ""
	}
	sorted := sortedByTimestamp(posts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "As a digital forensics analyst, examine the following Instagram posting timeline data for user %s. The data spans from %s to %s.\n\n",
		username, isoDate(sorted[0].Timestamp), isoDate(sorted[len(sorted)-1].Timestamp))
	sb.WriteString("Post timestamps:\n")
	for _, p := range sorted {
		fmt.Fprintf(&sb, "%s\n", isoDate(p.Timestamp))
	}
	sb.WriteString(`
Analyze this data to determine:
1. Posting frequency patterns (daily, weekly, monthly trends)
2. Time-of-day patterns (when posts are typically published)
3. Seasonal or periodic variations in posting activity
4. Unusual gaps or spikes in posting frequency
5. Evolution of posting behavior over time

Present your findings as plain text with specific examples from the data and identify any anomalies that might warrant further investigation.
`)
	return sb.String()
}
