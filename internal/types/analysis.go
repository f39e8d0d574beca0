package types

// Confidence labels inferred/speculative findings.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// AnalysisVersionError marks an AnalysisResult produced by the error fallback
// path instead of a successful LLM parse.
const AnalysisVersionError = "error"

// AnalysisMetadata describes how and when an analysis was produced.
type AnalysisMetadata struct {
	TimestampUTC    string `json:"timestamp_utc"`
	ModelUsed       string `json:"model_used"`
	AnalysisVersion string `json:"analysis_version"`
}

// ProfileContext copies the key profile fields into the analysis so the result
// is self-describing.
type ProfileContext struct {
	Username       string `json:"username"`
	BiographyText  string `json:"biography_text"`
	FullName       string `json:"fullname,omitempty"`
	FollowerCount  int    `json:"follower_count,omitempty"`
	FollowingCount int    `json:"following_count,omitempty"`
	IsVerified     bool   `json:"is_verified,omitempty"`
}

type SentimentAnalysis struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type InitialProfileAnalysis struct {
	ProfileOverview    string            `json:"profile_overview"`
	BiographySummary   string            `json:"biography_summary"`
	SentimentAnalysis  SentimentAnalysis `json:"sentiment_analysis"`
	KeyInformation     []string          `json:"key_information"`
	PotentialInterests []string          `json:"potential_interests"`
}

type ExternalConnections struct {
	Usernames []string `json:"usernames"`
	URLs      []string `json:"urls"`
}

type ForensicAnalysis struct {
	PIIIndicators       []string            `json:"pii_indicators"`
	MentionedLocations  []string            `json:"mentioned_locations"`
	ExternalConnections ExternalConnections `json:"external_connections"`
	KeywordsOfInterest  []string            `json:"keywords_of_interest"`
	LanguageNotes       string              `json:"language_notes"`
}

type AuthenticityIndicators struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Neutral  []string `json:"neutral"`
}

type AccountAuthenticity struct {
	Assessment      string                 `json:"assessment"`
	Indicators      AuthenticityIndicators `json:"indicators"`
	Recommendations []string               `json:"recommendations"`
}

type EntityExtraction struct {
	Mentions          []string `json:"mentions"`
	Hashtags          []string `json:"hashtags"`
	URLs              []string `json:"urls"`
	Emails            []string `json:"emails"`
	PhoneNumbers      []string `json:"phone_numbers"`
	Locations         []string `json:"locations"`
	Organizations     []string `json:"organizations"`
	Persons           []string `json:"persons"`
	TechnologiesTools []string `json:"technologies_tools"`
	ProjectsProducts  []string `json:"projects_products"`
}

// PatternSummary pairs a prose summary with the individual patterns behind it.
type PatternSummary struct {
	Summary  string   `json:"summary"`
	Patterns []string `json:"patterns"`
}

type TemporalAnalysis struct {
	PostingFrequency   PatternSummary `json:"posting_frequency"`
	TimeOfDayPatterns  PatternSummary `json:"time_of_day_patterns"`
	SeasonalVariations []string       `json:"seasonal_variations"`
	GapsOrSpikes       []string       `json:"gaps_or_spikes"`
	EvolutionOverTime  string         `json:"evolution_over_time"`
	Anomalies          []string       `json:"anomalies"`
}

type TrendSummary struct {
	Summary string   `json:"summary"`
	Trends  []string `json:"trends"`
}

type AssessmentIndicators struct {
	Assessment string   `json:"assessment"`
	Indicators []string `json:"indicators"`
}

type PostAnalysis struct {
	Timestamp       string   `json:"timestamp"`
	Summary         string   `json:"summary"`
	KeyObservations []string `json:"key_observations"`
	Sentiment       string   `json:"sentiment"`
	Themes          []string `json:"themes"`
}

type ContentAnalysis struct {
	DominantThemes     []string             `json:"dominant_themes"`
	LinguisticStyle    PatternSummary       `json:"linguistic_style"`
	HashtagStrategy    string               `json:"hashtag_strategy"`
	MentionPatterns    []string             `json:"mention_patterns"`
	SentimentEvolution TrendSummary         `json:"sentiment_evolution"`
	ContentEvolution   string               `json:"content_evolution"`
	AutomatedVsHuman   AssessmentIndicators `json:"automated_vs_human"`
	ConcerningContent  []string             `json:"concerning_content"`
	PostAnalyses       []PostAnalysis       `json:"post_analyses"`
}

type InferredInterest struct {
	Interest   string     `json:"interest"`
	Reasoning  string     `json:"reasoning"`
	Confidence Confidence `json:"confidence"`
}

type InferredAffiliation struct {
	Affiliation string     `json:"affiliation"`
	Reasoning   string     `json:"reasoning"`
	Confidence  Confidence `json:"confidence"`
}

type InferredSkill struct {
	Skill      string     `json:"skill"`
	Reasoning  string     `json:"reasoning"`
	Confidence Confidence `json:"confidence"`
}

type InferredLocation struct {
	Location   string     `json:"location"`
	Reasoning  string     `json:"reasoning"`
	Confidence Confidence `json:"confidence"`
}

type InferredAnalysis struct {
	PotentialInterests    []InferredInterest    `json:"potential_interests"`
	PotentialAffiliations []InferredAffiliation `json:"potential_affiliations"`
	PotentialSkills       []InferredSkill       `json:"potential_skills"`
	PotentialLocations    []InferredLocation    `json:"potential_locations"`
}

type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

type NetworkGraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type HeatmapCell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type SentimentPoint struct {
	Timestamp int64   `json:"timestamp"`
	Sentiment float64 `json:"sentiment"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type WeightedNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type WeightedEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type MentionNetwork struct {
	Nodes []WeightedNode `json:"nodes"`
	Edges []WeightedEdge `json:"edges"`
}

type VisualizationData struct {
	PostingHeatmap    []HeatmapCell    `json:"posting_heatmap"`
	SentimentTimeline []SentimentPoint `json:"sentiment_timeline"`
	TopicDistribution []TopicCount     `json:"topic_distribution"`
	MentionNetwork    *MentionNetwork  `json:"mention_network,omitempty"`
}

// AnalysisResult is the canonical LLM-derived enrichment of a Profile.
// TemporalAnalysis and ContentAnalysis are present only when post data was
// available; every other enumerated array field is always present, possibly
// empty, never null. Call Normalize after unmarshalling to enforce that.
type AnalysisResult struct {
	AnalysisMetadata       AnalysisMetadata       `json:"analysis_metadata"`
	ProfileContext         ProfileContext         `json:"profile_context"`
	InitialProfileAnalysis InitialProfileAnalysis `json:"initial_profile_analysis"`
	ForensicAnalysis       ForensicAnalysis       `json:"forensic_analysis"`
	AccountAuthenticity    AccountAuthenticity    `json:"account_authenticity"`
	EntityExtraction       EntityExtraction       `json:"entity_extraction"`
	TemporalAnalysis       *TemporalAnalysis      `json:"temporal_analysis,omitempty"`
	ContentAnalysis        *ContentAnalysis       `json:"content_analysis,omitempty"`
	InferredAnalysis       InferredAnalysis       `json:"inferred_analysis"`
	NetworkGraphData       NetworkGraphData       `json:"network_graph_data"`
	VisualizationData      VisualizationData      `json:"visualization_data"`
}

func ensure(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Normalize replaces nil slices with empty ones so downstream consumers and
// re-serialization never see null where the schema promises an array.
func (r *AnalysisResult) Normalize() {
	ipa := &r.InitialProfileAnalysis
	ipa.KeyInformation = ensure(ipa.KeyInformation)
	ipa.PotentialInterests = ensure(ipa.PotentialInterests)

	fa := &r.ForensicAnalysis
	fa.PIIIndicators = ensure(fa.PIIIndicators)
	fa.MentionedLocations = ensure(fa.MentionedLocations)
	fa.ExternalConnections.Usernames = ensure(fa.ExternalConnections.Usernames)
	fa.ExternalConnections.URLs = ensure(fa.ExternalConnections.URLs)
	fa.KeywordsOfInterest = ensure(fa.KeywordsOfInterest)

	aa := &r.AccountAuthenticity
	aa.Indicators.Positive = ensure(aa.Indicators.Positive)
	aa.Indicators.Negative = ensure(aa.Indicators.Negative)
	aa.Indicators.Neutral = ensure(aa.Indicators.Neutral)
	aa.Recommendations = ensure(aa.Recommendations)

	ee := &r.EntityExtraction
	ee.Mentions = ensure(ee.Mentions)
	ee.Hashtags = ensure(ee.Hashtags)
	ee.URLs = ensure(ee.URLs)
	ee.Emails = ensure(ee.Emails)
	ee.PhoneNumbers = ensure(ee.PhoneNumbers)
	ee.Locations = ensure(ee.Locations)
	ee.Organizations = ensure(ee.Organizations)
	ee.Persons = ensure(ee.Persons)
	ee.TechnologiesTools = ensure(ee.TechnologiesTools)
	ee.ProjectsProducts = ensure(ee.ProjectsProducts)

	if ta := r.TemporalAnalysis; ta != nil {
		ta.PostingFrequency.Patterns = ensure(ta.PostingFrequency.Patterns)
		ta.TimeOfDayPatterns.Patterns = ensure(ta.TimeOfDayPatterns.Patterns)
		ta.SeasonalVariations = ensure(ta.SeasonalVariations)
		ta.GapsOrSpikes = ensure(ta.GapsOrSpikes)
		ta.Anomalies = ensure(ta.Anomalies)
	}

	if ca := r.ContentAnalysis; ca != nil {
		ca.DominantThemes = ensure(ca.DominantThemes)
		ca.LinguisticStyle.Patterns = ensure(ca.LinguisticStyle.Patterns)
		ca.MentionPatterns = ensure(ca.MentionPatterns)
		ca.SentimentEvolution.Trends = ensure(ca.SentimentEvolution.Trends)
		ca.AutomatedVsHuman.Indicators = ensure(ca.AutomatedVsHuman.Indicators)
		ca.ConcerningContent = ensure(ca.ConcerningContent)
		if ca.PostAnalyses == nil {
			ca.PostAnalyses = []PostAnalysis{}
		}
		for i := range ca.PostAnalyses {
			ca.PostAnalyses[i].KeyObservations = ensure(ca.PostAnalyses[i].KeyObservations)
			ca.PostAnalyses[i].Themes = ensure(ca.PostAnalyses[i].Themes)
		}
	}

	ia := &r.InferredAnalysis
	if ia.PotentialInterests == nil {
		ia.PotentialInterests = []InferredInterest{}
	}
	if ia.PotentialAffiliations == nil {
		ia.PotentialAffiliations = []InferredAffiliation{}
	}
	if ia.PotentialSkills == nil {
		ia.PotentialSkills = []InferredSkill{}
	}
	if ia.PotentialLocations == nil {
		ia.PotentialLocations = []InferredLocation{}
	}

	if r.NetworkGraphData.Nodes == nil {
		r.NetworkGraphData.Nodes = []GraphNode{}
	}
	if r.NetworkGraphData.Edges == nil {
		r.NetworkGraphData.Edges = []GraphEdge{}
	}

	vd := &r.VisualizationData
	if vd.PostingHeatmap == nil {
		vd.PostingHeatmap = []HeatmapCell{}
	}
	if vd.SentimentTimeline == nil {
		vd.SentimentTimeline = []SentimentPoint{}
	}
	if vd.TopicDistribution == nil {
		vd.TopicDistribution = []TopicCount{}
	}
	if vd.MentionNetwork != nil {
		if vd.MentionNetwork.Nodes == nil {
			vd.MentionNetwork.Nodes = []WeightedNode{}
		}
		if vd.MentionNetwork.Edges == nil {
			vd.MentionNetwork.Edges = []WeightedEdge{}
		}
	}
}
