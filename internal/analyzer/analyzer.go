// Package analyzer turns a fetched Profile into an AnalysisResult by building
// prompts, calling the LLM, and parsing the response. LLM and parse failures
// are absorbed into an error-shaped result; this package never surfaces them
// as errors.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"gramlens/internal/llm"
	"gramlens/internal/types"
)

const (
	comprehensiveMaxTokens   = 6000
	comprehensiveTemperature = 0.3
	narrativeMaxTokens       = 1000
)

// Analyzer runs LLM analysis over profiles.
type Analyzer struct {
	client      llm.Client
	model       string
	maxTokens   int
	temperature float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxTokens overrides the completion token budget for the comprehensive
// analysis. Zero keeps the default.
func WithMaxTokens(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithTemperature overrides the sampling temperature for the comprehensive
// analysis. Zero keeps the default.
func WithTemperature(t float64) Option {
	return func(a *Analyzer) {
		if t > 0 {
			a.temperature = t
		}
	}
}

// New creates an Analyzer using the given completion client. model is only
// recorded in result metadata; the client itself decides what it calls.
func New(client llm.Client, model string, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:      client,
		model:       model,
		maxTokens:   comprehensiveMaxTokens,
		temperature: comprehensiveTemperature,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the comprehensive structured analysis for a profile. It always
// returns a structurally valid result: upstream or parse failures produce the
// error-shaped fallback instead.
func (a *Analyzer) Analyze(ctx context.Context, profile *types.Profile) *types.AnalysisResult {
	now := time.Now().UTC()
	fb := FallbackContext{
		Username:  profile.Username,
		Biography: profile.Biography,
		Model:     a.model,
		Timestamp: now,
	}

	prompt := BuildComprehensivePrompt(profile, a.model, now)

	text, err := a.client.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		log.Printf("Comprehensive analysis failed for %s: %v", profile.Username, err)
		return ErrorResult(fb, err.Error())
	}

	log.Printf("Comprehensive analysis generated for %s", profile.Username)
	return ParseAnalysis(text, fb)
}

// NarrativeReport holds the plain-text companion reports.
type NarrativeReport struct {
	Report   string `json:"report"`
	Forensic string `json:"forensic"`
	Temporal string `json:"temporal,omitempty"`
}

// Narrative generates the plain-text report, forensic, and temporal analyses
// concurrently. A failed section carries its error message instead of
// failing the whole report.
func (a *Analyzer) Narrative(ctx context.Context, profile *types.Profile) *NarrativeReport {
	var report NarrativeReport

	run := func(prompt string, temperature float64, dst *string) func() error {
		return func() error {
			text, err := a.client.Complete(ctx, llm.Request{
				Prompt:      prompt,
				MaxTokens:   narrativeMaxTokens,
				Temperature: temperature,
			})
			if err != nil {
				*dst = fmt.Sprintf("Failed to generate report: %v", err)
				return nil
			}
			*dst = text
			return nil
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(run(BuildReportPrompt(profile.Username, profile.Biography), 0.5, &report.Report))
	g.Go(run(BuildForensicPrompt(profile.Biography), 0.4, &report.Forensic))
	if prompt := BuildTemporalPrompt(profile.Username, profile.Posts); prompt != "" {
		g.Go(run(prompt, 0.4, &report.Temporal))
	} else {
		report.Temporal = "No posts data available for analysis."
	}
	// Sections absorb their own failures, so Wait cannot return one.
	_ = g.Wait()

	return &report
}
