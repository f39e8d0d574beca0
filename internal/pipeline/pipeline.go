// Package pipeline composes the scrape-analyze-cache flow: check the cache,
// on a miss acquire a session, fetch the profile, run the LLM analysis, and
// write the result back.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"gramlens/internal/analyzer"
	"gramlens/internal/cache"
	"gramlens/internal/session"
	"gramlens/internal/types"
)

// SessionAcquirer obtains the credentials needed to call the profile API.
type SessionAcquirer interface {
	Acquire(ctx context.Context) (session.Credentials, error)
}

// ProfileFetcher fetches and normalizes one profile.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string, creds session.Credentials) (*types.Profile, error)
}

// ProfileAnalyzer produces analyses for a profile. Implementations absorb
// LLM and parse failures into the result itself.
type ProfileAnalyzer interface {
	Analyze(ctx context.Context, profile *types.Profile) *types.AnalysisResult
	Narrative(ctx context.Context, profile *types.Profile) *analyzer.NarrativeReport
}

// CacheStore is the persistence boundary.
type CacheStore interface {
	Get(username string, bypass bool) (*cache.Entry, bool, error)
	Put(username string, profile *types.Profile, analysis *types.AnalysisResult) (time.Time, error)
}

// Result is the contract handed to the presentation layer. Narrative is only
// set when the caller asked for it.
type Result struct {
	Profile   *types.Profile            `json:"profile"`
	Analysis  *types.AnalysisResult     `json:"analysis"`
	Narrative *analyzer.NarrativeReport `json:"narrative,omitempty"`
	FromCache bool                      `json:"from_cache"`
	CachedAt  time.Time                 `json:"cached_at"`
}

// Pipeline wires the collaborators together. All dependencies are injected;
// there is no hidden global state.
type Pipeline struct {
	sessions SessionAcquirer
	fetcher  ProfileFetcher
	analyzer ProfileAnalyzer
	cache    CacheStore
}

// New creates a Pipeline.
func New(sessions SessionAcquirer, fetcher ProfileFetcher, analyzer ProfileAnalyzer, store CacheStore) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		fetcher:  fetcher,
		analyzer: analyzer,
		cache:    store,
	}
}

// Run executes the pipeline for one username. refresh forces a cache miss.
// narrative additionally generates the plain-text companion reports, always
// fresh since only profile and analysis are cached. Session and fetch
// failures are fatal for the request and leave the cache untouched; cache
// read/write failures are logged and degrade gracefully.
func (p *Pipeline) Run(ctx context.Context, username string, refresh, narrative bool) (*Result, error) {
	entry, hit, err := p.cache.Get(username, refresh)
	if err != nil {
		// A broken cache degrades to a slower request, not a failure.
		log.Printf("Cache read failed for %s, treating as miss: %v", username, err)
	}
	if hit {
		log.Printf("Cache hit for %s", username)
		result := &Result{
			Profile:   entry.Profile,
			Analysis:  entry.Analysis,
			FromCache: true,
			CachedAt:  entry.Timestamp,
		}
		if narrative {
			result.Narrative = p.analyzer.Narrative(ctx, entry.Profile)
		}
		return result, nil
	}
	log.Printf("Cache miss for %s", username)

	creds, err := p.sessions.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("session acquisition failed: %w", err)
	}

	profile, err := p.fetcher.FetchProfile(ctx, username, creds)
	if err != nil {
		return nil, err
	}

	analysis := p.analyzer.Analyze(ctx, profile)

	result := &Result{Profile: profile, Analysis: analysis}
	if narrative {
		result.Narrative = p.analyzer.Narrative(ctx, profile)
	}
	if written, err := p.cache.Put(username, profile, analysis); err != nil {
		// The computed result is still good; losing the cache write only
		// costs the next request a re-fetch.
		log.Printf("Cache write failed for %s: %v", username, err)
	} else {
		result.CachedAt = written
	}

	return result, nil
}
