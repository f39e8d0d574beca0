package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"gramlens/internal/analyzer"
	"gramlens/internal/cache"
	"gramlens/internal/instagram"
	"gramlens/internal/session"
	"gramlens/internal/types"
)

type fakeSessions struct {
	creds session.Credentials
	err   error
	calls int
}

func (f *fakeSessions) Acquire(ctx context.Context) (session.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

type fakeFetcher struct {
	profile *types.Profile
	err     error
	calls   int
}

func (f *fakeFetcher) FetchProfile(ctx context.Context, username string, creds session.Credentials) (*types.Profile, error) {
	f.calls++
	return f.profile, f.err
}

type fakeAnalyzer struct {
	result         *types.AnalysisResult
	narrative      *analyzer.NarrativeReport
	calls          int
	narrativeCalls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, profile *types.Profile) *types.AnalysisResult {
	f.calls++
	return f.result
}

func (f *fakeAnalyzer) Narrative(ctx context.Context, profile *types.Profile) *analyzer.NarrativeReport {
	f.narrativeCalls++
	return f.narrative
}

type fakeCache struct {
	entry  *cache.Entry
	getErr error
	putErr error

	gotBypass bool
	puts      int
	written   time.Time
}

func (f *fakeCache) Get(username string, bypass bool) (*cache.Entry, bool, error) {
	f.gotBypass = bypass
	if bypass || f.entry == nil {
		return nil, false, f.getErr
	}
	return f.entry, true, f.getErr
}

func (f *fakeCache) Put(username string, profile *types.Profile, analysis *types.AnalysisResult) (time.Time, error) {
	f.puts++
	if f.putErr != nil {
		return time.Time{}, f.putErr
	}
	return f.written, nil
}

func testDeps() (*fakeSessions, *fakeFetcher, *fakeAnalyzer, *fakeCache) {
	return &fakeSessions{creds: session.Credentials{"sessionid": "s"}},
		&fakeFetcher{profile: &types.Profile{Username: "alice"}},
		&fakeAnalyzer{result: &types.AnalysisResult{}},
		&fakeCache{written: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRunCacheHitSkipsPipeline(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	cachedAt := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	store.entry = &cache.Entry{
		Username:  "alice",
		Profile:   &types.Profile{Username: "alice"},
		Analysis:  &types.AnalysisResult{},
		Timestamp: cachedAt,
	}

	p := New(sessions, fetcher, analyzer, store)
	result, err := p.Run(context.Background(), "alice", false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.FromCache {
		t.Error("FromCache false on a hit")
	}
	if !result.CachedAt.Equal(cachedAt) {
		t.Errorf("CachedAt: got %v", result.CachedAt)
	}
	if sessions.calls != 0 || fetcher.calls != 0 || analyzer.calls != 0 {
		t.Errorf("pipeline ran on a hit: sessions=%d fetch=%d analyze=%d",
			sessions.calls, fetcher.calls, analyzer.calls)
	}
	if store.puts != 0 {
		t.Error("cache written on a hit")
	}
}

func TestRunCacheMissRunsFullPipeline(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()

	p := New(sessions, fetcher, analyzer, store)
	result, err := p.Run(context.Background(), "alice", false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.FromCache {
		t.Error("FromCache true on a miss")
	}
	if result.Profile != fetcher.profile || result.Analysis != analyzer.result {
		t.Error("result does not carry the fresh profile/analysis")
	}
	if sessions.calls != 1 || fetcher.calls != 1 || analyzer.calls != 1 || store.puts != 1 {
		t.Errorf("stage counts: sessions=%d fetch=%d analyze=%d puts=%d",
			sessions.calls, fetcher.calls, analyzer.calls, store.puts)
	}
	if !result.CachedAt.Equal(store.written) {
		t.Errorf("CachedAt: got %v, want %v", result.CachedAt, store.written)
	}
}

func TestRunRefreshBypassesCache(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	store.entry = &cache.Entry{
		Username: "alice",
		Profile:  &types.Profile{Username: "alice"},
		Analysis: &types.AnalysisResult{},
	}

	p := New(sessions, fetcher, analyzer, store)
	result, err := p.Run(context.Background(), "alice", true, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !store.gotBypass {
		t.Error("bypass flag not forwarded to the cache")
	}
	if result.FromCache {
		t.Error("refresh served from cache")
	}
	if fetcher.calls != 1 || store.puts != 1 {
		t.Errorf("refresh should refetch and overwrite: fetch=%d puts=%d", fetcher.calls, store.puts)
	}
}

func TestRunFetchFailureLeavesCacheUntouched(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	fetcher.profile = nil
	fetcher.err = instagram.ErrNotFound

	p := New(sessions, fetcher, analyzer, store)
	_, err := p.Run(context.Background(), "nosuchuser", false, false)
	if !errors.Is(err, instagram.ErrNotFound) {
		t.Fatalf("err: got %v, want ErrNotFound", err)
	}

	if analyzer.calls != 0 {
		t.Error("analysis ran after a failed fetch")
	}
	if store.puts != 0 {
		t.Error("cache written after a failed fetch")
	}
}

func TestRunSessionFailureIsFatal(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	sessions.creds = nil
	sessions.err = errors.New("browser crashed")

	p := New(sessions, fetcher, analyzer, store)
	_, err := p.Run(context.Background(), "alice", false, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if fetcher.calls != 0 || store.puts != 0 {
		t.Errorf("pipeline continued past session failure: fetch=%d puts=%d", fetcher.calls, store.puts)
	}
}

func TestRunCacheReadFailureDegradesToMiss(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	store.getErr = errors.New("disk error")

	p := New(sessions, fetcher, analyzer, store)
	result, err := p.Run(context.Background(), "alice", false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FromCache {
		t.Error("broken cache reported a hit")
	}
	if fetcher.calls != 1 {
		t.Error("pipeline did not run after cache read failure")
	}
}

func TestRunCacheWriteFailureStillReturnsResult(t *testing.T) {
	sessions, fetcher, analyzer, store := testDeps()
	store.putErr = errors.New("disk full")

	p := New(sessions, fetcher, analyzer, store)
	result, err := p.Run(context.Background(), "alice", false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Profile == nil || result.Analysis == nil {
		t.Error("result dropped on cache write failure")
	}
	if !result.CachedAt.IsZero() {
		t.Errorf("CachedAt set despite failed write: %v", result.CachedAt)
	}
}

func TestRunNarrativeOnMiss(t *testing.T) {
	sessions, fetcher, an, store := testDeps()
	an.narrative = &analyzer.NarrativeReport{Report: "the report"}

	p := New(sessions, fetcher, an, store)
	result, err := p.Run(context.Background(), "alice", false, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Narrative == nil || result.Narrative.Report != "the report" {
		t.Errorf("narrative: %+v", result.Narrative)
	}
	if an.narrativeCalls != 1 {
		t.Errorf("narrative calls: got %d, want 1", an.narrativeCalls)
	}
}

func TestRunNarrativeOnHit(t *testing.T) {
	sessions, fetcher, an, store := testDeps()
	an.narrative = &analyzer.NarrativeReport{Report: "the report"}
	store.entry = &cache.Entry{
		Username: "alice",
		Profile:  &types.Profile{Username: "alice"},
		Analysis: &types.AnalysisResult{},
	}

	p := New(sessions, fetcher, an, store)
	result, err := p.Run(context.Background(), "alice", false, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Narrative is generated fresh even when profile and analysis come from
	// the cache.
	if !result.FromCache {
		t.Error("FromCache false on a hit")
	}
	if result.Narrative == nil || result.Narrative.Report != "the report" {
		t.Errorf("narrative: %+v", result.Narrative)
	}
	if fetcher.calls != 0 {
		t.Error("narrative request refetched the profile")
	}
}

func TestRunWithoutNarrativeSkipsIt(t *testing.T) {
	sessions, fetcher, an, store := testDeps()
	an.narrative = &analyzer.NarrativeReport{Report: "the report"}

	p := New(sessions, fetcher, an, store)
	result, err := p.Run(context.Background(), "alice", false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Narrative != nil {
		t.Errorf("narrative generated without being asked: %+v", result.Narrative)
	}
	if an.narrativeCalls != 0 {
		t.Errorf("narrative calls: got %d, want 0", an.narrativeCalls)
	}
}
