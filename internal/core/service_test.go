package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func localStub(score int, verdict Verdict) LocalAnalyzer {
	return func(text string) *AnalysisResult {
		return &AnalysisResult{
			Score:       score,
			Verdict:     verdict,
			Analysis:    "local analysis",
			Indicators:  []string{"⚠ indicator"},
			ContentType: ModeText,
			AIProvider:  ProviderLocalHeuristic,
			AIModel:     "pattern-engine-v3",
		}
	}
}

func passthroughMerge(local, external *AnalysisResult, provider, model string) *AnalysisResult {
	out := *external
	out.AIProvider = provider + "+" + ProviderLocalHeuristic
	out.AIModel = model
	return &out
}

func alwaysUsable(*AnalysisResult) bool { return true }
func neverUsable(*AnalysisResult) bool  { return false }

type fakeAIClient struct {
	result *AnalysisResult
	err    error
	calls  int
}

func (f *fakeAIClient) AnalyzeText(_ context.Context, _ string) (*AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeCache struct {
	entries map[string]*CacheEntry
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (f *fakeCache) Get(_ context.Context, signature string) (*CacheEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[signature]
	if !ok {
		return nil, errors.New("not found")
	}
	return entry, nil
}

func (f *fakeCache) Set(_ context.Context, entry *CacheEntry) error {
	f.entries[entry.Signature] = entry
	return nil
}

func (f *fakeCache) Delete(_ context.Context, signature string) error {
	delete(f.entries, signature)
	return nil
}

func (f *fakeCache) Cleanup(_ context.Context) error { return nil }

func newService(analyze LocalAnalyzer, ai AIClient, usable UsableFunc, cache CacheRepository) *AnalysisService {
	provider := ""
	model := ""
	if ai != nil {
		provider = ProviderGemini
		model = "gemini-1.5-flash"
	}
	return NewAnalysisService(
		analyze,
		passthroughMerge,
		usable,
		ai,
		provider,
		model,
		cache,
		cache != nil,
		time.Hour,
		10000,
		zap.NewNop(),
	)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	svc := newService(localStub(50, VerdictProceedWithCaution), nil, alwaysUsable, nil)

	_, err := svc.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.Analyze(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAnalyzeInputTooLong(t *testing.T) {
	svc := newService(localStub(50, VerdictProceedWithCaution), nil, alwaysUsable, nil)

	long := make([]byte, 10001)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.Analyze(context.Background(), string(long))
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestAnalyzeLocalOnly(t *testing.T) {
	svc := newService(localStub(80, VerdictLikelyLegitimate), nil, alwaysUsable, nil)

	result, err := svc.Analyze(context.Background(), "some ordinary text")
	require.NoError(t, err)
	assert.Equal(t, 80, result.Score)
	assert.Equal(t, ProviderLocalHeuristic, result.AIProvider)
}

func TestAnalyzeLocalPanicBecomesError(t *testing.T) {
	panicking := func(string) *AnalysisResult { panic("scorer bug") }
	svc := newService(panicking, nil, alwaysUsable, nil)

	_, err := svc.Analyze(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAnalysisUnavailable)
}

func TestAnalyzeMergesUsableAIResult(t *testing.T) {
	ai := &fakeAIClient{result: &AnalysisResult{
		Score:      70,
		Verdict:    VerdictProceedWithCaution,
		Analysis:   "external analysis prose of sufficient length",
		Indicators: []string{"✓ external"},
	}}
	svc := newService(localStub(40, VerdictProceedWithCaution), ai, alwaysUsable, nil)

	result, err := svc.Analyze(context.Background(), "content to verify")
	require.NoError(t, err)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, 70, result.Score)
	assert.Equal(t, "gemini-api+local-heuristic", result.AIProvider)
}

func TestAnalyzeAIFailureFallsBackOnce(t *testing.T) {
	ai := &fakeAIClient{err: errors.New("provider unavailable")}
	svc := newService(localStub(45, VerdictProceedWithCaution), ai, alwaysUsable, nil)

	result, err := svc.Analyze(context.Background(), "content to verify")
	require.NoError(t, err, "an AI failure must not surface as a request failure")
	assert.Equal(t, 1, ai.calls, "the AI call is never retried")
	assert.Equal(t, 45, result.Score)
	assert.Equal(t, ProviderLocalHeuristic, result.AIProvider)
	assert.Equal(t, ModelLocalFallback, result.AIModel)
}

func TestAnalyzeUnusableAIResultFallsBack(t *testing.T) {
	ai := &fakeAIClient{result: &AnalysisResult{Score: 70}}
	svc := newService(localStub(45, VerdictProceedWithCaution), ai, neverUsable, nil)

	result, err := svc.Analyze(context.Background(), "content to verify")
	require.NoError(t, err)
	assert.Equal(t, 45, result.Score)
	assert.Equal(t, ModelLocalFallback, result.AIModel)
}

func TestAnalyzeCachesResult(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	counting := func(text string) *AnalysisResult {
		calls++
		return localStub(60, VerdictProceedWithCaution)(text)
	}
	svc := newService(counting, nil, alwaysUsable, cache)

	first, err := svc.Analyze(context.Background(), "repeatable content")
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), "repeatable content")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second analysis should be served from cache")
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Verdict, second.Verdict)
}

func TestAnalyzeCacheKeyNormalization(t *testing.T) {
	assert.Equal(t, Signature("  Hello World  "), Signature("hello world"))
	assert.NotEqual(t, Signature("hello world"), Signature("hello worlds"))
}

func TestAnalyzeCacheFailureIsNotFatal(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("backend down")
	svc := newService(localStub(60, VerdictProceedWithCaution), nil, alwaysUsable, cache)

	result, err := svc.Analyze(context.Background(), "content")
	require.NoError(t, err)
	assert.Equal(t, 60, result.Score)
}
