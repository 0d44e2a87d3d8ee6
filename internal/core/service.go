package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEmptyInput is returned when the input text is empty or whitespace.
	ErrEmptyInput = errors.New("text content is required for verification")
	// ErrInputTooLong is returned when the input exceeds the configured limit.
	ErrInputTooLong = errors.New("text content too long")
	// ErrAnalysisUnavailable wraps unexpected failures in the local path.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)

// LocalAnalyzer is the heuristic analysis pipeline.
type LocalAnalyzer func(text string) *AnalysisResult

// Merger reconciles a local and a validated external result.
type Merger func(local, external *AnalysisResult, provider, model string) *AnalysisResult

// UsableFunc is the validation gate for external results.
type UsableFunc func(external *AnalysisResult) bool

// AnalysisService orchestrates one analysis: cache lookup, the local
// heuristic path, the optional AI path, and the merge. A failed AI call
// degrades once to the local result; it is never retried and never surfaced
// as a request failure.
type AnalysisService struct {
	analyze      LocalAnalyzer
	merge        Merger
	usable       UsableFunc
	aiClient     AIClient
	aiProvider   string
	aiModel      string
	cache        CacheRepository
	cacheEnabled bool
	cacheTTL     time.Duration
	maxInputLen  int
	logger       *zap.Logger
}

// NewAnalysisService creates a new analysis service. aiClient may be nil for
// local-only operation.
func NewAnalysisService(
	analyze LocalAnalyzer,
	merge Merger,
	usable UsableFunc,
	aiClient AIClient,
	aiProvider string,
	aiModel string,
	cache CacheRepository,
	cacheEnabled bool,
	cacheTTL time.Duration,
	maxInputLen int,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		analyze:      analyze,
		merge:        merge,
		usable:       usable,
		aiClient:     aiClient,
		aiProvider:   aiProvider,
		aiModel:      aiModel,
		cache:        cache,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		maxInputLen:  maxInputLen,
		logger:       logger,
	}
}

// Signature returns the dedup signature for a piece of content.
func Signature(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

// Analyze scores one piece of content and returns the canonical result.
func (s *AnalysisService) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if s.maxInputLen > 0 && len(text) > s.maxInputLen {
		return nil, fmt.Errorf("%w: limit is %d characters", ErrInputTooLong, s.maxInputLen)
	}

	signature := Signature(text)

	if s.cacheEnabled && s.cache != nil {
		if entry, err := s.cache.Get(ctx, signature); err == nil {
			if cached := decodeCachedResult(entry); cached != nil {
				s.logger.Debug("Cache hit for content signature",
					zap.String("signature", signature[:12]))
				return cached, nil
			}
		}
	}

	local, err := s.runLocal(text)
	if err != nil {
		return nil, err
	}

	result := local
	if s.aiClient != nil {
		result = s.withAI(ctx, text, local)
	}

	if s.cacheEnabled && s.cache != nil {
		s.storeInCache(ctx, signature, result)
	}

	return result, nil
}

// runLocal executes the heuristic path. The pipeline is total over strings,
// so a panic here means a bug; it is converted into the one user-visible
// failure mode rather than taking the process down.
func (s *AnalysisService) runLocal(text string) (result *AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Local analysis panicked", zap.Any("panic", r))
			result = nil
			err = fmt.Errorf("%w: internal error", ErrAnalysisUnavailable)
		}
	}()
	return s.analyze(text), nil
}

// withAI attempts the external AI path and merges on success. Any failure
// degrades to the local result with fallback provenance.
func (s *AnalysisService) withAI(ctx context.Context, text string, local *AnalysisResult) *AnalysisResult {
	external, err := s.aiClient.AnalyzeText(ctx, text)
	if err != nil {
		s.logger.Warn("AI analysis failed, falling back to local heuristics",
			zap.String("provider", s.aiProvider),
			zap.Error(err))
		return fallbackResult(local)
	}

	if !s.usable(external) {
		s.logger.Warn("AI result failed validation gate, falling back to local heuristics",
			zap.String("provider", s.aiProvider))
		return fallbackResult(local)
	}

	merged := s.merge(local, external, s.aiProvider, s.aiModel)
	s.logger.Info("Merged AI and local analysis",
		zap.Int("local_score", local.Score),
		zap.Int("ai_score", external.Score),
		zap.Int("merged_score", merged.Score))
	return merged
}

func fallbackResult(local *AnalysisResult) *AnalysisResult {
	out := *local
	out.AIModel = ModelLocalFallback
	return &out
}

func (s *AnalysisService) storeInCache(ctx context.Context, signature string, result *AnalysisResult) {
	encoded, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("Failed to encode result for cache", zap.Error(err))
		return
	}
	entry := &CacheEntry{
		Signature:  signature,
		Score:      result.Score,
		Verdict:    result.Verdict,
		Mode:       result.ContentType,
		ResultJSON: string(encoded),
		LastSeen:   time.Now(),
		ExpiresAt:  time.Now().Add(s.cacheTTL),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update cache", zap.Error(err))
	}
}

func decodeCachedResult(entry *CacheEntry) *AnalysisResult {
	if entry == nil || entry.ResultJSON == "" {
		return nil
	}
	var result AnalysisResult
	if err := json.Unmarshal([]byte(entry.ResultJSON), &result); err != nil {
		return nil
	}
	return &result
}
