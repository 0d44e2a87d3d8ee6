package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/utils"
	"go.uber.org/zap"
)

type fakeRepo struct {
	subscribers []core.Subscriber
	state       core.AlertState
	increments  [][]string
	listErr     error
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*core.Subscriber, error) {
	for i := range f.subscribers {
		if f.subscribers[i].Email == email {
			return &f.subscribers[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) Create(_ context.Context, email string) error {
	f.subscribers = append(f.subscribers, core.Subscriber{Email: email, Active: true})
	return nil
}

func (f *fakeRepo) Reactivate(_ context.Context, email string) error {
	for i := range f.subscribers {
		if f.subscribers[i].Email == email {
			f.subscribers[i].Active = true
		}
	}
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]core.Subscriber, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var active []core.Subscriber
	for _, s := range f.subscribers {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeRepo) IncrementAlerts(_ context.Context, emails []string) error {
	f.increments = append(f.increments, emails)
	return nil
}

func (f *fakeRepo) AlertState(_ context.Context) (*core.AlertState, error) {
	state := f.state
	return &state, nil
}

func (f *fakeRepo) UpdateAlertState(_ context.Context, state *core.AlertState) error {
	f.state = *state
	return nil
}

type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, to, _, textBody, htmlBody string) error {
	if f.failFor[to] {
		return errors.New("delivery failed")
	}
	if textBody == "" || htmlBody == "" {
		return errors.New("empty body")
	}
	f.sent = append(f.sent, to)
	return nil
}

type capturingMailer struct {
	texts []string
}

func (c *capturingMailer) Send(_ context.Context, _, _, textBody, _ string) error {
	c.texts = append(c.texts, textBody)
	return nil
}

func highRiskResult() *core.AnalysisResult {
	return &core.AnalysisResult{
		Score:           10,
		Verdict:         core.VerdictHighlySuspicious,
		Indicators:      []string{"⚠ High suspicious pattern density"},
		Recommendations: []string{"Do not share this content without verification"},
	}
}

func newTestService(repo *fakeRepo, mailer core.AlertMailer) *Service {
	return NewService(
		true,
		25,
		time.Hour,
		"VerifyIt",
		"alerts@verifyit.example",
		repo,
		mailer,
		utils.NewTextProcessor(zap.NewNop()),
		zap.NewNop(),
	)
}

func TestShouldAlert(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeMailer{})

	assert.False(t, svc.ShouldAlert(nil))
	assert.True(t, svc.ShouldAlert(&core.AnalysisResult{Score: 50, Verdict: core.VerdictHighlySuspicious}))
	assert.True(t, svc.ShouldAlert(&core.AnalysisResult{Score: 25, Verdict: core.VerdictProceedWithCaution}))
	assert.False(t, svc.ShouldAlert(&core.AnalysisResult{Score: 26, Verdict: core.VerdictProceedWithCaution}))
	assert.False(t, svc.ShouldAlert(&core.AnalysisResult{Score: 80, Verdict: core.VerdictLikelyLegitimate}))
}

func TestDispatchSendsToActiveSubscribers(t *testing.T) {
	repo := &fakeRepo{subscribers: []core.Subscriber{
		{Email: "a@example.com", Active: true},
		{Email: "b@example.com", Active: false},
		{Email: "c@example.com", Active: true},
	}}
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	status, err := svc.Dispatch(context.Background(), "suspicious content here", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)

	assert.True(t, status.Attempted)
	assert.True(t, status.Sent)
	assert.Equal(t, 2, status.Recipients)
	assert.ElementsMatch(t, []string{"a@example.com", "c@example.com"}, mailer.sent)

	require.Len(t, repo.increments, 1)
	assert.ElementsMatch(t, []string{"a@example.com", "c@example.com"}, repo.increments[0])
	assert.Equal(t, core.Signature("suspicious content here"), repo.state.LastAlertSignature)
	assert.False(t, repo.state.LastAlertAt.IsZero())
}

func TestDispatchDisabled(t *testing.T) {
	svc := NewService(false, 25, time.Hour, "", "", &fakeRepo{}, &fakeMailer{}, utils.NewTextProcessor(zap.NewNop()), zap.NewNop())

	status, err := svc.Dispatch(context.Background(), "text", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.False(t, status.Attempted)
	assert.Equal(t, ReasonDisabled, status.Reason)
}

func TestDispatchNoMailer(t *testing.T) {
	svc := newTestService(&fakeRepo{subscribers: []core.Subscriber{{Email: "a@example.com", Active: true}}}, nil)
	svc.mailer = nil

	status, err := svc.Dispatch(context.Background(), "text", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, ReasonNoMailer, status.Reason)
}

func TestDispatchNoSubscribers(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeMailer{})

	status, err := svc.Dispatch(context.Background(), "text", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.False(t, status.Sent)
	assert.Equal(t, ReasonNoSubscribers, status.Reason)
}

func TestDispatchCooldown(t *testing.T) {
	repo := &fakeRepo{
		subscribers: []core.Subscriber{{Email: "a@example.com", Active: true}},
		state:       core.AlertState{LastAlertAt: time.Now().Add(-10 * time.Minute)},
	}
	svc := newTestService(repo, &fakeMailer{})

	status, err := svc.Dispatch(context.Background(), "text", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, ReasonCooldown, status.Reason)

	// Bypass flag skips the window.
	status, err = svc.Dispatch(context.Background(), "text", highRiskResult(), DispatchOptions{BypassCooldown: true})
	require.NoError(t, err)
	assert.True(t, status.Sent)
}

func TestDispatchDuplicateSuppression(t *testing.T) {
	repo := &fakeRepo{
		subscribers: []core.Subscriber{{Email: "a@example.com", Active: true}},
		state: core.AlertState{
			LastAlertAt:        time.Now().Add(-2 * time.Hour),
			LastAlertSignature: core.Signature("same content"),
		},
	}
	svc := newTestService(repo, &fakeMailer{})

	status, err := svc.Dispatch(context.Background(), "same content", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, ReasonDuplicate, status.Reason)

	status, err = svc.Dispatch(context.Background(), "same content", highRiskResult(), DispatchOptions{BypassDuplicate: true})
	require.NoError(t, err)
	assert.True(t, status.Sent)
}

func TestDispatchPartialFailureStillSends(t *testing.T) {
	repo := &fakeRepo{subscribers: []core.Subscriber{
		{Email: "ok@example.com", Active: true},
		{Email: "broken@example.com", Active: true},
	}}
	mailer := &fakeMailer{failFor: map[string]bool{"broken@example.com": true}}
	svc := newTestService(repo, mailer)

	status, err := svc.Dispatch(context.Background(), "content", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.True(t, status.Sent)
	assert.Equal(t, 1, status.Recipients)
}

func TestDispatchAllFailures(t *testing.T) {
	repo := &fakeRepo{subscribers: []core.Subscriber{{Email: "broken@example.com", Active: true}}}
	mailer := &fakeMailer{failFor: map[string]bool{"broken@example.com": true}}
	svc := newTestService(repo, mailer)

	status, err := svc.Dispatch(context.Background(), "content", highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	assert.True(t, status.Attempted)
	assert.False(t, status.Sent)
	assert.Equal(t, ReasonAllFailed, status.Reason)
	assert.Empty(t, repo.state.LastAlertSignature, "failed dispatch must not consume the dedup slot")
}

func TestBuildAlertEmail(t *testing.T) {
	result := highRiskResult()
	result.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	body := BuildAlertEmail("Beware of this scam message", false, result)

	assert.Contains(t, body.Text, "CRITICAL RISK")
	assert.Contains(t, body.Text, "Risk Score: 10/100")
	assert.Contains(t, body.Text, "HIGHLY SUSPICIOUS")
	assert.Contains(t, body.Text, "Beware of this scam message")
	assert.Contains(t, body.HTML, "CRITICAL RISK")
	assert.Contains(t, body.HTML, "High-Risk Content Detected")
}

func TestBuildAlertEmailEscapesHTML(t *testing.T) {
	result := highRiskResult()
	body := BuildAlertEmail(`<script>alert("x")</script>`, false, result)

	assert.NotContains(t, body.HTML, "<script>")
	assert.Contains(t, body.HTML, "&lt;script&gt;")
}

func TestBuildAlertEmailHighRiskBadge(t *testing.T) {
	result := highRiskResult()
	result.Score = 30

	body := BuildAlertEmail("excerpt", false, result)
	assert.Contains(t, body.Text, "HIGH RISK")
	assert.False(t, strings.Contains(body.Text, "CRITICAL RISK"))
}

func TestBuildAlertEmailTruncationEllipsis(t *testing.T) {
	body := BuildAlertEmail("cut excerpt", true, highRiskResult())
	assert.Contains(t, body.Text, "cut excerpt...")
	assert.NotContains(t, body.Text, "....")
	assert.Contains(t, body.HTML, "cut excerpt...")
	assert.NotContains(t, body.HTML, "....")

	body = BuildAlertEmail("full excerpt", false, highRiskResult())
	assert.NotContains(t, body.Text, "...")
	assert.NotContains(t, body.HTML, "full excerpt...")
}

func TestExcerptThroughDispatchAddsSingleEllipsis(t *testing.T) {
	repo := &fakeRepo{subscribers: []core.Subscriber{{Email: "a@example.com", Active: true}}}
	bodies := &capturingMailer{}
	svc := newTestService(repo, bodies)

	long := strings.Repeat("scam pitch ", 60)
	status, err := svc.Dispatch(context.Background(), long, highRiskResult(), DispatchOptions{})
	require.NoError(t, err)
	require.True(t, status.Sent)

	require.Len(t, bodies.texts, 1)
	assert.Contains(t, bodies.texts[0], "...")
	assert.NotContains(t, bodies.texts[0], "....")
}
