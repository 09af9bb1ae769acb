package audits

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bizaudit-backend/internal/llm"
	"bizaudit-backend/internal/ratelimit"
	"bizaudit-backend/internal/reports"
	"bizaudit-backend/internal/scoring"
	"bizaudit-backend/internal/shared/config"
)

type staticLLM struct {
	resp string
	err  error
}

func (s staticLLM) GenerateReport(ctx context.Context, input llm.PromptInput) (string, error) {
	_ = ctx
	_ = input
	return s.resp, s.err
}

// eventRecorder tracks the order of repo writes across both stores.
type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

type recordingAuditRepo struct {
	*MemoryRepo
	rec *eventRecorder
}

func (r *recordingAuditRepo) UpdateStatus(ctx context.Context, auditID, status, failureCode, failureReason string) error {
	r.rec.record("status:" + status)
	return r.MemoryRepo.UpdateStatus(ctx, auditID, status, failureCode, failureReason)
}

type recordingReportRepo struct {
	*reports.MemoryRepo
	rec       *eventRecorder
	upsertErr error
}

func (r *recordingReportRepo) Upsert(ctx context.Context, report reports.Report) error {
	r.rec.record("report.upsert")
	if r.upsertErr != nil {
		return r.upsertErr
	}
	return r.MemoryRepo.Upsert(ctx, report)
}

func validReportJSON() string {
	content := reports.Content{
		ExecutiveSummary: "Summary of the business.",
		Gaps: []reports.Item{
			{Title: "Gap one", Description: "d", Priority: reports.PriorityHigh, Impact: "i"},
			{Title: "Gap two", Description: "d", Priority: reports.PriorityMedium, Impact: "i"},
		},
		QuickWins: []reports.Item{
			{Title: "Win one", Description: "d", Priority: reports.PriorityHigh, Timeframe: "1 week"},
			{Title: "Win two", Description: "d", Priority: reports.PriorityLow, Timeframe: "2 weeks"},
		},
		StrategicRecommendations: []reports.Item{
			{Title: "Rec one", Description: "d", Priority: reports.PriorityMedium, ROI: "r"},
			{Title: "Rec two", Description: "d", Priority: reports.PriorityLow, ROI: "r"},
		},
	}
	raw, _ := json.Marshal(content)
	return string(raw)
}

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(ratelimit.NewMemoryStore(), config.RateLimitConfig{
		IdentityLimit: 3,
		IPLimit:       10,
		Window:        24 * time.Hour,
	})
}

func validSubmission() SubmitInput {
	return SubmitInput{
		Vertical:     "home_services",
		SubVertical:  "plumbing",
		BusinessName: "Apex Plumbing",
		ContactName:  "Jordan Reyes",
		Email:        "jordan@apexplumbing.com",
		ClientIP:     "203.0.113.7",
		Answers: scoring.Answers{
			Leads: scoring.LeadAnswers{
				ResponseSpeed: "Under 5 minutes",
			},
		},
	}
}

func setupService(t *testing.T, client llm.Client) (*Service, *recordingAuditRepo, *recordingReportRepo, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	auditRepo := &recordingAuditRepo{MemoryRepo: NewMemoryRepo(), rec: rec}
	reportRepo := &recordingReportRepo{MemoryRepo: reports.NewMemoryRepo(), rec: rec}
	svc := &Service{
		Repo:    auditRepo,
		Reports: reportRepo,
		LLM:     client,
		Limiter: testLimiter(),
		Model:   "test-model",
	}
	return svc, auditRepo, reportRepo, rec
}

func submitAndWait(t *testing.T, svc *Service, in SubmitInput) Audit {
	t.Helper()
	audit, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return waitForTerminal(t, svc, audit.ID)
}

func waitForTerminal(t *testing.T, svc *Service, auditID string) Audit {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		audit, err := svc.Repo.GetByID(context.Background(), auditID)
		if err != nil {
			t.Fatalf("get audit: %v", err)
		}
		if audit.Status != StatusPending {
			return audit
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("audit %s never left pending", auditID)
	return Audit{}
}

func TestSubmitReturnsScoresImmediately(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	audit, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if audit.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if audit.Status != StatusPending {
		t.Fatalf("status = %q, want pending", audit.Status)
	}
	want := scoring.Compute(scoring.VerticalHomeServices, "plumbing", validSubmission().Answers)
	if audit.Scores != want {
		t.Fatalf("scores = %+v, want %+v", audit.Scores, want)
	}
	waitForTerminal(t, svc, audit.ID)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	in := validSubmission()
	in.Vertical = "retail"
	in.BusinessName = "  "
	in.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 field issues, got %d", len(verr.Fields))
	}
}

func TestSubmitRejectsMalformedClientID(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	in := validSubmission()
	in.ID = "not-a-uuid"

	_, err := svc.Submit(context.Background(), in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSubmitReplaySameIDReturnsStoredAudit(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	in := validSubmission()
	in.ID = "6a2f9f1e-7c41-4f0a-9b0e-2d3c4e5f6a7b"

	first := submitAndWait(t, svc, in)
	if first.Status != StatusCompleted {
		t.Fatalf("first submission status = %q, want completed", first.Status)
	}

	second, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("replay submit: %v", err)
	}
	if second.Status != StatusCompleted {
		t.Fatalf("replay status = %q, want the stored completed audit", second.Status)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	for i := 0; i < 3; i++ {
		in := validSubmission()
		in.ClientIP = "198.51.100.1"
		submitAndWait(t, svc, in)
	}

	in := validSubmission()
	in.ClientIP = "198.51.100.2"
	_, err := svc.Submit(context.Background(), in)
	var rerr *RateLimitedError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rerr.HoursRemaining < 1 || rerr.HoursRemaining > 24 {
		t.Fatalf("hoursRemaining = %d, want within (0, 24]", rerr.HoursRemaining)
	}
}

func TestReportStoredBeforeCompletedStatus(t *testing.T) {
	svc, _, _, rec := setupService(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", audit.Status)
	}

	events := rec.all()
	upsertIdx, completedIdx := -1, -1
	for i, e := range events {
		switch e {
		case "report.upsert":
			upsertIdx = i
		case "status:" + StatusCompleted:
			completedIdx = i
		}
	}
	if upsertIdx == -1 || completedIdx == -1 {
		t.Fatalf("missing events, got %v", events)
	}
	if upsertIdx > completedIdx {
		t.Fatalf("report stored after status flip: %v", events)
	}
}

func TestGenerationFailureMarksAuditFailed(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{err: errors.New("model unavailable")})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}
	if audit.FailureCode != FailureCodeProvider {
		t.Fatalf("failure code = %q, want provider", audit.FailureCode)
	}
	if audit.FailureReason == "" {
		t.Fatal("expected a failure reason")
	}
}

func TestReportStoreFailureMarksAuditFailed(t *testing.T) {
	svc, _, reportRepo, _ := setupService(t, staticLLM{resp: validReportJSON()})
	reportRepo.upsertErr = errors.New("write refused")

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}
	if audit.FailureCode != FailureCodePersistence {
		t.Fatalf("failure code = %q, want persistence", audit.FailureCode)
	}
}

// failingCreateRepo simulates the primary store rejecting writes.
type failingCreateRepo struct {
	*MemoryRepo
	createErr error
}

func (r *failingCreateRepo) Create(ctx context.Context, audit Audit) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.MemoryRepo.Create(ctx, audit)
}

func TestSubmitStoreFailureStillServesTemplateReport(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})
	svc.Repo = &failingCreateRepo{MemoryRepo: NewMemoryRepo(), createErr: errors.New("connection refused")}

	audit, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}
	if audit.FailureCode != FailureCodePersistence {
		t.Fatalf("failure code = %q, want persistence", audit.FailureCode)
	}
	if audit.Scores.Overall == 0 {
		t.Fatal("degraded submission must still carry scores")
	}

	// the id the caller was handed keeps resolving
	got, report, err := svc.GetReport(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.Status != StatusFailed || report != nil {
		t.Fatalf("got status %q, report nil=%v", got.Status, report == nil)
	}

	tmpl, err := svc.TemplateReport(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("template report: %v", err)
	}
	if len(tmpl.Content.Gaps) == 0 || len(tmpl.Content.QuickWins) == 0 {
		t.Fatal("template report must never be empty")
	}
}

func TestFencedModelOutputAccepted(t *testing.T) {
	svc, _, reportRepo, _ := setupService(t, staticLLM{resp: "```json\n" + validReportJSON() + "\n```"})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed despite code fences", audit.Status)
	}

	stored, err := reportRepo.GetByAuditID(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.Content.ExecutiveSummary == "" {
		t.Fatal("expected parsed executive summary")
	}
}

func TestUnparseableModelOutputFails(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: "I could not produce JSON today."})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed on unparseable output", audit.Status)
	}
}

func TestGetReportReturnsContentOnlyWhenCompleted(t *testing.T) {
	svc, auditRepo, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())

	got, report, err := svc.GetReport(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report for a completed audit")
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}

	if err := auditRepo.UpdateStatus(context.Background(), audit.ID, StatusPending, "", ""); err != nil {
		t.Fatalf("reset status: %v", err)
	}
	_, report, err = svc.GetReport(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get pending report: %v", err)
	}
	if report != nil {
		t.Fatal("pending audit must not expose a report")
	}
}

func TestRetryRequiresFailedStatus(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", audit.Status)
	}

	_, err := svc.Retry(context.Background(), audit.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for completed audit, got %v", err)
	}
}

func TestRetryRecoversFromFailure(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{err: errors.New("boom")})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}

	svc.LLM = staticLLM{resp: validReportJSON()}
	retried, err := svc.Retry(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Status != StatusPending {
		t.Fatalf("retry status = %q, want pending", retried.Status)
	}

	final := waitForTerminal(t, svc, audit.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("final status = %q, want completed after retry", final.Status)
	}
	if final.FailureReason != "" {
		t.Fatalf("failure reason should be cleared, got %q", final.FailureReason)
	}
}

func TestMinWaitDelaysCompletion(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})
	svc.MinWait = 120 * time.Millisecond

	start := time.Now()
	audit := submitAndWait(t, svc, validSubmission())
	elapsed := time.Since(start)

	if audit.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", audit.Status)
	}
	if elapsed < 120*time.Millisecond {
		t.Fatalf("completed in %s, minimum wait not honored", elapsed)
	}
}

func TestTemplateReportUsesWeakestCategories(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())

	report, err := svc.TemplateReport(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("template report: %v", err)
	}
	if report.Source != reports.SourceTemplate {
		t.Fatalf("source = %q, want template", report.Source)
	}
	if len(report.Content.Gaps) != 3 {
		t.Fatalf("gaps = %d, want 3", len(report.Content.Gaps))
	}

	// the template path never touches generation state
	got, err := svc.Get(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get audit: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status changed to %q after template fetch", got.Status)
	}
}

func TestBuildPromptInputStripsContactDetails(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	in := validSubmission()
	in.ContactName = "Jordan Reyes"
	in.Phone = "+1 555 0100"
	in.Answers.Technology.TechFrustrations = "Our <b>CRM</b> loses jordan@apexplumbing.com leads"

	audit, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForTerminal(t, svc, audit.ID)

	stored, err := svc.Get(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("get audit: %v", err)
	}
	prompt := svc.buildPromptInput(stored)

	if strings.Contains(prompt.TechFrustrations, "<b>") {
		t.Fatal("markup must be stripped from free text")
	}
	_, user := llm.BuildPrompt(prompt)
	for _, secret := range []string{"Jordan Reyes", "+1 555 0100"} {
		if strings.Contains(user, secret) {
			t.Fatalf("prompt leaked contact detail %q", secret)
		}
	}
}

func TestPollerResolvesCompleted(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})
	audit := submitAndWait(t, svc, validSubmission())

	poller := Poller{
		Fetch:    svc.GetReport,
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	}
	got, report, err := poller.Wait(context.Background(), audit.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if got.Status != StatusCompleted || report == nil {
		t.Fatalf("poll returned status %q, report nil=%v", got.Status, report == nil)
	}
}

func TestPollerTimesOutOnStuckPending(t *testing.T) {
	svc, auditRepo, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	stuck := Audit{
		ID:       "7b3e0c1d-2f4a-4b5c-8d6e-9f0a1b2c3d4e",
		Vertical: scoring.VerticalHomeServices,
		Status:   StatusPending,
	}
	if err := auditRepo.Create(context.Background(), stuck); err != nil {
		t.Fatalf("create: %v", err)
	}

	poller := Poller{
		Fetch:    svc.GetReport,
		Interval: 10 * time.Millisecond,
		Timeout:  50 * time.Millisecond,
	}
	_, _, err := poller.Wait(context.Background(), stuck.ID)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
}

func TestPollerPassesThroughNotFound(t *testing.T) {
	svc, _, _, _ := setupService(t, staticLLM{resp: validReportJSON()})

	poller := Poller{Fetch: svc.GetReport, Interval: 5 * time.Millisecond, Timeout: time.Second}
	_, _, err := poller.Wait(context.Background(), "0e1d2c3b-4a5f-4e6d-8c7b-6a5f4e3d2c1b")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
