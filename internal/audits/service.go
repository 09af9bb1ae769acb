package audits

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bizaudit-backend/internal/llm"
	"bizaudit-backend/internal/ratelimit"
	"bizaudit-backend/internal/reports"
	"bizaudit-backend/internal/scoring"
	"bizaudit-backend/internal/shared/metrics"
	"bizaudit-backend/internal/shared/util"
)

// Notifier is told about completed reports. Implementations must tolerate
// being called after the report row is already readable.
type Notifier interface {
	ReportCompleted(ctx context.Context, audit Audit, report reports.Report) error
}

// Service contains business logic for audits and report generation.
type Service struct {
	Repo     Repo
	Reports  reports.Repo
	LLM      llm.Client
	Limiter  *ratelimit.Limiter
	Notifier Notifier
	Model    string
	// MinWait is the shortest time report generation may take on first
	// submission. Retries skip it.
	MinWait time.Duration
	Log     *zap.Logger

	// degraded holds submissions whose durable write failed, so the read
	// and template paths keep working for the id the caller was given.
	degradedOnce sync.Once
	degraded     *MemoryRepo
}

func (s *Service) degradedRepo() *MemoryRepo {
	s.degradedOnce.Do(func() { s.degraded = NewMemoryRepo() })
	return s.degraded
}

// getAudit reads from the primary repo, falling back to degraded records.
func (s *Service) getAudit(ctx context.Context, auditID string) (Audit, error) {
	audit, err := s.Repo.GetByID(ctx, auditID)
	if errors.Is(err, ErrNotFound) {
		return s.degradedRepo().GetByID(ctx, auditID)
	}
	return audit, err
}

func (s *Service) updateStatus(ctx context.Context, auditID, status, failureCode, failureReason string) error {
	err := s.Repo.UpdateStatus(ctx, auditID, status, failureCode, failureReason)
	if errors.Is(err, ErrNotFound) {
		return s.degradedRepo().UpdateStatus(ctx, auditID, status, failureCode, failureReason)
	}
	return err
}

// SubmitInput is a validated-on-entry audit submission.
type SubmitInput struct {
	ID           string
	Vertical     string
	SubVertical  string
	BusinessName string
	ContactName  string
	Email        string
	Phone        string
	PartnerCode  string
	Language     string
	ClientIP     string
	Profile      Profile
	Answers      scoring.Answers
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Submit validates and scores a submission, runs the rate limit check, and
// kicks off asynchronous report generation. Scoring is deterministic and
// happens before anything can fail, so a successful response always carries
// scores.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Audit, error) {
	if err := validateSubmission(in); err != nil {
		return Audit{}, err
	}

	id := strings.TrimSpace(in.ID)
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return Audit{}, &ValidationError{Fields: []FieldIssue{{Field: "id", Issue: "must be a UUID"}}}
		}
	} else {
		id = uuid.NewString()
	}

	vertical := scoring.Vertical(in.Vertical)
	audit := Audit{
		ID:           id,
		Vertical:     vertical,
		SubVertical:  strings.TrimSpace(in.SubVertical),
		BusinessName: util.SanitizeBusinessName(in.BusinessName),
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactEmail: strings.TrimSpace(in.Email),
		ContactPhone: strings.TrimSpace(in.Phone),
		PartnerCode:  strings.TrimSpace(in.PartnerCode),
		Language:     normalizeLanguage(in.Language),
		Profile:      in.Profile,
		Answers:      in.Answers,
		Scores:       scoring.Compute(vertical, strings.TrimSpace(in.SubVertical), in.Answers),
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	// Both limits are consulted before any model work starts.
	decision, err := s.Limiter.Check(ctx, audit.ContactEmail, in.ClientIP)
	if err != nil {
		s.logger().Warn("rate limit check failed, allowing submission",
			zap.String("audit_id", audit.ID),
			zap.Error(err),
		)
	}
	if !decision.Allowed {
		metrics.IncSubmissionRateLimited()
		return Audit{}, &RateLimitedError{HoursRemaining: decision.HoursRemaining}
	}

	if err := s.Repo.Create(ctx, audit); err != nil {
		if errors.Is(err, ErrExists) {
			// replayed client id: hand back the stored audit, no second run
			return s.Repo.GetByID(ctx, audit.ID)
		}
		// Storage being down shouldn't cost the user their scores or the
		// template report. The audit is kept as an in-process record under
		// the same id so the read and template endpoints still resolve it.
		s.logger().Error("audit create failed, keeping degraded local record",
			zap.String("audit_id", audit.ID),
			zap.Error(err),
		)
		audit.Status = StatusFailed
		audit.FailureCode = FailureCodePersistence
		audit.FailureReason = "storage unavailable"
		if derr := s.degradedRepo().Create(ctx, audit); derr != nil && !errors.Is(derr, ErrExists) {
			s.logger().Error("degraded record create failed",
				zap.String("audit_id", audit.ID),
				zap.Error(derr),
			)
		}
		metrics.IncAuditSubmitted()
		return audit, nil
	}

	metrics.IncAuditSubmitted()
	go s.generateAsync(backgroundWithRequestID(ctx), audit.ID, s.MinWait)

	return audit, nil
}

// Get returns an audit by ID.
func (s *Service) Get(ctx context.Context, auditID string) (Audit, error) {
	if auditID == "" {
		return Audit{}, errors.New("auditID is required")
	}
	return s.getAudit(ctx, auditID)
}

// GetReport returns the audit together with its report when one exists.
func (s *Service) GetReport(ctx context.Context, auditID string) (Audit, *reports.Report, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return Audit{}, nil, err
	}
	if audit.Status != StatusCompleted {
		return audit, nil, nil
	}

	report, err := s.Reports.GetByAuditID(ctx, auditID)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			// completed status always trails the report write, so this is a
			// data inconsistency worth surfacing loudly
			s.logger().Error("completed audit has no report", zap.String("audit_id", auditID))
			return Audit{}, nil, fmt.Errorf("report missing for completed audit %s", auditID)
		}
		return Audit{}, nil, err
	}
	return audit, &report, nil
}

// Retry re-runs report generation for a failed audit. The minimum wait is
// skipped: the user already sat through it once.
func (s *Service) Retry(ctx context.Context, auditID string) (Audit, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return Audit{}, err
	}
	if audit.Status != StatusFailed {
		return Audit{}, ErrConflict
	}

	if err := s.updateStatus(ctx, auditID, StatusPending, "", ""); err != nil {
		return Audit{}, err
	}
	audit.Status = StatusPending
	audit.FailureCode = ""
	audit.FailureReason = ""

	go s.generateAsync(backgroundWithRequestID(ctx), auditID, 0)

	return audit, nil
}

// TemplateReport builds the deterministic score-driven report for an audit.
// It does not touch generation state: a user who skips the wait can still
// come back for the generated report later.
func (s *Service) TemplateReport(ctx context.Context, auditID string) (reports.Report, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return reports.Report{}, err
	}

	weights := scoring.ResolveWeights(audit.Vertical, audit.SubVertical)
	return reports.Report{
		AuditID: audit.ID,
		Source:  reports.SourceTemplate,
		Content: reports.Template(audit.Vertical, audit.BusinessName, audit.Scores, weights),
	}, nil
}

func (s *Service) generateAsync(ctx context.Context, auditID string, minWait time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.failReport(ctx, auditID, FailureCodeInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	audit, err := s.getAudit(ctx, auditID)
	if err != nil {
		s.failReport(ctx, auditID, FailureCodePersistence, fmt.Errorf("audit lookup: %w", err))
		return
	}
	if s.LLM == nil {
		s.failReport(ctx, auditID, FailureCodeInternal, errors.New("missing llm client"))
		return
	}

	metrics.IncReportStarted()
	startMs := metrics.NowMillis()
	client := llm.NewRetrying(s.LLM, auditID, s.logger())
	input := s.buildPromptInput(audit)

	type genResult struct {
		raw string
		err error
	}
	resultCh := make(chan genResult, 1)
	go func() {
		raw, genErr := client.GenerateReport(ctx, input)
		resultCh <- genResult{raw: raw, err: genErr}
	}()

	// the user-facing wait ends at the later of the model answering and the
	// minimum wait elapsing
	var timerC <-chan time.Time
	if minWait > 0 {
		timer := time.NewTimer(minWait)
		defer timer.Stop()
		timerC = timer.C
	}
	res := <-resultCh
	if timerC != nil {
		<-timerC
	}

	if res.err != nil {
		s.failReport(ctx, auditID, FailureCodeProvider, fmt.Errorf("llm generate: %w", res.err))
		return
	}

	content, err := reports.ParseModelOutput(res.raw)
	if err != nil {
		s.failReport(ctx, auditID, FailureCodeProvider, err)
		return
	}

	report := reports.Report{
		AuditID: auditID,
		Source:  reports.SourceAI,
		Model:   s.Model,
		Content: content,
	}
	// The report row must be readable before the status says so; consumers
	// react to the completed status by fetching the report.
	if err := s.Reports.Upsert(ctx, report); err != nil {
		s.failReport(ctx, auditID, FailureCodePersistence, fmt.Errorf("store report: %w", err))
		return
	}
	if err := s.updateStatus(ctx, auditID, StatusCompleted, "", ""); err != nil {
		s.failReport(ctx, auditID, FailureCodePersistence, fmt.Errorf("set completed: %w", err))
		return
	}

	metrics.IncReportCompleted()
	metrics.ObserveReportDurationMs(metrics.NowMillis() - startMs)
	s.logger().Info("report.status",
		zap.String("request_id", requestIDFromContext(ctx)),
		zap.String("audit_id", auditID),
		zap.String("status_transition", "pending->completed"),
	)

	if s.Notifier != nil {
		if err := s.Notifier.ReportCompleted(ctx, audit, report); err != nil {
			s.logger().Warn("completion notification failed",
				zap.String("audit_id", auditID),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) failReport(ctx context.Context, auditID, failureCode string, cause error) {
	metrics.IncReportFailed()
	s.logger().Error("report.status",
		zap.String("request_id", requestIDFromContext(ctx)),
		zap.String("audit_id", auditID),
		zap.String("status_transition", "pending->failed"),
		zap.String("failure_code", failureCode),
		zap.String("error", sanitizeError(cause)),
	)

	if err := s.updateStatus(ctx, auditID, StatusFailed, failureCode, sanitizeError(cause)); err != nil {
		// best effort only; the poll path treats a stuck pending as failed
		// at its own timeout
		s.logger().Error("failed to mark audit failed",
			zap.String("audit_id", auditID),
			zap.Error(err),
		)
	}
}

func (s *Service) buildPromptInput(audit Audit) llm.PromptInput {
	var lines []llm.ContextLine
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, llm.ContextLine{Label: label, Value: value})
		}
	}
	if audit.Vertical == scoring.VerticalRealEstate {
		add("Role", audit.Profile.Role)
		add("Team size", audit.Profile.TeamSize)
		add("Transaction volume", audit.Profile.TransactionVolume)
		add("Annual GCI", audit.Profile.AnnualGCI)
		add("Primary market", audit.Profile.PrimaryMarket)
	} else {
		add("Industry", audit.Profile.Industry)
		add("Employees", audit.Profile.EmployeeCount)
		add("Annual revenue", audit.Profile.AnnualRevenue)
		add("Years in business", audit.Profile.YearsInBusiness)
		add("Service area", audit.Profile.ServiceArea)
	}

	return llm.PromptInput{
		BusinessName:     audit.BusinessName,
		Vertical:         audit.Vertical,
		SubVerticalLabel: SubVerticalLabel(audit.SubVertical),
		Scores:           audit.Scores,
		Weights:          scoring.ResolveWeights(audit.Vertical, audit.SubVertical),
		Context:          lines,
		TechFrustrations: util.SanitizeFreeText(audit.Answers.Technology.TechFrustrations),
		BiggestChallenge: util.SanitizeFreeText(audit.Answers.Financial.BiggestChallenge),
	}
}

func validateSubmission(in SubmitInput) error {
	var issues []FieldIssue
	if !scoring.Vertical(in.Vertical).Valid() {
		issues = append(issues, FieldIssue{Field: "vertical", Issue: "must be home_services or real_estate"})
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		issues = append(issues, FieldIssue{Field: "businessName", Issue: "is required"})
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		issues = append(issues, FieldIssue{Field: "email", Issue: "must be a valid email address"})
	}
	if len(issues) > 0 {
		return &ValidationError{Fields: issues}
	}
	return nil
}

func normalizeLanguage(raw string) string {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if lang == "" {
		return "en"
	}
	return lang
}

const maxErrorLen = 500

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return msg
}
