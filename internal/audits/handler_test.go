package audits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bizaudit-backend/internal/llm"
	"bizaudit-backend/internal/reports"
)

func setupAuditRouter(t *testing.T, client llm.Client) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _, _, _ := setupService(t, client)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func submitBody(t *testing.T, mutate func(map[string]any)) *bytes.Reader {
	t.Helper()
	payload := map[string]any{
		"vertical":     "home_services",
		"subVertical":  "plumbing",
		"businessName": "Apex Plumbing",
		"email":        "jordan@apexplumbing.com",
		"answers": map[string]any{
			"leads": map[string]any{
				"responseSpeed": "Under 5 minutes",
			},
		},
	}
	if mutate != nil {
		mutate(payload)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewReader(body)
}

func TestSubmitAuditAccepted(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", submitBody(t, nil))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		AuditID string `json:"auditId"`
		Status  string `json:"status"`
		Scores  struct {
			Overall int `json:"overall"`
		} `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.AuditID == "" {
		t.Fatal("expected auditId, got empty")
	}
	if created.Status != StatusPending {
		t.Fatalf("status = %q, want pending", created.Status)
	}
	if created.Scores.Overall == 0 {
		t.Fatal("expected a computed overall score")
	}
	waitForTerminal(t, svc, created.AuditID)
}

func TestSubmitAuditValidationDetails(t *testing.T) {
	router, _ := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", submitBody(t, func(p map[string]any) {
		p["email"] = "nope"
	}))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details []struct {
				Field string `json:"field"`
				Issue string `json:"issue"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("code = %q, want validation_error", body.Error.Code)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "email" {
		t.Fatalf("expected one email issue, got %+v", body.Error.Details)
	}
}

func TestSubmitAuditRateLimitedResponse(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	for i := 0; i < 3; i++ {
		audit, err := svc.Submit(context.Background(), validSubmission())
		if err != nil {
			t.Fatalf("seed submit %d: %v", i, err)
		}
		waitForTerminal(t, svc, audit.ID)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", submitBody(t, nil))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		RateLimited    bool   `json:"rateLimited"`
		Code           string `json:"code"`
		HoursRemaining int    `json:"hoursRemaining"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.RateLimited || body.Code != "rate_limited" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.HoursRemaining < 1 {
		t.Fatalf("hoursRemaining = %d, want at least 1", body.HoursRemaining)
	}
}

func TestGetReportEndpoint(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+audit.ID+"/report", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		AuditID  string           `json:"auditId"`
		Status   string           `json:"status"`
		AIReport *reports.Content `json:"aiReport"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", body.Status)
	}
	if body.AIReport == nil || body.AIReport.ExecutiveSummary == "" {
		t.Fatal("expected aiReport content")
	}
}

func TestGetReportPendingHasNullReport(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	audit := Audit{
		ID:       "5c4b3a2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d",
		Vertical: "home_services",
		Status:   StatusPending,
	}
	if err := svc.Repo.Create(context.Background(), audit); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+audit.ID+"/report", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	raw, ok := body["aiReport"]
	if !ok || string(raw) != "null" {
		t.Fatalf("aiReport = %s, want explicit null", raw)
	}
}

func TestGetReportFailedCarriesRecoverableFlag(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{err: errors.New("overloaded")})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+audit.ID+"/report", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Status      string `json:"status"`
		FailureCode string `json:"failureCode"`
		Recoverable bool   `json:"recoverable"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.FailureCode != FailureCodeProvider {
		t.Fatalf("failureCode = %q, want provider", body.FailureCode)
	}
	if !body.Recoverable {
		t.Fatal("provider failures must be flagged recoverable")
	}
}

func TestTemplateReportSurvivesStoreFailure(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})
	svc.Repo = &failingCreateRepo{MemoryRepo: NewMemoryRepo(), createErr: errors.New("down")}

	submitReq := httptest.NewRequest(http.MethodPost, "/api/v1/audits", submitBody(t, nil))
	submitReq.Header.Set("Content-Type", "application/json")
	submitResp := httptest.NewRecorder()
	router.ServeHTTP(submitResp, submitReq)

	if submitResp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", submitResp.Code, submitResp.Body.String())
	}
	var created struct {
		AuditID string `json:"auditId"`
	}
	if err := json.NewDecoder(submitResp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+created.AuditID+"/report/template", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected template report despite store failure, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetReportNotFound(t *testing.T) {
	router, _ := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/9f8e7d6c-5b4a-4c3d-8e2f-1a0b9c8d7e6f/report", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestRetryEndpointConflictWhenNotFailed(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits/"+audit.ID+"/report/retry", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestRetryEndpointAccepted(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{err: errors.New("down")})

	audit := submitAndWait(t, svc, validSubmission())
	if audit.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", audit.Status)
	}

	svc.LLM = staticLLM{resp: validReportJSON()}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits/"+audit.ID+"/report/retry", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	final := waitForTerminal(t, svc, audit.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("final status = %q, want completed", final.Status)
	}
}

func TestTemplateReportEndpoint(t *testing.T) {
	router, svc := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	audit := submitAndWait(t, svc, validSubmission())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+audit.ID+"/report/template", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		Source string          `json:"source"`
		Report reports.Content `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Source != reports.SourceTemplate {
		t.Fatalf("source = %q, want template", body.Source)
	}
	if len(body.Report.QuickWins) == 0 {
		t.Fatal("expected quick wins in template report")
	}
}

func TestSubmitAuditMalformedBody(t *testing.T) {
	router, _ := setupAuditRouter(t, staticLLM{resp: validReportJSON()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
