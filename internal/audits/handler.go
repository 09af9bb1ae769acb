package audits

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizaudit-backend/internal/scoring"
	"bizaudit-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the audits service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches audit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/audits", h.submitAudit)
	rg.GET("/audits/:id/report", h.getReport)
	rg.POST("/audits/:id/report/retry", h.retryReport)
	rg.GET("/audits/:id/report/template", h.getTemplateReport)
}

type submitRequest struct {
	ID           string          `json:"id"`
	Vertical     string          `json:"vertical"`
	SubVertical  string          `json:"subVertical"`
	BusinessName string          `json:"businessName"`
	ContactName  string          `json:"contactName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PartnerCode  string          `json:"partnerCode"`
	Language     string          `json:"language"`
	Profile      Profile         `json:"profile"`
	Answers      scoring.Answers `json:"answers"`
}

func (h *Handler) submitAudit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	audit, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		ID:           req.ID,
		Vertical:     req.Vertical,
		SubVertical:  req.SubVertical,
		BusinessName: req.BusinessName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		PartnerCode:  req.PartnerCode,
		Language:     req.Language,
		ClientIP:     c.ClientIP(),
		Profile:      req.Profile,
		Answers:      req.Answers,
	})
	if err != nil {
		var verr *ValidationError
		var rerr *RateLimitedError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid submission", verr.Fields)
		case errors.As(err, &rerr):
			c.Set("errorCode", "rate_limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"rateLimited":    true,
				"code":           "rate_limited",
				"message":        fmt.Sprintf("Submission limit reached. Try again in %d hours.", rerr.HoursRemaining),
				"hoursRemaining": rerr.HoursRemaining,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit audit", nil)
		}
		return
	}

	c.Set("auditId", audit.ID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"auditId": audit.ID,
		"scores":  audit.Scores,
		"status":  audit.Status,
	})
}

func (h *Handler) getReport(c *gin.Context) {
	auditID := c.Param("id")
	if auditID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audit id is required", nil)
		return
	}

	audit, report, err := h.Svc.GetReport(c.Request.Context(), auditID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "audit not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
		}
		return
	}

	resp := gin.H{
		"auditId":      audit.ID,
		"audit":        audit,
		"status":       audit.Status,
		"scores":       audit.Scores,
		"overallLabel": scoring.ScoreLabel(audit.Scores.Overall),
		"benchmark":    scoring.Benchmark(audit.Scores.Overall),
	}
	if report != nil {
		resp["aiReport"] = report.Content
	} else {
		resp["aiReport"] = nil
	}
	if audit.Status == StatusFailed {
		// provider failures are worth a retry; anything else should send
		// the client straight to the template report
		resp["failureCode"] = audit.FailureCode
		resp["recoverable"] = audit.FailureCode == FailureCodeProvider
		if audit.FailureReason != "" {
			resp["failureReason"] = audit.FailureReason
		}
	}

	respond.OK(c, resp)
}

func (h *Handler) retryReport(c *gin.Context) {
	auditID := c.Param("id")
	if auditID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audit id is required", nil)
		return
	}

	audit, err := h.Svc.Retry(c.Request.Context(), auditID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "audit not found", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "report is not in a failed state", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to retry report", nil)
		}
		return
	}

	c.Set("auditId", audit.ID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"auditId": audit.ID,
		"status":  audit.Status,
	})
}

func (h *Handler) getTemplateReport(c *gin.Context) {
	auditID := c.Param("id")
	if auditID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audit id is required", nil)
		return
	}

	report, err := h.Svc.TemplateReport(c.Request.Context(), auditID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "audit not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build template report", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"auditId": report.AuditID,
		"source":  report.Source,
		"report":  report.Content,
	})
}
