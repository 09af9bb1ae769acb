package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"bizaudit-backend/internal/audits"
	"bizaudit-backend/internal/reports"
	"bizaudit-backend/internal/shared/config"
)

// SESService is the slice of the SES API this package uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier emails an internal distribution list when a report completes.
// Failures are the caller's to log; report generation never depends on a
// notification landing.
type SESNotifier struct {
	client SESService
	from   string
	to     []string
	log    *zap.Logger
}

// NewSESNotifier builds a notifier from AWS default credentials.
func NewSESNotifier(ctx context.Context, cfg config.NotifyConfig, log *zap.Logger) (*SESNotifier, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("notify: sender address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("notify: load AWS config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SESNotifier{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.From,
		to:     cfg.To,
		log:    log,
	}, nil
}

// ReportCompleted sends the completion email to the operator list plus the
// submitter.
func (n *SESNotifier) ReportCompleted(ctx context.Context, audit audits.Audit, report reports.Report) error {
	to := make([]string, 0, len(n.to)+1)
	to = append(to, n.to...)
	if audit.ContactEmail != "" {
		to = append(to, audit.ContactEmail)
	}
	if len(to) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Audit report ready: %s (%d/100)", audit.BusinessName, audit.Scores.Overall)
	body := buildBody(audit, report)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}

	n.log.Info("completion email sent",
		zap.String("audit_id", audit.ID),
		zap.Int("recipients", len(to)),
	)
	return nil
}

// Noop is the default when no email backend is configured.
type Noop struct{}

func (Noop) ReportCompleted(ctx context.Context, audit audits.Audit, report reports.Report) error {
	return nil
}

var _ audits.Notifier = Noop{}

func buildBody(audit audits.Audit, report reports.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\n", audit.BusinessName)
	fmt.Fprintf(&b, "Vertical: %s", audit.Vertical)
	if audit.SubVertical != "" {
		fmt.Fprintf(&b, " (%s)", audits.SubVerticalLabel(audit.SubVertical))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Overall score: %d/100\n", audit.Scores.Overall)
	fmt.Fprintf(&b, "Contact: %s <%s>\n", audit.ContactName, audit.ContactEmail)
	if audit.PartnerCode != "" {
		fmt.Fprintf(&b, "Partner: %s\n", audit.PartnerCode)
	}
	b.WriteString("\n")
	b.WriteString(report.Content.ExecutiveSummary)
	b.WriteString("\n\nTop gaps:\n")
	for _, gap := range report.Content.Gaps {
		fmt.Fprintf(&b, "- [%s] %s\n", gap.Priority, gap.Title)
	}
	return b.String()
}

var _ audits.Notifier = (*SESNotifier)(nil)
