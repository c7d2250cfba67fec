// Package ses provides email notification services via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// AssessmentNotificationParams contains data for an assessment result email.
type AssessmentNotificationParams struct {
	ApplicantID string
	Email       string
	Eligible    bool
	Reason      string
	EMI         string
	DTIPercent  string
	Recommended bool
	MaxLoan     string
	ApproxEMI   string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service sending from fromEmail.
func NewService(ctx context.Context, fromEmail string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// NotifyAssessment emails an applicant their assessment result. Records
// without an email address are skipped.
func (s *Service) NotifyAssessment(ctx context.Context, record models.AssessmentRecord) error {
	if record.Email == "" {
		return nil
	}

	params := BuildAssessmentNotificationParams(record)

	htmlBody, err := RenderAssessmentHTML(params)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	_, err = s.SendEmail(ctx, EmailParams{
		To:       params.Email,
		Subject:  AssessmentSubject(params),
		HTMLBody: htmlBody,
		TextBody: RenderAssessmentText(params),
	})
	return err
}

// BuildAssessmentNotificationParams formats an assessment record for email.
func BuildAssessmentNotificationParams(record models.AssessmentRecord) AssessmentNotificationParams {
	params := AssessmentNotificationParams{
		ApplicantID: record.ApplicantID,
		Email:       record.Email,
		Eligible:    record.Eligibility.Eligible,
		Reason:      record.Eligibility.Reason,
		Recommended: record.Quote.Recommended,
		MaxLoan:     utils.Money(record.Quote.MaxLoan),
		ApproxEMI:   utils.Money(record.Quote.ApproxEMI),
	}
	if record.Eligibility.EMI != nil {
		params.EMI = utils.Money(*record.Eligibility.EMI)
	}
	if record.Eligibility.DTI != nil {
		params.DTIPercent = fmt.Sprintf("%.1f", *record.Eligibility.DTI*100)
	}
	return params
}

// AssessmentSubject returns the subject line for an assessment email.
func AssessmentSubject(params AssessmentNotificationParams) string {
	if params.Eligible {
		return fmt.Sprintf("Your loan application %s passed our basic checks", params.ApplicantID)
	}
	return fmt.Sprintf("Update on your loan application %s", params.ApplicantID)
}

var assessmentHTML = template.Must(template.New("assessment_notification").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2f4858; color: white; padding: 24px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f9f9f9; padding: 24px; border-radius: 0 0 10px 10px; }
        .card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .label { font-size: 12px; color: #999; }
        .value { font-weight: bold; }
        .footer { text-align: center; margin-top: 24px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Loan Assessment</h1>
        <p>Application {{.ApplicantID}}</p>
    </div>
    <div class="content">
        <div class="card">
            <div class="label">Result</div>
            <div class="value">{{if .Eligible}}Eligible{{else}}Not eligible{{end}}</div>
            <p>{{.Reason}}</p>
            {{if .EMI}}
            <div class="label">Monthly installment</div>
            <div class="value">{{.EMI}}</div>
            <div class="label">Debt-to-income</div>
            <div class="value">{{.DTIPercent}}%</div>
            {{end}}
        </div>
        <div class="card">
            {{if .Recommended}}
            <div class="label">Maximum loan you can afford</div>
            <div class="value">{{.MaxLoan}}</div>
            <div class="label">Approximate installment</div>
            <div class="value">{{.ApproxEMI}}</div>
            {{else}}
            <p>We cannot recommend a loan for this profile at the moment.</p>
            {{end}}
        </div>
    </div>
    <div class="footer">
        <p>This email was sent by Loan Affordability Engine</p>
    </div>
</body>
</html>`))

// RenderAssessmentHTML renders the HTML email body.
func RenderAssessmentHTML(params AssessmentNotificationParams) (string, error) {
	var buf bytes.Buffer
	if err := assessmentHTML.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderAssessmentText renders the plain text email body.
func RenderAssessmentText(params AssessmentNotificationParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Application %s\n\n", params.ApplicantID)
	if params.Eligible {
		b.WriteString("Result: eligible\n")
	} else {
		b.WriteString("Result: not eligible\n")
	}
	fmt.Fprintf(&b, "%s\n", params.Reason)
	if params.EMI != "" {
		fmt.Fprintf(&b, "Monthly installment: %s\n", params.EMI)
		fmt.Fprintf(&b, "Debt-to-income: %s%%\n", params.DTIPercent)
	}
	b.WriteString("\n")

	if params.Recommended {
		fmt.Fprintf(&b, "Maximum affordable loan: %s\n", params.MaxLoan)
		fmt.Fprintf(&b, "Approximate installment: %s\n", params.ApproxEMI)
	} else {
		b.WriteString("No loan recommended for this profile.\n")
	}

	b.WriteString("\nBest regards,\nLoan Affordability Engine Team\n")
	return b.String()
}
