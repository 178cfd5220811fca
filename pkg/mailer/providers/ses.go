package providers

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

const (
	sesProviderName = "ses"
	sesCharset      = "UTF-8"
)

// SESProvider delivers mail through Amazon SES.
type SESProvider struct {
	svc *ses.SES
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

func NewSESProvider(cfg SESConfig) (*SESProvider, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &SESProvider{svc: ses.New(sess)}, nil
}

func (p *SESProvider) GetName() string {
	return sesProviderName
}

func (p *SESProvider) Send(emailData *EmailData) (*EmailResult, error) {
	destinations := make([]*string, len(emailData.To))
	for i, to := range emailData.To {
		destinations[i] = aws.String(to)
	}

	body := &ses.Body{}
	if emailData.HTML != "" {
		body.Html = &ses.Content{Charset: aws.String(sesCharset), Data: aws.String(emailData.HTML)}
	}
	if emailData.Text != "" {
		body.Text = &ses.Content{Charset: aws.String(sesCharset), Data: aws.String(emailData.Text)}
	}

	out, err := p.svc.SendEmail(&ses.SendEmailInput{
		Source:      aws.String(emailData.From),
		Destination: &ses.Destination{ToAddresses: destinations},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(sesCharset), Data: aws.String(emailData.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return &EmailResult{
			Success:  false,
			Error:    err.Error(),
			Provider: sesProviderName,
		}, fmt.Errorf("ses send failed: %w", err)
	}

	return &EmailResult{
		Success:   true,
		MessageID: aws.StringValue(out.MessageId),
		Provider:  sesProviderName,
	}, nil
}
