// Package email, davet email'i gönderimi için soyutlama katmanı sağlar.
//
// EmailSender interface'i ile gönderim detayları soyutlanır (Dependency
// Inversion). Şu anki implementasyon Resend API kullanır; farklı bir
// sağlayıcıya geçmek için yeni bir implementasyon yazıp constructor'da
// değiştirmek yeterli.
//
// Render kuralları:
//   - Subject tek satırdır — şablondan ne gelirse gelsin newline'lar atılır.
//   - Düz metin gövde ZORUNLUDUR; render veya gönderim hatası çağırana döner.
//   - HTML gövde best-effort zenginleştirmedir; render hatası loglanır ve
//     email düz metin olarak gönderilmeye devam eder.
package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/akinalp/davet/models"
)

// EmailSender, davet email'i gönderimi için interface.
type EmailSender interface {
	// SendInvitation, davet linkini alıcıya gönderir.
	// senderName: daveti gönderen kullanıcının görünen adı.
	SendInvitation(ctx context.Context, inv *models.Invitation, senderName string, expiresAt time.Time) error
}

// invitationContext, şablonlara geçilen veri.
type invitationContext struct {
	SiteName   string
	SenderName string
	Link       string
	ExpiresAt  time.Time
}

const subjectTemplate = `{{.SenderName}} invited you to join {{.SiteName}}`

const textTemplate = `Hi,

{{.SenderName}} has invited you to join {{.SiteName}}.

To accept the invitation and create your account, open the link below:

{{.Link}}

The invitation is valid until {{.ExpiresAt.Format "2 January 2006"}}. After
that the link stops working and {{.SenderName}} would need to invite you again.

If you were not expecting this invitation you can safely ignore this email.

— {{.SiteName}}
`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#1a1a2e;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color:#1a1a2e;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#16213e;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#e2e8f0;font-size:24px;margin:0 0 8px 0;">{{.SiteName}}</h1>
              <h2 style="color:#e2e8f0;font-size:18px;margin:0 0 24px 0;">You have been invited</h2>
              <p style="color:#94a3b8;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                {{.SenderName}} has invited you to join {{.SiteName}}.
                Click the button below to create your account.
              </p>
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#6366f1;border-radius:6px;padding:12px 32px;">
                    <a href="{{.Link}}" style="color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;">
                      Accept Invitation
                    </a>
                  </td>
                </tr>
              </table>
              <p style="color:#64748b;font-size:13px;line-height:1.6;margin:0 0 16px 0;">
                This invitation is valid until {{.ExpiresAt.Format "2 January 2006"}}.
                If you were not expecting it, you can safely ignore this email.
              </p>
              <p style="color:#475569;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                If the button doesn't work, copy and paste this link:<br>
                <a href="{{.Link}}" style="color:#6366f1;">{{.Link}}</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// resendSender, Resend API ile gönderen EmailSender implementasyonu.
type resendSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	siteName  string

	subjectTmpl *texttemplate.Template
	textTmpl    *texttemplate.Template
	htmlTmpl    *htmltemplate.Template
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
//
// apiKey: Resend dashboard'dan alınan API key (re_xxxxxxxx formatında).
// fromEmail: Resend'de doğrulanmış domain altında bir adres olmalı.
// appURL: Davet linklerinin tabanı — {appURL}/register/{key}.
func NewResendSender(apiKey, fromEmail, appURL, siteName string) EmailSender {
	return &resendSender{
		client:      resend.NewClient(apiKey),
		fromEmail:   fromEmail,
		appURL:      strings.TrimRight(appURL, "/"),
		siteName:    siteName,
		subjectTmpl: texttemplate.Must(texttemplate.New("subject").Parse(subjectTemplate)),
		textTmpl:    texttemplate.Must(texttemplate.New("text").Parse(textTemplate)),
		htmlTmpl:    htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate)),
	}
}

// SendInvitation, davet email'ini render edip gönderir.
func (s *resendSender) SendInvitation(ctx context.Context, inv *models.Invitation, senderName string, expiresAt time.Time) error {
	data := invitationContext{
		SiteName:   s.siteName,
		SenderName: senderName,
		Link:       fmt.Sprintf("%s/register/%s", s.appURL, inv.Key),
		ExpiresAt:  expiresAt,
	}

	var subjectBuf bytes.Buffer
	if err := s.subjectTmpl.Execute(&subjectBuf, data); err != nil {
		return fmt.Errorf("failed to render invitation subject: %w", err)
	}
	// Subject newline içeremez — header injection'a da kapı açar.
	subject := strings.Join(strings.Fields(subjectBuf.String()), " ")

	var textBuf bytes.Buffer
	if err := s.textTmpl.Execute(&textBuf, data); err != nil {
		return fmt.Errorf("failed to render invitation body: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.siteName, s.fromEmail),
		To:      []string{inv.Email},
		Subject: subject,
		Text:    textBuf.String(),
	}

	// HTML alternatifi best-effort: render hatası gönderimi durdurmaz.
	var htmlBuf bytes.Buffer
	if err := s.htmlTmpl.Execute(&htmlBuf, data); err != nil {
		log.Printf("[email] html alternative render failed, sending text only: %v", err)
	} else {
		params.Html = htmlBuf.String()
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	return nil
}
