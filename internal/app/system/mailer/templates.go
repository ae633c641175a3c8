// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ExpiryReminderData holds data for subscription expiry reminder emails.
type ExpiryReminderData struct {
	SiteName  string
	AdminName string
	PlanName  string
	DaysLeft  int // 0 means the plan expires today
	RenewLink string
}

// BuildExpiryReminderEmail creates the reminder sent at 3 days, 1 day, and
// the day of subscription expiry.
func BuildExpiryReminderEmail(data ExpiryReminderData) Email {
	var subject, lead string
	switch {
	case data.DaysLeft <= 0:
		subject = fmt.Sprintf("Your %s subscription expires today", data.SiteName)
		lead = fmt.Sprintf("Your %s plan expires today. Your team will lose access until you renew.", data.PlanName)
	case data.DaysLeft == 1:
		subject = fmt.Sprintf("Your %s subscription expires tomorrow", data.SiteName)
		lead = fmt.Sprintf("Your %s plan expires tomorrow.", data.PlanName)
	default:
		subject = fmt.Sprintf("Your %s subscription expires in %d days", data.SiteName, data.DaysLeft)
		lead = fmt.Sprintf("Your %s plan expires in %d days.", data.PlanName, data.DaysLeft)
	}

	text := fmt.Sprintf("Hi %s,\n\n%s\n\nRenew here: %s\n", data.AdminName, lead, data.RenewLink)
	return Email{
		Subject:  subject,
		TextBody: text,
		HTMLBody: renderLayout(layoutData{
			SiteName: data.SiteName,
			Greeting: "Hi " + data.AdminName + ",",
			Lead:     lead,
			Button:   "Renew Subscription",
			Link:     data.RenewLink,
		}),
	}
}

// InviteData holds data for workspace invitation emails.
type InviteData struct {
	SiteName   string
	AdminName  string
	Role       string
	AcceptLink string
	ExpiresIn  string // e.g. "7 days"
}

// BuildInviteEmail creates the invitation sent when an admin invites a new
// team member by email.
func BuildInviteEmail(data InviteData) Email {
	lead := fmt.Sprintf("%s invited you to join their workspace on %s as a %s.",
		data.AdminName, data.SiteName, data.Role)
	text := fmt.Sprintf("%s\n\nAccept the invite: %s\n\nThis invite expires in %s.\n",
		lead, data.AcceptLink, data.ExpiresIn)
	return Email{
		Subject:  fmt.Sprintf("You have been invited to %s", data.SiteName),
		TextBody: text,
		HTMLBody: renderLayout(layoutData{
			SiteName: data.SiteName,
			Lead:     lead,
			Button:   "Accept Invite",
			Link:     data.AcceptLink,
			Footer:   "This invite expires in " + data.ExpiresIn + ". If you were not expecting it, you can ignore this email.",
		}),
	}
}

// ResetData holds data for password reset emails.
type ResetData struct {
	SiteName  string
	UserName  string
	ResetLink string
	ExpiresIn string
}

// BuildResetEmail creates the password reset email.
func BuildResetEmail(data ResetData) Email {
	text := fmt.Sprintf("Hi %s,\n\nReset your %s password here:\n%s\n\nThe link expires in %s. If you did not request a reset, ignore this email.\n",
		data.UserName, data.SiteName, data.ResetLink, data.ExpiresIn)
	return Email{
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: text,
		HTMLBody: renderLayout(layoutData{
			SiteName: data.SiteName,
			Greeting: "Hi " + data.UserName + ",",
			Lead:     "We received a request to reset your password.",
			Button:   "Reset Password",
			Link:     data.ResetLink,
			Footer:   "The link expires in " + data.ExpiresIn + ". If you did not request a reset, you can safely ignore this email.",
		}),
	}
}

// JoinRequestData holds data for the email sent to an admin when someone
// registers into their workspace and awaits approval.
type JoinRequestData struct {
	SiteName    string
	AdminName   string
	MemberName  string
	MemberEmail string
	Role        string
	ReviewLink  string
}

// BuildJoinRequestEmail creates the pending-approval notification.
func BuildJoinRequestEmail(data JoinRequestData) Email {
	lead := fmt.Sprintf("%s (%s) requested to join your workspace as a %s.",
		data.MemberName, data.MemberEmail, data.Role)
	text := fmt.Sprintf("Hi %s,\n\n%s\n\nReview the request: %s\n", data.AdminName, lead, data.ReviewLink)
	return Email{
		Subject:  fmt.Sprintf("New join request on %s", data.SiteName),
		TextBody: text,
		HTMLBody: renderLayout(layoutData{
			SiteName: data.SiteName,
			Greeting: "Hi " + data.AdminName + ",",
			Lead:     lead,
			Button:   "Review Request",
			Link:     data.ReviewLink,
		}),
	}
}

// ReceiptData holds data for payment receipt emails.
type ReceiptData struct {
	SiteName    string
	AdminName   string
	PlanName    string
	Amount      string // formatted, e.g. "$49.00"
	InvoiceLink string
}

// BuildReceiptEmail creates the confirmation sent after a successful
// plan payment.
func BuildReceiptEmail(data ReceiptData) Email {
	lead := fmt.Sprintf("Your payment of %s for the %s plan was received. Your subscription is active.",
		data.Amount, data.PlanName)
	text := fmt.Sprintf("Hi %s,\n\n%s\n\nDownload your invoice: %s\n", data.AdminName, lead, data.InvoiceLink)
	return Email{
		Subject:  fmt.Sprintf("%s payment received", data.SiteName),
		TextBody: text,
		HTMLBody: renderLayout(layoutData{
			SiteName: data.SiteName,
			Greeting: "Hi " + data.AdminName + ",",
			Lead:     lead,
			Button:   "Download Invoice",
			Link:     data.InvoiceLink,
		}),
	}
}

type layoutData struct {
	SiteName string
	Greeting string
	Lead     string
	Button   string
	Link     string
	Footer   string
}

func renderLayout(data layoutData) string {
	var buf bytes.Buffer
	_ = layoutTemplate.Execute(&buf, data)
	return buf.String()
}

var layoutTemplate = template.Must(template.New("layout").Parse(layoutHTML))

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              {{if .Greeting}}<p style="margin: 0 0 16px; font-size: 16px; color: #374151; line-height: 1.5;">{{.Greeting}}</p>{{end}}
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">{{.Lead}}</p>
              {{if .Link}}
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.Link}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">{{.Button}}</a>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
          {{if .Footer}}
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">{{.Footer}}</p>
            </td>
          </tr>
          {{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
