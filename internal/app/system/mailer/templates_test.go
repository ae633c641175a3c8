package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildExpiryReminderEmail(t *testing.T) {
	tests := []struct {
		daysLeft    int
		wantSubject string
	}{
		{3, "expires in 3 days"},
		{1, "expires tomorrow"},
		{0, "expires today"},
	}
	for _, tt := range tests {
		e := BuildExpiryReminderEmail(ExpiryReminderData{
			SiteName:  "DinTask",
			AdminName: "Priya",
			PlanName:  "Growth",
			DaysLeft:  tt.daysLeft,
			RenewLink: "https://dintask.example/billing",
		})
		if !strings.Contains(e.Subject, tt.wantSubject) {
			t.Errorf("daysLeft=%d: subject %q missing %q", tt.daysLeft, e.Subject, tt.wantSubject)
		}
		if !strings.Contains(e.HTMLBody, "https://dintask.example/billing") {
			t.Errorf("daysLeft=%d: HTML body missing renew link", tt.daysLeft)
		}
		if !strings.Contains(e.TextBody, "Growth") {
			t.Errorf("daysLeft=%d: text body missing plan name", tt.daysLeft)
		}
	}
}

func TestBuildInviteEmail(t *testing.T) {
	e := BuildInviteEmail(InviteData{
		SiteName:   "DinTask",
		AdminName:  "Priya",
		Role:       "manager",
		AcceptLink: "https://dintask.example/invite/abc",
		ExpiresIn:  "7 days",
	})
	if e.To != "" {
		t.Errorf("To should be left for the caller, got %q", e.To)
	}
	for _, want := range []string{"Priya", "manager", "https://dintask.example/invite/abc"} {
		if !strings.Contains(e.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
	if !strings.Contains(e.TextBody, "7 days") {
		t.Error("text body missing expiry window")
	}
}

func TestBuildResetEmailEscapesHTML(t *testing.T) {
	e := BuildResetEmail(ResetData{
		SiteName:  "DinTask",
		UserName:  "<script>alert(1)</script>",
		ResetLink: "https://dintask.example/reset/tok",
		ExpiresIn: "1 hour",
	})
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("HTML body did not escape user-controlled name")
	}
}

func TestDisabledMailerDropsEmail(t *testing.T) {
	m := New("", "587", "noreply@dintask.example", "", zap.NewNop())
	if m.Enabled() {
		t.Fatal("mailer with no host should be disabled")
	}
	if err := m.Send(Email{To: "a@x.com", Subject: "hi"}); err != nil {
		t.Fatalf("disabled Send: %v", err)
	}
}
