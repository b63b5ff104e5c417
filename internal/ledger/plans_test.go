package ledger

import (
	"testing"

	"github.com/Suraj182004/saaraansh/internal/models"
)

func TestRemainingCreditsAndUsage(t *testing.T) {
	tests := []struct {
		name          string
		acct          models.Account
		wantRemaining int
		wantUnlimited bool
		wantPercent   int
	}{
		{"fresh free", models.Account{Plan: models.PlanFree, CreditsLimit: 10}, 10, false, 0},
		{"half basic", models.Account{Plan: models.PlanBasic, CreditsUsed: 25, CreditsLimit: 50}, 25, false, 50},
		{"over limit", models.Account{Plan: models.PlanFree, CreditsUsed: 11, CreditsLimit: 10}, 0, false, 100},
		{"pro", models.Account{Plan: models.PlanPro, CreditsUsed: 400, CreditsLimit: UnlimitedCredits}, 0, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, unlimited := RemainingCredits(&tt.acct)
			if remaining != tt.wantRemaining || unlimited != tt.wantUnlimited {
				t.Errorf("RemainingCredits() = %d, %v; want %d, %v", remaining, unlimited, tt.wantRemaining, tt.wantUnlimited)
			}
			if got := UsagePercent(&tt.acct); got != tt.wantPercent {
				t.Errorf("UsagePercent() = %d, want %d", got, tt.wantPercent)
			}
		})
	}
}

func TestPlanFromString(t *testing.T) {
	for _, s := range []string{"free", "basic", "pro"} {
		if _, err := PlanFromString(s); err != nil {
			t.Errorf("PlanFromString(%q) error = %v", s, err)
		}
	}
	if _, err := PlanFromString("gold"); err == nil {
		t.Errorf("PlanFromString(gold) should fail")
	}
	if LimitFor(models.Plan("gold")) != 10 {
		t.Errorf("LimitFor(unknown) should fall back to the free limit")
	}
}
