package ledger

import (
	"fmt"

	"github.com/Suraj182004/saaraansh/internal/models"
)

// UnlimitedCredits is the cap stored for pro accounts. Admission never
// consults it for pro, it only keeps credits_limit finite.
const UnlimitedCredits = 1000

// PlanLimits holds the monthly credit cap per plan.
var PlanLimits = map[models.Plan]int{
	models.PlanFree:  10,
	models.PlanBasic: 50,
	models.PlanPro:   UnlimitedCredits,
}

// PlanOrder is the display ordering of plans.
var PlanOrder = []models.Plan{models.PlanFree, models.PlanBasic, models.PlanPro}

func LimitFor(plan models.Plan) int {
	if limit, ok := PlanLimits[plan]; ok {
		return limit
	}
	return PlanLimits[models.PlanFree]
}

func PlanFromString(s string) (models.Plan, error) {
	plan := models.Plan(s)
	if _, ok := PlanLimits[plan]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
	return plan, nil
}

func IsUnlimited(plan models.Plan) bool {
	return plan == models.PlanPro
}

// RemainingCredits reports how many credits are left in the current window.
// The second value is true for plans without a practical cap.
func RemainingCredits(acct *models.Account) (int, bool) {
	if IsUnlimited(acct.Plan) {
		return 0, true
	}
	return max(0, acct.CreditsLimit-acct.CreditsUsed), false
}

// UsagePercent is the share of the window's credits already spent, 0..100.
func UsagePercent(acct *models.Account) int {
	if IsUnlimited(acct.Plan) || acct.CreditsLimit <= 0 {
		return 0
	}
	return min(100, acct.CreditsUsed*100/acct.CreditsLimit)
}
