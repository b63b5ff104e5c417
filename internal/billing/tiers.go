package billing

import (
	"fmt"

	"github.com/Suraj182004/saaraansh/internal/models"
)

// PriceTable maps billing-provider price ids to plans. Only paid plans have
// prices.
type PriceTable struct {
	byPrice map[string]models.Plan
	byPlan  map[models.Plan]string
}

func NewPriceTable(basicPriceID, proPriceID string) *PriceTable {
	t := &PriceTable{
		byPrice: make(map[string]models.Plan),
		byPlan:  make(map[models.Plan]string),
	}
	t.add(models.PlanBasic, basicPriceID)
	t.add(models.PlanPro, proPriceID)
	return t
}

func (t *PriceTable) add(plan models.Plan, priceID string) {
	if priceID == "" {
		return
	}
	t.byPrice[priceID] = plan
	t.byPlan[plan] = priceID
}

// PlanForPrice resolves a price id. Unknown ids resolve to basic, the lowest
// paid plan, and report false so callers can log them.
func (t *PriceTable) PlanForPrice(priceID string) (models.Plan, bool) {
	if plan, ok := t.byPrice[priceID]; ok {
		return plan, true
	}
	return models.PlanBasic, false
}

func (t *PriceTable) PriceForPlan(plan models.Plan) (string, error) {
	priceID, ok := t.byPlan[plan]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPlanNotPurchasable, plan)
	}
	return priceID, nil
}
