// Package commission decides what an employee earns for a work-order line.
package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/money"
)

// Compute returns the commission in cents for one line.
//
// Precedence: no employee on the line pays nothing; a known service pays its
// own rule (FIXED amount or PERCENT of the line price); without a service the
// employee's default percent applies; otherwise nothing.
func Compute(item entity.OSItem, svc *entity.Service, emp *entity.Employee) int64 {
	if item.EmployeeID == nil {
		return 0
	}

	if svc != nil {
		switch svc.CommissionType {
		case enum.CommissionTypeFixed:
			return money.NonNegative(money.FromDecimal(svc.CommissionValue))
		case enum.CommissionTypePercent:
			return money.NonNegative(money.Percent(money.NonNegative(item.Price), svc.CommissionValue))
		}
		return 0
	}

	if emp != nil && emp.DefaultCommissionPercent.IsPositive() {
		return money.NonNegative(money.Percent(money.NonNegative(item.Price), emp.DefaultCommissionPercent))
	}
	return 0
}

// Lookup resolves the service and employee a line refers to. Either may be
// missing when the referenced record no longer exists.
type Lookup struct {
	Services  map[uuid.UUID]*entity.Service
	Employees map[uuid.UUID]*entity.Employee
}

func (l Lookup) service(id *uuid.UUID) *entity.Service {
	if id == nil || l.Services == nil {
		return nil
	}
	return l.Services[*id]
}

func (l Lookup) employee(id *uuid.UUID) *entity.Employee {
	if id == nil || l.Employees == nil {
		return nil
	}
	return l.Employees[*id]
}

// Build produces the commission batch for a settled order: one CONFIRMADA
// record per line with a strictly positive value, in item order.
func Build(order *entity.WorkOrder, lookup Lookup, now time.Time) []entity.Commission {
	batch := make([]entity.Commission, 0, len(order.Items))
	for _, item := range order.Items {
		value := Compute(item, lookup.service(item.ServiceID), lookup.employee(item.EmployeeID))
		if value <= 0 {
			continue
		}
		batch = append(batch, entity.Commission{
			ID:          uuid.New(),
			OrderID:     order.ID,
			OrderItemID: item.ID,
			EmployeeID:  *item.EmployeeID,
			Value:       value,
			Status:      entity.CommissionStatusConfirmada,
			CreatedAt:   now,
		})
	}
	return batch
}
