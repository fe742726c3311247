package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreateOrderNumbering(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehicleModel: "CG 160", VehiclePlate: "abc1d23"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Bruno", VehiclePlate: "XYZ9K88"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != entity.FirstWorkOrderNumber || second.ID != first.ID+1 {
		t.Errorf("ids = %d, %d", first.ID, second.ID)
	}
	if first.VehiclePlate != "ABC1D23" || first.Status != enum.WorkOrderStatusAberta {
		t.Errorf("first = %+v", first)
	}

	_, err = h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: " ", VehiclePlate: ""})
	ae := appErr(t, err, http.StatusUnprocessableEntity)
	if len(ae.Errors) != 2 {
		t.Errorf("field errors = %+v", ae.Errors)
	}
}

func TestFinalizeCreatesCommissions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	revisao, err := NewCatalogService(h.services, h.employees).CreateService(ctx, &ServiceInput{
		Name:            "Revisão completa",
		BasePrice:       100,
		CommissionType:  enum.CommissionTypePercent,
		CommissionValue: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatal(err)
	}
	carlos := &entity.Employee{Name: "Carlos", DefaultCommissionPercent: decimal.NewFromInt(20)}
	if err := h.employees.Create(ctx, carlos); err != nil {
		t.Fatal(err)
	}

	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})

	// 10% of 100,00 from the service, 20% of 50,00 from the employee
	// default, nothing for the unassigned line
	steps := []*AddItemInput{
		{ServiceID: &revisao.ID, EmployeeID: &carlos.ID},
		{ServiceName: "Solda no bagageiro", EmployeeID: &carlos.ID, Price: floatPtr(50)},
		{ServiceName: "Lavagem", Price: floatPtr(30)},
	}
	for _, in := range steps {
		if order, err = h.workOrders.AddItem(ctx, order.ID, in); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}
	if order.TotalAmount != 18000 {
		t.Fatalf("total = %d, want 18000", order.TotalAmount)
	}

	res, err := h.workOrders.Finalize(ctx, order.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res.Count != 2 || res.Message != "OS #1000 Finalizada! 2 comissões geradas." {
		t.Errorf("result = %d %q", res.Count, res.Message)
	}
	var sum int64
	for _, c := range res.Commissions {
		sum += c.Value
		if c.Status != entity.CommissionStatusConfirmada || c.EmployeeID != carlos.ID {
			t.Errorf("commission = %+v", c)
		}
	}
	if sum != 2000 {
		t.Errorf("commission sum = %d, want 2000", sum)
	}

	stored, _ := h.orders.GetByID(ctx, order.ID)
	if stored.Status != enum.WorkOrderStatusFinalizada || stored.PaidAt == nil {
		t.Fatalf("stored = %+v", stored)
	}
	paidAt := *stored.PaidAt

	_, err = h.workOrders.Finalize(ctx, order.ID)
	ae := appErr(t, err, http.StatusConflict)
	if ae.Reason != apperror.ReasonAlreadySettled || ae.Message != "Esta OS já está finalizada/paga." {
		t.Errorf("second finalize = %+v", ae)
	}
	if again, _ := h.orders.GetByID(ctx, order.ID); again.PaidAt == nil || !again.PaidAt.Equal(paidAt) {
		t.Errorf("paid_at after second finalize = %v, want %v", again.PaidAt, paidAt)
	}
	if all, _ := h.commissions.ListByOrder(ctx, order.ID); len(all) != 2 {
		t.Errorf("commissions after second finalize = %d", len(all))
	}

	_, err = h.workOrders.AddItem(ctx, order.ID, &AddItemInput{ServiceName: "Extra", Price: floatPtr(10)})
	appErr(t, err, http.StatusConflict)
}

func TestFinalizeRollsBackWhenCommissionsFail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	carlos := &entity.Employee{Name: "Carlos", DefaultCommissionPercent: decimal.NewFromInt(20)}
	if err := h.employees.Create(ctx, carlos); err != nil {
		t.Fatal(err)
	}
	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})
	order, err := h.workOrders.AddItem(ctx, order.ID, &AddItemInput{ServiceName: "Solda", EmployeeID: &carlos.ID, Price: floatPtr(50)})
	if err != nil {
		t.Fatal(err)
	}

	if err := h.db.Migrator().DropTable(&entity.Commission{}); err != nil {
		t.Fatalf("drop commissions: %v", err)
	}

	if _, err := h.workOrders.Finalize(ctx, order.ID); err == nil {
		t.Fatal("finalize succeeded without a commissions table")
	}

	stored, err := h.orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != enum.WorkOrderStatusAberta || stored.PaidAt != nil {
		t.Errorf("stored after failed finalize = status %s paid_at %v, want ABERTA and nil", stored.Status, stored.PaidAt)
	}
}

func TestFinalizeCancelledOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})
	if _, err := h.workOrders.UpdateStatus(ctx, order.ID, enum.WorkOrderStatusCancelada); err != nil {
		t.Fatal(err)
	}

	_, err := h.workOrders.Finalize(ctx, order.ID)
	appErr(t, err, http.StatusConflict)

	stored, _ := h.orders.GetByID(ctx, order.ID)
	if stored.Status != enum.WorkOrderStatusCancelada || stored.PaidAt != nil {
		t.Errorf("stored = %+v", stored)
	}
}

func TestUpdateStatusRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})

	got, err := h.workOrders.UpdateStatus(ctx, order.ID, enum.WorkOrderStatusAguardandoPeca)
	if err != nil || got.Status != enum.WorkOrderStatusAguardandoPeca {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err = h.workOrders.UpdateStatus(ctx, order.ID, enum.WorkOrderStatusFinalizada)
	appErr(t, err, http.StatusBadRequest)

	_, err = h.workOrders.UpdateStatus(ctx, 999999, enum.WorkOrderStatusEmAndamento)
	appErr(t, err, http.StatusNotFound)
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})
	order, _ = h.workOrders.AddItem(ctx, order.ID, &AddItemInput{ServiceName: "Troca de óleo", Price: floatPtr(40)})
	order, _ = h.workOrders.AddItem(ctx, order.ID, &AddItemInput{ServiceName: "Regulagem", Price: floatPtr(25)})

	order, err := h.workOrders.RemoveItem(ctx, order.ID, order.Items[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if order.TotalAmount != 2500 || len(order.Items) != 1 {
		t.Errorf("order = %+v", order)
	}
	stored, _ := h.orders.GetByID(ctx, order.ID)
	if stored.TotalAmount != 2500 {
		t.Errorf("stored total = %d", stored.TotalAmount)
	}
}
