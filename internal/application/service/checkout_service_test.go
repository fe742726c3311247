package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
)

func TestFinishCommitsSaleAndDecrementsStock(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	oil := h.seedProduct(t, "Óleo 20W50", 10, 3500)
	plug := h.seedProduct(t, "Vela NGK", 4, 2000)

	for _, id := range []uuid.UUID{oil.ID, oil.ID, plug.ID} {
		if _, err := h.checkout.AddItem(ctx, sess, id); err != nil {
			t.Fatal(err)
		}
	}

	res, err := h.checkout.Finish(ctx, sess, &CheckoutInput{PaymentMethod: enum.PaymentMethodPix})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	sale := res.Sale
	if len(sale.ID) != 6 {
		t.Errorf("sale id = %q, want 6 digits", sale.ID)
	}
	if sale.Subtotal != 9000 || sale.Total != 9000 || sale.Status != enum.SaleStatusPaga {
		t.Errorf("sale = %+v", sale)
	}
	if sale.ActorType != enum.AccessModeOperacional {
		t.Errorf("actor = %s", sale.ActorType)
	}

	stored, err := h.sales.GetByID(ctx, sale.ID)
	if err != nil || stored == nil {
		t.Fatalf("stored sale: %v, %v", stored, err)
	}
	if len(stored.Items) != 2 {
		t.Errorf("stored items = %d, want 2", len(stored.Items))
	}

	got, _ := h.products.GetByID(ctx, oil.ID)
	if got.Quantity != 8 {
		t.Errorf("oil quantity = %d, want 8", got.Quantity)
	}
	got, _ = h.products.GetByID(ctx, plug.ID)
	if got.Quantity != 3 {
		t.Errorf("plug quantity = %d, want 3", got.Quantity)
	}

	cart := h.checkout.GetCart(ctx, sess)
	if len(cart.Items) != 0 || cart.State != CartBuilding {
		t.Errorf("cart after sale = %+v", cart)
	}
}

func TestFinishClampsStockAtZero(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	tyre := h.seedProduct(t, "Pneu traseiro", 1, 25000)
	h.checkout.AddItem(ctx, sess, tyre.ID)
	if _, err := h.checkout.UpdateQuantity(ctx, sess, tyre.ID, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := h.checkout.Finish(ctx, sess, &CheckoutInput{PaymentMethod: enum.PaymentMethodDinheiro}); err != nil {
		t.Fatal(err)
	}
	got, _ := h.products.GetByID(ctx, tyre.ID)
	if got.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", got.Quantity)
	}
}

func TestFinishLargeDiscountWaitsForGrant(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	kit := h.seedProduct(t, "Kit relação", 5, 10000)
	h.checkout.AddItem(ctx, sess, kit.ID)

	input := &CheckoutInput{Discount: 1000, PaymentMethod: enum.PaymentMethodPix}
	_, err := h.checkout.Finish(ctx, sess, input)
	ae := appErr(t, err, http.StatusForbidden)
	if ae.Reason != apperror.ReasonAuthorizationRequired {
		t.Fatalf("reason = %q", ae.Reason)
	}
	if cart := h.checkout.GetCart(ctx, sess); cart.State != CartAwaitingAuth || len(cart.Items) != 1 {
		t.Fatalf("cart = %+v, want AWAITING_AUTH with its item", cart)
	}
	if all, _ := h.sales.List(ctx); len(all) != 0 {
		t.Fatalf("%d sales persisted before authorization", len(all))
	}

	res, err := h.checkout.AuthorizeDiscount(ctx, sess, testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("authorize discount: %+v, %v", res, err)
	}
	input.Grant = res.Grant

	out, err := h.checkout.Finish(ctx, sess, input)
	if err != nil {
		t.Fatalf("finish with grant: %v", err)
	}
	if out.Sale.DiscountValue != 1000 || out.Sale.Total != 9000 {
		t.Errorf("sale = %+v", out.Sale)
	}

	// the grant is spent
	h.checkout.AddItem(ctx, sess, kit.ID)
	_, err = h.checkout.Finish(ctx, sess, input)
	if !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("reused grant: err = %v", err)
	}
}

func TestDiscountGrantOnlyCommitsApprovedSale(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	kit := h.seedProduct(t, "Kit relação", 5, 10000)
	chain := h.seedProduct(t, "Corrente", 5, 4000)
	h.checkout.AddItem(ctx, sess, kit.ID)

	approved := &CheckoutInput{Discount: 1000, PaymentMethod: enum.PaymentMethodPix}
	if _, err := h.checkout.Finish(ctx, sess, approved); err == nil {
		t.Fatal("expected authorization to be required")
	}
	res, err := h.checkout.AuthorizeDiscount(ctx, sess, testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("authorize discount: %+v, %v", res, err)
	}

	tests := []struct {
		name  string
		input CheckoutInput
	}{
		{"larger discount", CheckoutInput{Discount: 9500, PaymentMethod: enum.PaymentMethodPix}},
		{"other payment terms", CheckoutInput{Discount: 1000, PaymentMethod: enum.PaymentMethodCredito, Installments: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Grant = res.Grant
			if _, err := h.checkout.Finish(ctx, sess, &in); !errors.Is(err, apperror.ErrInvalidGrant) {
				t.Fatalf("err = %v, want invalid grant", err)
			}
			if all, _ := h.sales.List(ctx); len(all) != 0 {
				t.Fatalf("%d sales persisted", len(all))
			}
		})
	}

	// another cart at the same discount is a different sale
	h.checkout.AddItem(ctx, sess, chain.ID)
	other := *approved
	other.Grant = res.Grant
	if _, err := h.checkout.Finish(ctx, sess, &other); !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Fatalf("edited cart: err = %v, want invalid grant", err)
	}

	// the grant was not spent by the rejected attempts
	h.checkout.RemoveItem(ctx, sess, chain.ID)
	approved.Grant = res.Grant
	out, err := h.checkout.Finish(ctx, sess, approved)
	if err != nil {
		t.Fatalf("approved sale: %v", err)
	}
	if out.Sale.DiscountValue != 1000 || out.Sale.Total != 9000 {
		t.Errorf("sale = %+v", out.Sale)
	}
}

func TestAuthorizeDiscountNeedsPendingSale(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	kit := h.seedProduct(t, "Kit relação", 5, 10000)
	h.checkout.AddItem(ctx, sess, kit.ID)

	_, err := h.checkout.AuthorizeDiscount(ctx, sess, testPIN)
	appErr(t, err, http.StatusBadRequest)

	res, err := h.gate.Challenge(ctx, sess.ID, enum.PurposeDiscount, testPIN)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.checkout.Finish(ctx, sess, &CheckoutInput{Discount: 1000, PaymentMethod: enum.PaymentMethodPix, Grant: res.Grant})
	if !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("unscoped grant: err = %v, want invalid grant", err)
	}
}

func TestFinishDiscountAtThresholdNeedsNoGrant(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	kit := h.seedProduct(t, "Kit relação", 5, 10000)
	h.checkout.AddItem(ctx, sess, kit.ID)

	out, err := h.checkout.Finish(ctx, sess, &CheckoutInput{Discount: 500, PaymentMethod: enum.PaymentMethodDebito})
	if err != nil {
		t.Fatal(err)
	}
	if out.Sale.Total != 9500 {
		t.Errorf("total = %d", out.Sale.Total)
	}
}

func TestFinishManagerSkipsAuthorization(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := manager()

	kit := h.seedProduct(t, "Capacete", 2, 20000)
	h.checkout.AddItem(ctx, sess, kit.ID)

	out, err := h.checkout.Finish(ctx, sess, &CheckoutInput{Discount: 5000, PaymentMethod: enum.PaymentMethodPix})
	if err != nil {
		t.Fatal(err)
	}
	if out.Sale.Total != 15000 || out.Sale.ActorType != enum.AccessModeGestor {
		t.Errorf("sale = %+v", out.Sale)
	}
}

func TestFinishCreditAddsInterest(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	p := h.seedProduct(t, "Escapamento", 3, 10000)
	h.checkout.AddItem(ctx, sess, p.ID)

	out, err := h.checkout.Finish(ctx, sess, &CheckoutInput{PaymentMethod: enum.PaymentMethodCredito, Installments: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out.Sale.InterestValue != 480 || out.Sale.Total != 10480 || out.Sale.Installments != 3 {
		t.Errorf("sale = %+v", out.Sale)
	}
}

func TestFinishUnknownProductRollsBack(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	kept := h.seedProduct(t, "Filtro de ar", 5, 3000)
	gone := h.seedProduct(t, "Retrovisor", 5, 4000)
	h.checkout.AddItem(ctx, sess, kept.ID)
	h.checkout.AddItem(ctx, sess, gone.ID)

	if err := h.products.Delete(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}

	_, err := h.checkout.Finish(ctx, sess, &CheckoutInput{PaymentMethod: enum.PaymentMethodPix})
	appErr(t, err, http.StatusNotFound)

	if all, _ := h.sales.List(ctx); len(all) != 0 {
		t.Errorf("%d sales persisted after rollback", len(all))
	}
	got, _ := h.products.GetByID(ctx, kept.ID)
	if got.Quantity != 5 {
		t.Errorf("kept quantity = %d, want 5", got.Quantity)
	}
	cart := h.checkout.GetCart(ctx, sess)
	if len(cart.Items) != 2 || cart.State != CartBuilding {
		t.Errorf("cart = %+v, want items kept and BUILDING", cart)
	}
}

func TestFinishEmptyCart(t *testing.T) {
	h := newHarness(t)
	h.configure(t)

	_, err := h.checkout.Finish(context.Background(), operator(), &CheckoutInput{PaymentMethod: enum.PaymentMethodPix})
	appErr(t, err, http.StatusUnprocessableEntity)
}

func TestFinishRetriesSaleIDCollision(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	ids := []string{"123456", "123456", "654321"}
	h.checkout.newSaleID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	p := h.seedProduct(t, "Manete", 10, 1500)
	var got []string
	for i := 0; i < 2; i++ {
		h.checkout.AddItem(ctx, sess, p.ID)
		out, err := h.checkout.Finish(ctx, sess, &CheckoutInput{PaymentMethod: enum.PaymentMethodPix})
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, out.Sale.ID)
	}
	if got[0] != "123456" || got[1] != "654321" {
		t.Errorf("ids = %v", got)
	}
}

func TestCartEditsLeaveAwaitingAuth(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := operator()

	p := h.seedProduct(t, "Pastilha de freio", 10, 8000)
	h.checkout.AddItem(ctx, sess, p.ID)
	h.checkout.Finish(ctx, sess, &CheckoutInput{Discount: 4000, PaymentMethod: enum.PaymentMethodPix})

	cart, err := h.checkout.UpdateQuantity(ctx, sess, p.ID, -5)
	if err != nil {
		t.Fatal(err)
	}
	if cart.State != CartBuilding || cart.Items[0].Quantity != 1 {
		t.Errorf("cart = %+v", cart)
	}

	h.checkout.Finish(ctx, sess, &CheckoutInput{Discount: 4000, PaymentMethod: enum.PaymentMethodPix})
	cart, _ = h.checkout.Abandon(ctx, sess)
	if cart.State != CartBuilding || len(cart.Items) != 1 {
		t.Errorf("after abandon = %+v", cart)
	}
}

func TestLogoutDropsCart(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	login, err := h.auth.LoginOperational(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p := h.seedProduct(t, "Corrente", 3, 9000)
	h.checkout.AddItem(ctx, login.Session, p.ID)

	if err := h.auth.Logout(ctx, login.Session); err != nil {
		t.Fatal(err)
	}
	if cart := h.checkout.GetCart(ctx, login.Session); len(cart.Items) != 0 {
		t.Errorf("cart survived logout: %+v", cart)
	}
	if _, err := h.auth.Resolve(ctx, login.Token); err == nil {
		t.Error("token still resolves after logout")
	}
}
