package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/pricing"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
)

const saleIDAttempts = 10

var errCheckoutInProgress = apperror.NewConflictError("Uma venda já está sendo finalizada neste terminal")

// CheckoutService turns a session's cart into a paid sale
type CheckoutService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	transactor  repository.Transactor
	gate        *AuthorizationGate
	settings    *SettingsService
	carts       *CartStore
	now         func() time.Time
	newSaleID   func() (string, error)

	// one till per process: commits never interleave
	commitMu sync.Mutex
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	transactor repository.Transactor,
	gate *AuthorizationGate,
	settings *SettingsService,
	carts *CartStore,
) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		transactor:  transactor,
		gate:        gate,
		settings:    settings,
		carts:       carts,
		now:         time.Now,
		newSaleID:   utils.GenerateSaleID,
	}
}

// GetCart returns the session's cart.
func (s *CheckoutService) GetCart(ctx context.Context, sess session.Session) *Cart {
	return s.carts.Get(sess.ID)
}

// AddItem adds one unit of a product, snapshotting its current name and price.
func (s *CheckoutService) AddItem(ctx context.Context, sess session.Session, productID uuid.UUID) (*Cart, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.mutate(sess.ID, func(c *Cart) {
		if i := c.find(productID); i >= 0 {
			c.Items[i].Quantity++
			c.Items[i].Recalculate()
			return
		}
		item := entity.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  1,
			UnitPrice: product.PriceSell,
		}
		item.Recalculate()
		c.Items = append(c.Items, item)
	})
}

// UpdateQuantity changes a line's quantity by delta, never below 1.
func (s *CheckoutService) UpdateQuantity(ctx context.Context, sess session.Session, productID uuid.UUID, delta int) (*Cart, error) {
	var found bool
	cart, err := s.mutate(sess.ID, func(c *Cart) {
		i := c.find(productID)
		if i < 0 {
			return
		}
		found = true
		qty := c.Items[i].Quantity + delta
		if qty < 1 {
			qty = 1
		}
		c.Items[i].Quantity = qty
		c.Items[i].Recalculate()
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return cart, nil
}

// RemoveItem drops a line from the cart.
func (s *CheckoutService) RemoveItem(ctx context.Context, sess session.Session, productID uuid.UUID) (*Cart, error) {
	return s.mutate(sess.ID, func(c *Cart) {
		if i := c.find(productID); i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	})
}

// Clear empties the cart.
func (s *CheckoutService) Clear(ctx context.Context, sess session.Session) (*Cart, error) {
	return s.mutate(sess.ID, func(c *Cart) {
		c.Items = nil
	})
}

// mutate applies an edit. Editing a cart that was waiting for a PIN drops
// the pending authorization since the totals it was asked for changed.
func (s *CheckoutService) mutate(sessionID string, fn func(c *Cart)) (*Cart, error) {
	return s.carts.Update(sessionID, func(c *Cart) error {
		if c.State == CartCommitting {
			return errCheckoutInProgress
		}
		fn(c)
		c.State = CartBuilding
		c.approval = ""
		return nil
	})
}

// CheckoutInput represents the payment terms chosen at the till
type CheckoutInput struct {
	Discount      int64 // cents
	PaymentMethod enum.PaymentMethod
	Installments  int
	Grant         string
}

// Quote prices the cart without committing anything.
func (s *CheckoutService) Quote(ctx context.Context, sess session.Session, input *CheckoutInput) (*pricing.Result, error) {
	rates, err := s.settings.RateTable(ctx)
	if err != nil {
		return nil, err
	}
	cart := s.carts.Get(sess.ID)
	res := pricing.Calculate(pricing.Input{
		Items:         cart.Items,
		Discount:      input.Discount,
		PaymentMethod: input.PaymentMethod,
		Installments:  input.Installments,
		Rates:         rates,
	})
	return &res, nil
}

// CheckoutResult is a committed sale and the pricing it was charged at.
type CheckoutResult struct {
	Sale  *entity.Sale   `json:"sale"`
	Quote pricing.Result `json:"quote"`
}

// Finish commits the cart as a sale. A discount above the threshold from a
// non-manager session needs a DESCONTO grant; without one the cart waits in
// AWAITING_AUTH and an authorization-required error carries the quote.
func (s *CheckoutService) Finish(ctx context.Context, sess session.Session, input *CheckoutInput) (*CheckoutResult, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewFieldError("payment_method", "Forma de pagamento inválida")
	}
	rates, err := s.settings.RateTable(ctx)
	if err != nil {
		return nil, err
	}

	var (
		quote pricing.Result
		items []entity.SaleItem
	)
	_, err = s.carts.Update(sess.ID, func(c *Cart) error {
		if c.State == CartCommitting {
			return errCheckoutInProgress
		}
		if len(c.Items) == 0 {
			return apperror.NewFieldError("items", "O carrinho está vazio")
		}

		quote = pricing.Calculate(pricing.Input{
			Items:         c.Items,
			Discount:      input.Discount,
			PaymentMethod: input.PaymentMethod,
			Installments:  input.Installments,
			Rates:         rates,
		})

		if quote.RequiresAuthorization && !sess.IsManager() {
			scope := discountScope(c.Items, quote, input.PaymentMethod)
			if input.Grant == "" {
				c.State = CartAwaitingAuth
				c.approval = scope
				return apperror.NewAuthorizationRequiredError(
					"Vendas com desconto superior a 5% requerem PIN do Gestor.",
					map[string]interface{}{
						"purpose": enum.PurposeDiscount,
						"title":   enum.PurposeDiscount.Title(),
						"quote":   quote,
					},
				)
			}
			if err := s.gate.ConsumeScoped(ctx, input.Grant, enum.PurposeDiscount, sess.ID, scope); err != nil {
				return err
			}
		}

		c.State = CartCommitting
		items = append([]entity.SaleItem(nil), c.Items...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.commit(ctx, sess, items, quote, input.PaymentMethod)

	s.carts.Update(sess.ID, func(c *Cart) error {
		if err == nil {
			c.Items = nil
		}
		c.State = CartBuilding
		c.approval = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Sale: sale, Quote: quote}, nil
}

func (s *CheckoutService) commit(ctx context.Context, sess session.Session, items []entity.SaleItem, quote pricing.Result, method enum.PaymentMethod) (*entity.Sale, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	sale := &entity.Sale{
		Status:        enum.SaleStatusPaga,
		Subtotal:      quote.Subtotal,
		DiscountValue: quote.Discount,
		InterestValue: quote.Interest,
		Installments:  quote.Installments,
		Total:         quote.Total,
		ActorType:     sess.Mode,
		PaymentMethod: method,
		CreatedAt:     s.now().UTC(),
	}
	decrements := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		item.ID = uuid.Nil
		item.Recalculate()
		sale.Items = append(sale.Items, item)
		decrements[item.ProductID] += item.Quantity
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.uniqueSaleID(ctx)
		if err != nil {
			return err
		}
		sale.ID = id
		for i := range sale.Items {
			sale.Items[i].SaleID = id
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		missing, err := s.productRepo.DecrementStockClamped(ctx, decrements)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if len(missing) > 0 {
			return apperror.NewNotFoundError(fmt.Sprintf("Product %s", missing[0]))
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			log.Printf("Checkout failed for session %s: %v", sess.ID, err)
		}
		return nil, err
	}

	log.Printf("Sale #%s committed: %d items, total %d cents, %s", sale.ID, len(sale.Items), sale.Total, sale.PaymentMethod)
	return sale, nil
}

func (s *CheckoutService) uniqueSaleID(ctx context.Context) (string, error) {
	for i := 0; i < saleIDAttempts; i++ {
		id, err := s.newSaleID()
		if err != nil {
			return "", err
		}
		exists, err := s.saleRepo.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a free sale number")
}

// Abandon cancels a pending PIN request; the cart is kept as it was.
func (s *CheckoutService) Abandon(ctx context.Context, sess session.Session) (*Cart, error) {
	return s.carts.Update(sess.ID, func(c *Cart) error {
		if c.State == CartAwaitingAuth {
			c.State = CartBuilding
			c.approval = ""
		}
		return nil
	})
}

// AuthorizeDiscount checks the manager PIN for the discount the session's
// cart is waiting on. The grant it returns only commits that cart at those
// payment terms.
func (s *CheckoutService) AuthorizeDiscount(ctx context.Context, sess session.Session, pin string) (*ChallengeResult, error) {
	cart := s.carts.Get(sess.ID)
	if cart.State != CartAwaitingAuth || cart.approval == "" {
		return nil, apperror.NewBadRequestError("Nenhuma venda aguardando autorização de desconto")
	}
	return s.gate.ChallengeScoped(ctx, sess.ID, enum.PurposeDiscount, cart.approval, pin)
}

// discountScope digests the lines and the priced terms of a sale so a
// DESCONTO grant cannot be replayed on a different cart or discount.
func discountScope(items []entity.SaleItem, quote pricing.Result, method enum.PaymentMethod) string {
	h := sha256.New()
	for _, item := range items {
		fmt.Fprintf(h, "%s:%d:%d;", item.ProductID, item.Quantity, item.UnitPrice)
	}
	fmt.Fprintf(h, "|%d|%d|%d|%d|%s|%d", quote.Subtotal, quote.Discount, quote.Interest, quote.Total, method, quote.Installments)
	return hex.EncodeToString(h.Sum(nil))
}

// DropSession forgets a logged-out session's cart.
func (s *CheckoutService) DropSession(sessionID string) {
	s.carts.Drop(sessionID)
}
