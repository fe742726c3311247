package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
)

// CartState is where a cart is in the checkout flow.
type CartState string

const (
	CartBuilding     CartState = "BUILDING"
	CartAwaitingAuth CartState = "AWAITING_AUTH"
	CartCommitting   CartState = "COMMITTING"
	CartCommitted    CartState = "COMMITTED"
)

// Cart is the in-progress sale of one session.
type Cart struct {
	SessionID string            `json:"session_id"`
	State     CartState         `json:"state"`
	Items     []entity.SaleItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`

	// approval identifies the sale a pending DESCONTO request was raised for
	approval string
}

func (c *Cart) clone() *Cart {
	out := *c
	out.Items = append([]entity.SaleItem(nil), c.Items...)
	if out.Items == nil {
		out.Items = []entity.SaleItem{}
	}
	return &out
}

func (c *Cart) find(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartStore holds one cart per session in memory.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
	now   func() time.Time
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*Cart), now: time.Now}
}

// Update runs fn against the session's cart under the store lock and
// returns a copy of the result. A missing cart is created empty.
func (s *CartStore) Update(sessionID string, fn func(c *Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{SessionID: sessionID, State: CartBuilding}
		s.carts[sessionID] = c
	}
	if err := fn(c); err != nil {
		return c.clone(), err
	}
	c.UpdatedAt = s.now()
	return c.clone(), nil
}

// Get returns a copy of the session's cart.
func (s *CartStore) Get(sessionID string) *Cart {
	c, _ := s.Update(sessionID, func(*Cart) error { return nil })
	return c
}

// Drop forgets the session's cart.
func (s *CartStore) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
}
