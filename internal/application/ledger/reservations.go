package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tjautosupply/autoparts-api/internal/domain"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
)

// hold is the aggregate claim against one product across live reservations.
type hold struct {
	quantity int               // units held, serialized or not
	serials  map[string]string // serial -> reservation id
}

// ReservationBook tracks provisional claims in memory. Reservations never hit
// the database: they either commit (re-validated under row locks) or vanish,
// by explicit release or TTL sweep. All access goes through one mutex; the
// critical sections are map lookups only.
type ReservationBook struct {
	mu    sync.Mutex
	ttl   time.Duration
	byID  map[string]*entity.Reservation
	holds map[string]*hold // by product id
}

// NewReservationBook builds an empty book. ttl bounds how long an uncommitted
// reservation keeps stock claimed.
func NewReservationBook(ttl time.Duration) *ReservationBook {
	return &ReservationBook{
		ttl:   ttl,
		byID:  make(map[string]*entity.Reservation),
		holds: make(map[string]*hold),
	}
}

// Reserve claims quantity units (and, for serialized products, the named
// serials) against the available stock snapshot the caller read from the DB.
// Serials must already be normalized and validated as available; this method
// only guards against competing in-flight reservations.
func (b *ReservationBook) Reserve(productID string, quantity int, serials []string, available int) (*entity.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	h := b.holds[productID]
	if h == nil {
		h = &hold{serials: make(map[string]string)}
		b.holds[productID] = h
	}

	if quantity > available-h.quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: available - h.quantity,
		}
	}
	var claimed []string
	for _, s := range serials {
		if _, taken := h.serials[s]; taken {
			claimed = append(claimed, s)
		}
	}
	if len(claimed) > 0 {
		return nil, &domain.SerialUnavailableError{ProductID: productID, Serials: claimed}
	}

	now := time.Now()
	res := &entity.Reservation{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  quantity,
		Serials:   append([]string(nil), serials...),
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}
	h.quantity += quantity
	for _, s := range serials {
		h.serials[s] = res.ID
	}
	b.byID[res.ID] = res
	return res, nil
}

// Release drops a reservation and frees its claims. Safe to call multiple
// times and after commit: releasing an unknown id is a no-op.
func (b *ReservationBook) Release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release(id)
}

// release removes one reservation. Caller holds b.mu.
func (b *ReservationBook) release(id string) {
	res, ok := b.byID[id]
	if !ok {
		return
	}
	delete(b.byID, id)
	h := b.holds[res.ProductID]
	if h == nil {
		return
	}
	h.quantity -= res.Quantity
	for _, s := range res.Serials {
		if h.serials[s] == id {
			delete(h.serials, s)
		}
	}
	if h.quantity <= 0 && len(h.serials) == 0 {
		delete(b.holds, res.ProductID)
	}
}

// Take resolves reservation ids for a commit. A missing or expired id means
// the claim is gone (released, committed elsewhere, or swept) and the caller
// must re-reserve.
func (b *ReservationBook) Take(ids []string) ([]*entity.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	out := make([]*entity.Reservation, 0, len(ids))
	for _, id := range ids {
		res, ok := b.byID[id]
		if !ok || res.Expired(now) {
			return nil, domain.ErrReservationExpired
		}
		out = append(out, res)
	}
	return out, nil
}

// Remove drops reservations after a successful commit.
func (b *ReservationBook) Remove(ids []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		b.release(id)
	}
}

// Held reports how many units are currently claimed against a product.
func (b *ReservationBook) Held(productID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h := b.holds[productID]; h != nil {
		return h.quantity
	}
	return 0
}

// SweepExpired releases every reservation past its TTL and returns how many
// were dropped. Called periodically by the sweeper.
func (b *ReservationBook) SweepExpired(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var expired []string
	for id, res := range b.byID {
		if res.Expired(now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		b.release(id)
	}
	return len(expired)
}
