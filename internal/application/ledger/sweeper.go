package ledger

import (
	"context"
	"time"

	"github.com/tjautosupply/autoparts-api/pkg/logger"
)

// Sweeper periodically releases reservations that outlived their TTL so
// abandoned carts cannot keep stock claimed forever.
type Sweeper struct {
	book     *ReservationBook
	interval time.Duration
	log      *logger.Logger
}

// NewSweeper builds the sweeper.
func NewSweeper(book *ReservationBook, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{book: book, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, sweeping on every tick. Start it in its
// own goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.book.SweepExpired(now); n > 0 {
				s.log.Info().Int("released", n).Msg("swept expired reservations")
			}
		}
	}
}
