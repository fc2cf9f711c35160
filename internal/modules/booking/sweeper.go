package booking

import (
	"context"
	"time"

	"hotel/internal/domain"
)

type SweepResult struct {
	Scanned  int
	Released int
	Failed   int
}

// Sweeper frees rooms whose bookings are past checkout. A sweep is stateless
// and idempotent, so it can be driven by the in-process ticker or by an
// external scheduler through cmd/sweep.
type Sweeper struct {
	options
	store Store
}

func NewSweeper(store Store, opts ...Option) *Sweeper {
	return &Sweeper{options: newOptions(opts), store: store}
}

// Today is the sweeper's notion of the current date.
func (s *Sweeper) Today() domain.Date {
	return s.today()
}

// Sweep releases every live booking with check out before today. A failure on
// one booking is logged and the sweep moves on.
func (s *Sweeper) Sweep(ctx context.Context, today domain.Date) (SweepResult, error) {
	var res SweepResult

	expired, err := s.store.ListExpired(ctx, today)
	if err != nil {
		s.loggerf("level=error msg=\"sweep scan failed\" today=%s err=%v", today, err)
		return res, err
	}
	res.Scanned = len(expired)

	for i := range expired {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b := &expired[i]
		var freed *domain.Room
		err := s.store.InTx(ctx, func(tx Store) error {
			var err error
			freed, err = releaseRoom(ctx, tx, b, s.now())
			return err
		})
		if err != nil {
			res.Failed++
			s.loggerf("level=error msg=\"sweep booking failed\" booking_id=%d room_id=%d err=%v", b.ID, b.RoomID, err)
			continue
		}

		res.Released++
		if freed != nil {
			s.publisher.PublishRoomStatus(*freed)
		}
	}

	s.loggerf("level=info msg=\"sweep completed\" today=%s scanned=%d released=%d failed=%d",
		today, res.Scanned, res.Released, res.Failed)
	return res, nil
}

// Schedule sweeps every interval until ctx is done or the returned channel is closed.
func (s *Sweeper) Schedule(ctx context.Context, interval time.Duration) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(ctx, s.today()); err != nil {
					s.loggerf("level=error msg=\"scheduled sweep failed\" err=%v", err)
				}
			case <-stopCh:
				s.loggerf("level=info msg=\"scheduled sweep stopped\"")
				return
			case <-ctx.Done():
				s.loggerf("level=info msg=\"scheduled sweep stopped\" reason=%q", ctx.Err())
				return
			}
		}
	}()

	s.loggerf("level=info msg=\"scheduled sweep started\" interval=%s", interval)
	return stopCh
}
