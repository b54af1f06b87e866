package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	domainBackstop "github.com/Theodorio/ajo-api/internal/domain/backstop"
	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/usecase/settlement"
)

// Scheduler drives payout rounds: on each tick it collects the active
// circles whose payout time has passed and settles them one by one.
type Scheduler struct {
	circles    domainCircle.Repository
	settlement *settlement.Usecase
	spec       string
	cron       *cron.Cron
}

func New(circles domainCircle.Repository, st *settlement.Usecase, spec string) *Scheduler {
	return &Scheduler{
		circles:    circles,
		settlement: st,
		spec:       spec,
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.RunDue(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("scheduler: payout trigger running (%s)", s.spec)
	return nil
}

// Stop halts the trigger and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunDue settles every due circle. One failing circle does not stop the
// sweep; a drained reserve pauses that circle inside the usecase and the
// sweep moves on.
func (s *Scheduler) RunDue(ctx context.Context) {
	due, err := s.circles.ListDueForPayout(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("scheduler: listing due circles: %v", err)
		return
	}
	for _, circleID := range due {
		if _, err := s.settlement.ProcessPayout(ctx, circleID); err != nil {
			if errors.Is(err, domainBackstop.ErrReserveInsufficient) {
				log.Printf("scheduler: circle %s paused, reserve drained", circleID)
				continue
			}
			log.Printf("scheduler: settling circle %s: %v", circleID, err)
		}
	}
}
