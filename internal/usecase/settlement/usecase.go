package settlement

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainBackstop "github.com/Theodorio/ajo-api/internal/domain/backstop"
	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/event"
	"github.com/Theodorio/ajo-api/internal/domain/money"
	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
	domainSettlement "github.com/Theodorio/ajo-api/internal/domain/settlement"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	domainWallet "github.com/Theodorio/ajo-api/internal/domain/wallet"
)

type Usecase struct {
	receipts  domainSettlement.Repository
	uow       uow.UnitOfWork
	publisher event.Publisher
}

func NewUsecase(receipts domainSettlement.Repository, tx uow.UnitOfWork, pub event.Publisher) *Usecase {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &Usecase{receipts: receipts, uow: tx, publisher: pub}
}

// txLedger caches wallet and reputation rows loaded under the transaction
// so a participant touched twice in one round (defaulter and recipient,
// completion release) is mutated through a single in-memory instance.
type txLedger struct {
	ctx     context.Context
	r       uow.Repos
	wallets map[string]*domainWallet.Wallet
	reps    map[string]*domainRep.Reputation
}

func newTxLedger(ctx context.Context, r uow.Repos) *txLedger {
	return &txLedger{
		ctx:     ctx,
		r:       r,
		wallets: map[string]*domainWallet.Wallet{},
		reps:    map[string]*domainRep.Reputation{},
	}
}

func (l *txLedger) wallet(participantID string) (*domainWallet.Wallet, error) {
	if w, ok := l.wallets[participantID]; ok {
		return w, nil
	}
	w, err := l.r.Wallets.GetByParticipantIDForUpdate(l.ctx, participantID)
	if err != nil {
		return nil, err
	}
	l.wallets[participantID] = w
	return w, nil
}

func (l *txLedger) reputation(participantID string) (*domainRep.Reputation, error) {
	if rep, ok := l.reps[participantID]; ok {
		return rep, nil
	}
	rep, err := l.r.Reputations.GetByParticipantIDForUpdate(l.ctx, participantID)
	if err != nil {
		return nil, err
	}
	l.reps[participantID] = rep
	return rep, nil
}

func (l *txLedger) saveAll() error {
	for _, w := range l.wallets {
		if err := l.r.Wallets.Save(l.ctx, w); err != nil {
			return err
		}
	}
	for _, rep := range l.reps {
		if err := l.r.Reputations.Save(l.ctx, rep); err != nil {
			return err
		}
	}
	return nil
}

// ProcessPayout settles one payout round for a circle. The circle row lock
// taken by the unit of work makes the round exclusive per circle; every
// mutation below commits together or not at all. Reserve exhaustion aborts
// the round, pauses the circle in a follow-up transaction, and surfaces
// ErrReserveInsufficient to the caller.
func (u *Usecase) ProcessPayout(ctx context.Context, circleID string) (*ReceiptDTO, error) {
	var (
		dto         *ReceiptDTO
		blacklisted []event.UserBlacklisted
	)

	err := u.uow.WithinCircleTx(ctx, circleID, func(r uow.Repos, c *domainCircle.Circle) error {
		if c.Status != domainCircle.StatusActive {
			return domainCircle.ErrNotActive
		}
		recipientID, err := c.CurrentRecipient()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		led := newTxLedger(ctx, r)

		// Collection accounting over the frozen pot.
		shortfall := c.Shortfall()

		// Fee extraction: flat cut off the gross pot, regardless of
		// shortfall, credited to the circle counters and the reserve.
		fee := money.Fee(c.TotalPot)
		netPayout := c.TotalPot.Sub(fee)

		reserve, err := r.Reserve.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		reserve.DepositFee(fee)
		c.AddFee(fee)

		// Shortfall coverage: the reserve lends the gap, every non-payer is
		// penalized and owes the reserve their contribution individually.
		defaults := 0
		drawn := decimal.Zero
		if shortfall.IsPositive() {
			if err := reserve.Draw(shortfall); err != nil {
				return err
			}
			drawn = shortfall
			for i := range c.Members {
				m := &c.Members[i]
				if m.PaymentStatus == domainCircle.PaymentPaid {
					continue
				}
				w, err := led.wallet(m.ParticipantID)
				if err != nil {
					return err
				}
				rep, err := led.reputation(m.ParticipantID)
				if err != nil {
					return err
				}
				w.ApplyDefaultPenalty(c.ContributionAmount)
				rep.RecordDefault()
				if domainRep.CheckAutoBlacklist(rep, w.Debt, now) {
					blacklisted = append(blacklisted,
						event.NewUserBlacklisted(m.ParticipantID, rep.BlacklistReason, w.Debt, now))
				}
				if err := r.Reserve.CreateLoan(ctx, &domainBackstop.Loan{
					LoanID:                 uuid.NewString(),
					CircleID:               c.CircleID,
					DefaultedParticipantID: m.ParticipantID,
					Amount:                 c.ContributionAmount,
				}); err != nil {
					return err
				}
				c.MarkDefaulted(m.ParticipantID)
				defaults++
			}
		}

		// Tiered withholding on the recipient, then the ledger update.
		recipientWallet, err := led.wallet(recipientID)
		if err != nil {
			if errors.Is(err, domainWallet.ErrNotFound) {
				return domainCircle.ErrRecipientNotFound
			}
			return err
		}
		recipientRep, err := led.reputation(recipientID)
		if err != nil {
			return err
		}
		availablePortion, vaultPortion := money.Split(netPayout, domainRep.WithholdRate(recipientRep.Tier))
		recipientWallet.CreditPayout(availablePortion, vaultPortion)
		recipientRep.RecordPayoutReceived()

		// Rotation advance; a full rotation completes the circle and
		// releases every member's collateral.
		cycleNumber := c.CycleCount
		completed := c.AdvanceRotation(now)
		if completed {
			c.Complete()
			for i := range c.Members {
				pid := c.Members[i].ParticipantID
				w, err := led.wallet(pid)
				if err != nil {
					return err
				}
				w.ReleaseVault()
				rep, err := led.reputation(pid)
				if err != nil {
					return err
				}
				if rep.ActiveCircleCount > 0 {
					rep.ActiveCircleCount--
				}
			}
		}

		if err := led.saveAll(); err != nil {
			return err
		}
		if err := r.Reserve.Save(ctx, reserve); err != nil {
			return err
		}
		if err := r.Circles.Save(ctx, c); err != nil {
			return err
		}

		rcpt := &domainSettlement.Receipt{
			ReceiptID:       uuid.NewString(),
			CircleID:        c.CircleID,
			CycleNumber:     cycleNumber,
			RecipientID:     recipientID,
			GrossAmount:     c.TotalPot,
			Fee:             fee,
			NetPayout:       netPayout,
			VaultPortion:    vaultPortion,
			AvailableAmount: availablePortion,
			DefaultsCovered: defaults,
			BackstopDrawn:   drawn,
			NextTurn:        c.CurrentTurn,
			CreatedAt:       now,
		}
		if err := r.Receipts.Create(ctx, rcpt); err != nil {
			return err
		}
		dto = toDTO(rcpt, completed)
		return nil
	})

	if errors.Is(err, domainBackstop.ErrReserveInsufficient) {
		u.pause(ctx, circleID)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	u.notifyBlacklisted(blacklisted)
	return dto, nil
}

// pause flips the circle into the paused state after an aborted round. Runs
// in its own transaction because the settlement transaction rolled back.
func (u *Usecase) pause(ctx context.Context, circleID string) {
	err := u.uow.WithinCircleTx(ctx, circleID, func(r uow.Repos, c *domainCircle.Circle) error {
		c.Pause()
		return r.Circles.Save(ctx, c)
	})
	if err != nil {
		log.Printf("settlement: pausing circle %s failed: %v", circleID, err)
	}
}

func (u *Usecase) notifyBlacklisted(events []event.UserBlacklisted) {
	for _, ev := range events {
		ev := ev
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := u.publisher.Publish(ctx, event.RoutingKeyUserBlacklisted, ev); err != nil {
				log.Printf("settlement: publish %s for %s failed: %v", ev.Event, ev.ParticipantID, err)
			}
		}()
	}
}

// ListReceipts reads the stored receipts for a circle, newest first.
func (u *Usecase) ListReceipts(ctx context.Context, circleID string) ([]ReceiptDTO, error) {
	rs, err := u.receipts.ListByCircleID(ctx, circleID)
	if err != nil {
		return nil, err
	}
	out := make([]ReceiptDTO, 0, len(rs))
	for i := range rs {
		out = append(out, *toDTO(&rs[i], false))
	}
	return out, nil
}
