package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "github.com/Theodorio/ajo-api/internal/adapter/http"
	mw "github.com/Theodorio/ajo-api/internal/adapter/middleware"
	"github.com/Theodorio/ajo-api/internal/adapter/repository/mysql"
	"github.com/Theodorio/ajo-api/internal/config"
	domainBackstop "github.com/Theodorio/ajo-api/internal/domain/backstop"
	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/event"
	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
	domainSettlement "github.com/Theodorio/ajo-api/internal/domain/settlement"
	domainWallet "github.com/Theodorio/ajo-api/internal/domain/wallet"
	"github.com/Theodorio/ajo-api/internal/infrastructure/cache"
	"github.com/Theodorio/ajo-api/internal/infrastructure/db"
	"github.com/Theodorio/ajo-api/internal/infrastructure/notify"
	"github.com/Theodorio/ajo-api/internal/scheduler"
	backstopUC "github.com/Theodorio/ajo-api/internal/usecase/backstop"
	circleUC "github.com/Theodorio/ajo-api/internal/usecase/circle"
	"github.com/Theodorio/ajo-api/internal/usecase/settlement"
	walletUC "github.com/Theodorio/ajo-api/internal/usecase/wallet"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&domainWallet.Wallet{},
		&domainRep.Reputation{},
		&domainCircle.Circle{},
		&domainCircle.Member{},
		&domainBackstop.Reserve{},
		&domainBackstop.Loan{},
		&domainSettlement.Receipt{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// blacklist events go to the broker when one is configured, and to the
	// log otherwise.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.AMQPURL != "" {
		producer, err := notify.NewProducer(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	walletRepo := mysql.NewWalletRepository(gdb)
	repRepo := mysql.NewReputationRepository(gdb)
	circleRepo := mysql.NewCircleRepository(gdb)
	backstopRepo := mysql.NewBackstopRepository(gdb)
	receiptRepo := mysql.NewReceiptRepository(gdb)
	txm := mysql.NewGormUoW(gdb)

	wallets := walletUC.NewUsecase(walletRepo, repRepo, txm)
	circles := circleUC.NewUsecase(circleRepo, txm)
	settle := settlement.NewUsecase(receiptRepo, txm, publisher)
	backstop := backstopUC.NewUsecase(backstopRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := backstop.Bootstrap(ctx); err != nil {
		cancel()
		log.Fatalf("backstop bootstrap: %v", err)
	}
	cancel()

	h := httpadp.NewHandler()
	wh := httpadp.NewWalletHandler(wallets)
	ch := httpadp.NewCircleHandler(circles, settle)
	bh := httpadp.NewBackstopHandler(backstop)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	idem := mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/participants", wh.CreateParticipant, idem)
	e.GET("/participants/debtors", wh.Debtors)
	e.GET("/participants/:participant_id/wallet", wh.GetWallet)
	e.POST("/participants/:participant_id/deposit", wh.Deposit, idem)
	e.POST("/participants/:participant_id/withdraw", wh.Withdraw, idem)
	e.POST("/participants/:participant_id/repay", wh.RepayDebt, idem)

	e.POST("/circles", ch.CreateCircle, idem)
	e.GET("/circles/:circle_id", ch.GetCircle)
	e.POST("/circles/:circle_id/join", ch.JoinCircle, idem)
	e.POST("/circles/:circle_id/activate", ch.ActivateCircle)
	e.POST("/circles/:circle_id/contributions", ch.Contribute, idem)
	e.POST("/circles/:circle_id/payout", ch.ProcessPayout)
	e.GET("/circles/:circle_id/receipts", ch.ListReceipts)
	e.GET("/circles/:circle_id/loans", bh.CircleLoans)

	e.GET("/backstop", bh.GetReserve)
	e.POST("/backstop/loans/:loan_id/recover", bh.RecoverLoan)

	if cfg.PayoutCron != "" {
		sched := scheduler.New(circleRepo, settle, cfg.PayoutCron)
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer sched.Stop()
	}

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
