package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	auctiondomain "github.com/cristianortiz/auctionportal/internal/auction/domain"
	auctionmemory "github.com/cristianortiz/auctionportal/internal/auction/infra/repository/memory"
	auctionpg "github.com/cristianortiz/auctionportal/internal/auction/infra/repository/postgres"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/lease"
	auctionrest "github.com/cristianortiz/auctionportal/internal/auction/infra/rest"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/users"
	auctionws "github.com/cristianortiz/auctionportal/internal/auction/infra/websocket"
	auditapp "github.com/cristianortiz/auctionportal/internal/audit/application"
	auditdomain "github.com/cristianortiz/auctionportal/internal/audit/domain"
	auditmemory "github.com/cristianortiz/auctionportal/internal/audit/infra/repository/memory"
	auditpg "github.com/cristianortiz/auctionportal/internal/audit/infra/repository/postgres"
	auditrest "github.com/cristianortiz/auctionportal/internal/audit/infra/rest"
	"github.com/cristianortiz/auctionportal/internal/notification"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/config"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/cristianortiz/auctionportal/internal/shared/db/migrations"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	ws "github.com/cristianortiz/auctionportal/internal/shared/websocket"
	userapp "github.com/cristianortiz/auctionportal/internal/user/application"
	userdomain "github.com/cristianortiz/auctionportal/internal/user/domain"
	usermemory "github.com/cristianortiz/auctionportal/internal/user/infra/repository/memory"
	userpg "github.com/cristianortiz/auctionportal/internal/user/infra/repository/postgres"
	userrest "github.com/cristianortiz/auctionportal/internal/user/infra/rest"
	"go.uber.org/zap"
)

// stores groups the repositories of every bounded context for one driver.
type stores struct {
	users        userdomain.UserRepository
	audit        auditdomain.Repository
	auctions     application.Deps
	closeStorage func()
}

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auctionportal server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("Storage setup failed", zap.Error(err))
	}
	defer st.closeStorage()

	notifier, closeNotifier, err := newNotifier(cfg.Notifier)
	if err != nil {
		log.Fatal("Notifier setup failed", zap.Error(err))
	}
	defer closeNotifier()

	clk := clock.System{}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	gate := auth.NewGate()
	recorder := auditapp.NewRecorder(st.audit, clk)

	hub := ws.NewHub()
	go hub.Run(ctx)

	d := st.auctions
	d.Bidders = users.NewDirectory(st.users)
	d.Notifier = notifier
	d.Events = auctionws.NewPublisher(hub)
	d.Audit = recorder
	d.Clock = clk

	var sweepLease application.Lease
	if cfg.Redis.Addr != "" {
		rdb := lease.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		rl := lease.NewRedisLease(rdb)
		if err := rl.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, sweeping without a lease until it recovers", zap.Error(err))
		}
		sweepLease = rl
	}
	sweeper := application.NewSweeper(d.Auctions, application.NewCloseAuctionUseCase(d), clk,
		cfg.SweepInterval, cfg.SweepBatch, sweepLease)
	go sweeper.Run(ctx)

	auctionService := application.NewAuctionService(d, sweeper)
	userService := userapp.NewUserService(
		userapp.NewRegisterUseCase(st.users, recorder, clk, cfg.Auth.AdminEmails),
		userapp.NewLoginUseCase(st.users, tokens),
		st.users,
	)

	server := httpserver.NewServer()
	app := server.App()
	userrest.NewUserHandler(userService).Register(app, tokens)
	auctionrest.NewAuctionHandler(auctionService).Register(app, tokens, gate)
	auditrest.NewLogHandler(recorder).Register(app, tokens, gate)

	wsHandler := auctionws.NewAuctionWSHandler(auctionService, hub)
	wsHandler.Register(ctx, app, tokens)
	go wsHandler.ListenForMessages(ctx)

	if err := server.Start(ctx, cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
	log.Info("auctionportal stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := logger.GetLogger()

	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("Using the in-memory store, data is lost on restart")
		s := auctionmemory.NewStore()
		return &stores{
			users: usermemory.NewUserRepository(),
			audit: auditmemory.NewAuditRepository(),
			auctions: application.Deps{
				Auctions:     s.Auctions(),
				Bids:         s.Bids(),
				Transactions: s.Transactions(),
				Tx:           s,
			},
			closeStorage: func() {},
		}, nil
	}

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.MigrationsPath, cfg.DB.DSN()); err != nil {
		return nil, err
	}
	log.Info("Database migrations completed successfully.")

	pool, err := db.GetPostgresDBPool(ctx, cfg.DB.DSN(), cfg.DB.MaxConns)
	if err != nil {
		return nil, err
	}
	return &stores{
		users: userpg.NewUserRepository(pool),
		audit: auditpg.NewAuditRepository(pool),
		auctions: application.Deps{
			Auctions:     auctionpg.NewAuctionRepository(pool),
			Bids:         auctionpg.NewBidRepository(pool),
			Transactions: auctionpg.NewTransactionRepository(pool),
			Tx:           auctionpg.NewTxManager(pool),
		},
		closeStorage: pool.Close,
	}, nil
}

// newNotifier picks the winner notifier for NOTIFIER_DRIVER. The returned func releases its connections.
func newNotifier(cfg config.NotifierConfig) (auctiondomain.Notifier, func(), error) {
	switch cfg.Driver {
	case config.NotifierMailgun:
		m := notification.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		return notification.NewMailNotifier(m), func() {}, nil
	case config.NotifierQueue:
		pub, err := notification.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, nil, err
		}
		return notification.NewQueueNotifier(pub), pub.Close, nil
	default:
		return notification.NewLogNotifier(), func() {}, nil
	}
}
