// Package watcher implements app.Runner for the transfer watcher process.
package watcher

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/near-eth-transfer/pkg/app/http"
	"github.com/chainsafe/near-eth-transfer/pkg/app/httpserver"
	"github.com/chainsafe/near-eth-transfer/pkg/config"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/pgutil"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/sendtonear"
	"github.com/chainsafe/near-eth-transfer/pkg/tokenmeta"
	transferservice "github.com/chainsafe/near-eth-transfer/pkg/transfer/service"
	"github.com/chainsafe/near-eth-transfer/pkg/transferstore"
	"github.com/chainsafe/near-eth-transfer/pkg/watcher"
)

const (
	serviceName        = "transfer-watcher"
	iconProbeTimeout   = 10 * time.Second
	dependencyDialWait = 30 * time.Second
)

// Server holds configuration for the transfer watcher process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new watcher Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run connects to both chains and the database, starts polling active
// transfers and serves the HTTP API.
// It blocks until an OS shutdown signal is received or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, serviceName)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting NEAR-Ethereum transfer watcher")

	mintDeposit, ok := new(big.Int).SetString(cfg.Near.MintDeposit, 10)
	if !ok {
		return fmt.Errorf("invalid mint deposit %q", cfg.Near.MintDeposit)
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, dependencyDialWait)
	defer cancelDial()

	db, err := pgutil.ConnectDB(dialCtx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect transfer db: %w", err)
	}
	defer func() { _ = db.Close() }()
	store := transferstore.NewStore(db)

	ethClient, err := ethereum.NewClient(dialCtx, &cfg.Ethereum, logger)
	if err != nil {
		return fmt.Errorf("initialize ethereum client: %w", err)
	}
	defer ethClient.Close()

	nearClient, err := near.Dial(dialCtx, cfg.Near.RPCURL, cfg.Near.AccountID, cfg.Near.ClientAccount, logger)
	if err != nil {
		return fmt.Errorf("initialize near client: %w", err)
	}
	defer nearClient.Close()

	proofs, err := near.DialProofService(dialCtx, cfg.Near.ProofRPCURL)
	if err != nil {
		return fmt.Errorf("initialize proof service: %w", err)
	}
	defer proofs.Close()

	channel, closeChannel, err := s.openChannel(dialCtx, logger)
	if err != nil {
		return err
	}
	defer closeChannel()

	wallet := near.NewWallet()
	deps := sendtonear.Dependencies{
		Chain:   ethClient,
		Near:    &near.Account{Client: nearClient, Wallet: wallet},
		Oracle:  nearClient,
		Proofs:  proofs,
		Channel: channel,
		Tracker: store,
	}
	if cfg.Ethereum.PrivateKey != "" {
		deps.Signer = ethClient
	}

	machine := sendtonear.New(sendtonear.Config{
		ChainID:             cfg.Ethereum.ChainID,
		CustodianAddress:    cfg.Ethereum.CustodianAddress,
		CustodianABI:        ethClient.CustodianABI(),
		EvmAccount:          cfg.Near.EvmAccount,
		SyncInterval:        cfg.Near.SyncInterval,
		RelayerMargin:       cfg.Near.RelayerMargin,
		NeededConfirmations: cfg.Near.NeededConfirmations,
		ReorgMargin:         cfg.Ethereum.SearchReorgMargin,
		MintGas:             cfg.Near.MintGas,
		MintDeposit:         mintDeposit,
	}, deps, sendtonear.WithLogger(logger))

	tokens := tokenmeta.New(
		tokenmeta.NewERC20Reader(ethClient.Backend()),
		tokenmeta.WithLogger(logger),
		tokenmeta.WithIconBaseURL(cfg.Ethereum.IconBaseURL),
		tokenmeta.WithIconProber(tokenmeta.NewHTTPIconProber(&http.Client{Timeout: iconProbeTimeout})),
	)

	svc := transferservice.NewLog(transferservice.NewService(transferservice.Dependencies{
		Store:   store,
		Machine: machine,
		Tokens:  tokens,
		Wallet:  wallet,
		Channel: channel,
	}, cfg.Near.RelayerMargin, logger), logger)

	w := watcher.New(store, machine,
		watcher.WithLogger(logger),
		watcher.WithConcurrency(cfg.Watcher.Concurrency),
		watcher.WithBatchSize(cfg.Watcher.BatchSize),
	)
	w.Start(cfg.Watcher.PollInterval)
	defer w.Stop()

	httpServer := httpserver.New(&cfg.Server, s.newRouter(svc, logger))
	err = httpserver.ServeAndWait(ctx, logger, httpServer, cfg.Server.ShutdownTimeout)

	// Stop polling before deferred DB/client closes kick in.
	w.Stop()
	return err
}

// openChannel returns the Redis backed redirect channel when an address is
// configured and an in-memory one otherwise.
func (s *Server) openChannel(ctx context.Context, logger *zap.Logger) (redirect.Channel, func(), error) {
	cfg := s.cfg.Redis
	if cfg.Addr == "" {
		logger.Info("Using in-memory wallet redirect channel")
		return redirect.NewMemory(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("Using Redis wallet redirect channel",
		zap.String("addr", cfg.Addr),
		zap.String("key", cfg.Key))
	return redirect.NewRedis(client, cfg.Key), func() { _ = client.Close() }, nil
}

func (s *Server) newRouter(svc transferservice.Service, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(apphttp.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		transferservice.RegisterRoutes(r, svc, logger)
	})

	return r
}
