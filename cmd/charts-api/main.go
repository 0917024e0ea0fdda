package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/chain/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/charts"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/rates"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/transport"
)

type config struct {
	Addr     string `long:"addr" env:"CHARTS_ADDR" description:"gRPC addr" default:":8000"`
	RestAddr string `long:"rest-addr" env:"CHARTS_REST_ADDR" description:"REST addr" default:":8001"`

	Coin        string        `long:"coin" env:"CHARTS_COIN" description:"coin ticker" default:"BTC"`
	Network     string        `long:"network" env:"CHARTS_NETWORK" description:"network name" default:"mainnet"`
	RPCURL      string        `long:"rpc-url" env:"CHARTS_RPC_URL" description:"node RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser     string        `long:"rpc-user" env:"CHARTS_RPC_USER" description:"node RPC username"`
	RPCPassword string        `long:"rpc-password" env:"CHARTS_RPC_PASSWORD" description:"node RPC password"`
	NodeRetry   time.Duration `long:"node-retry" env:"CHARTS_NODE_RETRY" description:"delay between node readiness probes" default:"5s"`

	ClickhouseDSN     string `long:"clickhouse-dsn" env:"CHARTS_CLICKHOUSE_DSN" description:"ClickHouse DSN for indexed transaction lookups; node RPC is used when empty"`
	ClickhouseMigrate bool   `long:"clickhouse-migrate" env:"CHARTS_CLICKHOUSE_MIGRATE" description:"apply embedded migrations on startup"`

	ChartCacheSize int           `long:"chart-cache-size" env:"CHARTS_CACHE_SIZE" description:"cached charts" default:"5"`
	ChartCacheTTL  time.Duration `long:"chart-cache-ttl" env:"CHARTS_CACHE_TTL" description:"chart cache TTL" default:"150s"`
	LookupWorkers  int           `long:"lookup-workers" env:"CHARTS_LOOKUP_WORKERS" description:"parallel transaction lookups per block" default:"8"`
	SoloPrefix     string        `long:"solo-prefix" env:"CHARTS_SOLO_PREFIX" description:"pool name prefix of solo miner addresses" default:"t"`
	PoolsFile      string        `long:"pools-file" env:"CHARTS_POOLS_FILE" description:"YAML pool tags file, embedded list when empty"`
	SubsidyInitial float64       `long:"subsidy-initial" env:"CHARTS_SUBSIDY_INITIAL" description:"initial block subsidy in coins, chain default when zero"`
	SubsidyHalving int64         `long:"subsidy-halving" env:"CHARTS_SUBSIDY_HALVING" description:"blocks between subsidy halvings" default:"210000"`

	RateURL          string        `long:"rate-url" env:"CHARTS_RATE_URL" description:"CoinGecko base URL" default:"https://api.coingecko.com"`
	RateCoinID       string        `long:"rate-coin-id" env:"CHARTS_RATE_COIN_ID" description:"CoinGecko coin id" default:"bitcoin"`
	RateVsCurrency   string        `long:"rate-vs-currency" env:"CHARTS_RATE_VS_CURRENCY" description:"quote currency" default:"usd"`
	RateRefresh      time.Duration `long:"rate-refresh" env:"CHARTS_RATE_REFRESH" description:"exchange rate refresh interval" default:"10m"`
	RatePerMinute    int           `long:"rate-per-minute" env:"CHARTS_RATE_PER_MINUTE" description:"CoinGecko request budget per minute" default:"10"`
	RateHTTPTimeout  time.Duration `long:"rate-http-timeout" env:"CHARTS_RATE_HTTP_TIMEOUT" description:"CoinGecko request timeout" default:"10s"`
	BaseCurrencyKey  string        `long:"base-currency-key" env:"CHARTS_BASE_CURRENCY_KEY" description:"key of the rate in /api/currency" default:"bitstamp"`
	ShutdownDeadline time.Duration `long:"shutdown-deadline" env:"CHARTS_SHUTDOWN_DEADLINE" description:"graceful shutdown deadline" default:"10s"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("charts api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	coin := model.Coin(cfg.Coin)
	network := model.Network(cfg.Network)

	rpc, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpc.Shutdown()
		rpc.WaitForShutdown()
	}()

	source, err := newSource(cfg, bitcoin.NewRPCClient(rpc, metrics.NewRPCClient(coin, network)))
	if err != nil {
		return err
	}
	if err := waitForNode(ctx, source, cfg.NodeRetry, logger); err != nil {
		return err
	}

	checks := map[string]transport.HealthChecker{"node": source}
	var txs charts.TransactionSource = source
	if cfg.ClickhouseDSN != "" {
		repo, err := openRepository(ctx, cfg, coin, network, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = repo.Close()
		}()
		checks["clickhouse"] = repo
		txs = repo
	}

	chartService, err := newChartService(cfg, source, txs, logger)
	if err != nil {
		return err
	}
	rateCache, err := newRateCache(cfg, logger)
	if err != nil {
		return err
	}

	explorer := transport.NewExplorerHandler(checks, logger)
	handler, err := transport.NewHTTPHandler(chartService, rateCache, explorer, cfg.BaseCurrencyKey, logger)
	if err != nil {
		return err
	}

	return serve(ctx, cfg, explorer, handler, logger)
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

func newSource(cfg config, node bitcoin.Node) (*bitcoin.Source, error) {
	params, err := bitcoin.ChainParams(model.Network(cfg.Network))
	if err != nil {
		return nil, err
	}
	subsidy := bitcoin.DefaultSubsidySchedule(params)
	if cfg.SubsidyInitial > 0 {
		subsidy, err = bitcoin.NewSubsidySchedule(cfg.SubsidyInitial, cfg.SubsidyHalving)
		if err != nil {
			return nil, fmt.Errorf("subsidy schedule: %w", err)
		}
	}
	pools, err := bitcoin.LoadPools(cfg.PoolsFile)
	if err != nil {
		return nil, err
	}
	return bitcoin.NewSource(node, subsidy, pools, params)
}

func waitForNode(ctx context.Context, source *bitcoin.Source, retry time.Duration, logger *zap.Logger) error {
	for {
		height, err := source.LatestHeight(ctx)
		if err == nil {
			logger.Info("node ready", zap.Int64("height", height))
			return nil
		}
		logger.Warn("node not ready", zap.Duration("retry_in", retry), zap.Error(err))
		if err := clock.SleepWithContext(ctx, retry); err != nil {
			return fmt.Errorf("wait for node: %w", err)
		}
	}
}

func openRepository(ctx context.Context, cfg config, coin model.Coin, network model.Network, logger *zap.Logger) (*clickhouse.Repository, error) {
	if cfg.ClickhouseMigrate {
		changed, err := clickhouse.MigrateUp(cfg.ClickhouseDSN)
		if err != nil {
			return nil, err
		}
		logger.Info("clickhouse migrations checked", zap.Bool("applied", changed))
	}
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, coin, network, metrics.NewClickhouseRepository())
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func newChartService(cfg config, blocks charts.BlockSource, txs charts.TransactionSource, logger *zap.Logger) (*charts.Service, error) {
	aggregator, err := charts.NewAggregator(txs, charts.NewPoolNameNormalizer(cfg.SoloPrefix), cfg.LookupWorkers)
	if err != nil {
		return nil, err
	}
	cache, err := charts.NewResultCache(cfg.ChartCacheSize, cfg.ChartCacheTTL, clock.System{})
	if err != nil {
		return nil, err
	}
	return charts.NewService(blocks, aggregator, cache, clock.System{}, metrics.NewCharts(), logger)
}

func newRateCache(cfg config, logger *zap.Logger) (*rates.Cache, error) {
	rateMetrics := metrics.NewExchangeRate("coingecko")
	provider, err := rates.NewCoinGecko(
		&http.Client{Timeout: cfg.RateHTTPTimeout},
		rates.CoinGeckoConfig{
			BaseURL:           cfg.RateURL,
			CoinID:            cfg.RateCoinID,
			VsCurrency:        cfg.RateVsCurrency,
			RequestsPerMinute: cfg.RatePerMinute,
		},
		rateMetrics,
		logger,
	)
	if err != nil {
		return nil, err
	}
	return rates.NewCache(provider, cfg.RateRefresh, clock.System{}, rateMetrics, logger)
}

func serve(ctx context.Context, cfg config, explorer *transport.ExplorerHandler, handler *transport.HTTPHandler, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	blockinsight7000v1.RegisterExplorerServiceServer(grpcServer, explorer)
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	gw := gwruntime.NewServeMux()
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if err := blockinsight7000v1.RegisterExplorerServiceHandlerFromEndpoint(ctx, gw, cfg.Addr, opts); err != nil {
		return fmt.Errorf("register explorer gateway: %w", err)
	}

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           transport.NewRouter(handler, gw),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gRPC server", zap.String("addr", cfg.Addr))
		if err := grpcServer.Serve(socket); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDeadline)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
