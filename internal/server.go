package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/kinnikutoken/internal/balance"
	"github.com/2beens/kinnikutoken/internal/config"
	"github.com/2beens/kinnikutoken/internal/db"
	"github.com/2beens/kinnikutoken/internal/history"
	"github.com/2beens/kinnikutoken/internal/ledger"
	"github.com/2beens/kinnikutoken/internal/level"
	"github.com/2beens/kinnikutoken/internal/middleware"
	"github.com/2beens/kinnikutoken/internal/misc"
	"github.com/2beens/kinnikutoken/internal/motivation"
	"github.com/2beens/kinnikutoken/internal/reward"
	"github.com/2beens/kinnikutoken/internal/suzuri"
	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config         *config.Config
	dbPool         *pgxpool.Pool
	redisClient    *redis.Client
	rateLimiter    middleware.RequestRateLimiter
	trustedProxies pkg.TrustedProxies
	kafka          *reward.KafkaPublisher

	rewardService  *reward.Service
	balanceService *balance.Service
	historyRepo    *history.Repo
	suzuriApi      *suzuri.Api
	levels         *level.Table

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	SymbolPrivateKey        string
	GeminiAPIKey            string
	SuzuriAPIKey            string
	RedisPassword           string
	DBUser                  string
	DBPassword              string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.DBHost,
		DBPort:         cfg.DBPort,
		DBName:         cfg.DBName,
		DBUser:         params.DBUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	historyRepo := history.NewRepo(dbPool)
	if err := historyRepo.EnsureSchema(ctx); err != nil {
		log.Errorf("workout history schema: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.DBName},
	)
	promRegistry := metrics.SetupPrometheus(params.VersionInfo, pgxpoolCollector)
	metricsManager := metrics.NewManager("kinniku", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "kinniku-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.SymbolRequestTimeout,
	}

	mosaicID, err := ledger.ParseMosaicID(cfg.SymbolMosaicID)
	if err != nil {
		return nil, fmt.Errorf("token mosaic id: %w", err)
	}

	ledgerClient := ledger.NewClient(
		cfg.SymbolNodeURL,
		time.Duration(cfg.SymbolEpochAdjustment)*time.Second,
		tracedHttpClient,
	)

	rewardParams := reward.ServiceParams{
		History:           historyRepo,
		MetricsManager:    metricsManager,
		MaxRepsPerWorkout: cfg.MaxRepsPerWorkout,
		RecordTimeout:     cfg.RewardRecordTimeout,
	}

	// a missing key is reported per request, the rest of the api keeps working
	if params.SymbolPrivateKey == "" {
		log.Errorf("symbol private key not set, use KINNIKU_SYMBOL_PRIVATE_KEY env var to set it")
	} else {
		account, err := ledger.NewAccountFromPrivateKey(params.SymbolPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("symbol account: %w", err)
		}
		rewardParams.Sender = ledger.NewSender(ledger.SenderParams{
			Client:        ledgerClient,
			Account:       account,
			MosaicID:      mosaicID,
			FeeMultiplier: cfg.SymbolFeeMultiplier,
		})
		log.Infof("reward sender account public key: %s", account.PublicKeyHex())
	}

	if params.GeminiAPIKey == "" {
		log.Errorf("gemini API key not set, use GEMINI_API_KEY env var to set it")
		rewardParams.Composer = motivation.NewComposer(nil, metricsManager)
	} else {
		generator, err := motivation.NewGeminiGenerator(ctx, motivation.GeminiConfig{
			APIKey:          params.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			MaxOutputTokens: cfg.GeminiMaxOutputTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini generator: %w", err)
		}
		rewardParams.Composer = motivation.NewComposer(generator, metricsManager)
	}

	var kafkaPublisher *reward.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = reward.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaRewardTopic)
		rewardParams.Events = kafkaPublisher
		log.Debugf("reward events go to kafka topic [%s]", cfg.KafkaRewardTopic)
	}

	if params.SuzuriAPIKey == "" {
		log.Warnf("suzuri API key not set, use SUZURI_API_KEY env var to set it")
	}

	trustedProxies, err := pkg.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	s := &Server{
		config:         cfg,
		versionInfo:    params.VersionInfo,
		dbPool:         dbPool,
		redisClient:    rdb,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		trustedProxies: trustedProxies,
		kafka:          kafkaPublisher,

		rewardService:  reward.NewService(rewardParams),
		balanceService: balance.NewService(ledgerClient, mosaicID, level.Default, metricsManager),
		historyRepo:    historyRepo,
		suzuriApi: suzuri.NewApi(suzuri.ApiParams{
			Endpoint: cfg.SuzuriEndpoint,
			UserID:   cfg.SuzuriUserID,
			APIKey:   params.SuzuriAPIKey,
			CacheTTL: cfg.SuzuriCacheTTL,
		}, tracedHttpClient, rdb),
		levels: level.Default,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

type notFoundResponse struct {
	Message string `json:"message"`
}

func (s *Server) rateLimited(routerName string, allowedPerMin int, handler http.Handler) http.Handler {
	if s.rateLimiter == nil || allowedPerMin <= 0 {
		return handler
	}
	return middleware.RateLimit(
		s.rateLimiter,
		routerName,
		allowedPerMin,
		s.trustedProxies,
		s.metricsManager,
	)(handler)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("kinniku-router"))

	misc.NewHandler(s.levels, s.versionInfo).SetupRoutes(r)

	sendTxHandler := s.rateLimited(
		"send-transaction",
		s.config.SendTransactionRateLimitPerMin,
		http.HandlerFunc(reward.NewHandler(s.rewardService).HandleSendTransaction),
	)
	r.Handle("/api/send-transaction", sendTxHandler).Methods("POST", "OPTIONS").Name("send-transaction")

	balanceHandler := balance.NewHandler(s.balanceService)
	r.HandleFunc("/api/balance/{address}", balanceHandler.HandleGet).Methods("GET", "OPTIONS").Name("balance")

	historyHandler := history.NewHandler(s.historyRepo)
	r.HandleFunc("/api/history/{address}", historyHandler.HandleGet).Methods("GET", "OPTIONS").Name("history")
	clearHistoryHandler := s.rateLimited(
		"clear-history",
		s.config.ClearHistoryRateLimitPerMin,
		http.HandlerFunc(historyHandler.HandleClear),
	)
	r.Handle("/api/history/{address}", clearHistoryHandler).Methods("DELETE").Name("clear-history")

	suzuriHandler := suzuri.NewHandler(s.suzuriApi)
	r.HandleFunc("/api/suzuri-items", suzuriHandler.HandleGetItems).Methods("GET", "OPTIONS").Name("suzuri-items")

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSON(w, notFoundResponse{Message: "Not Found"}, http.StatusNotFound)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.MetricsHost, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests first, in flight submissions still need redis, db and kafka
	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("http server shutdown: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("metrics server shutdown: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.kafka != nil {
		if closeErr := s.kafka.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close kafka writer: %w", closeErr))
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	for _, e := range multierr.Errors(err) {
		log.Errorf(" >>> graceful shutdown: %s", e)
	}
}
