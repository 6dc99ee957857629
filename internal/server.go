package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/evolvefit/fatiguecore/internal/auth"
	"github.com/evolvefit/fatiguecore/internal/config"
	"github.com/evolvefit/fatiguecore/internal/db"
	"github.com/evolvefit/fatiguecore/internal/fatigue"
	fatiguemcp "github.com/evolvefit/fatiguecore/internal/fatigue/mcp"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/fatigue/tracker"
	"github.com/evolvefit/fatiguecore/internal/middleware"
	"github.com/evolvefit/fatiguecore/internal/misc"
	"github.com/evolvefit/fatiguecore/internal/planner"
	"github.com/evolvefit/fatiguecore/internal/telemetry/metrics"
	"github.com/evolvefit/fatiguecore/internal/telemetry/tracing"
	"github.com/evolvefit/fatiguecore/internal/workouts"
	"github.com/evolvefit/fatiguecore/pkg"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mcpClientSecret   string
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	fatigueConfig fatigue.Config

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	MCPClientSecret         string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fatigue", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fatigue-backend")
	if err != nil {
		return nil, err
	}

	fatigueConfig := fatigue.DefaultConfig()
	if params.Config.FatiguePeripheralDecay > 0 {
		fatigueConfig.PeripheralDecayRate = params.Config.FatiguePeripheralDecay
	}
	if params.Config.FatigueCentralDecay > 0 {
		fatigueConfig.CentralDecayRate = params.Config.FatigueCentralDecay
	}

	s := &Server{
		config:          params.Config,
		dbPool:          dbPool,
		mcpClientSecret: params.MCPClientSecret,
		versionInfo:     params.VersionInfo,
		fatigueConfig:   fatigueConfig,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) targetThreshold() float64 {
	if s.config.FatigueTargetThreshold > 0 {
		return s.config.FatigueTargetThreshold
	}
	return 0.3
}

func (s *Server) plannerDays() int {
	if s.config.PlannerDefaultDays > 0 {
		return s.config.PlannerDefaultDays
	}
	return 7
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workoutsHandler := workouts.NewHandler(workoutsRepo, s.metricsManager)
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/workouts/exercise/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/workouts", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")

	snapshotsRepo := snapshots.NewRepo(s.dbPool)
	trackerService := tracker.NewService(s.fatigueConfig, snapshotsRepo, workoutsRepo, s.metricsManager)
	trackerHandler := tracker.NewHandler(trackerService)
	r.HandleFunc("/fatigue/{userID}/state", trackerHandler.HandleGetState).Methods("GET", "OPTIONS").Name("fatigue-state")
	r.HandleFunc("/fatigue/{userID}/workout", trackerHandler.HandleApplyWorkout).Methods("POST", "OPTIONS").Name("fatigue-workout")
	r.HandleFunc("/fatigue/{userID}/sync", trackerHandler.HandleSyncWorkout).Methods("POST", "OPTIONS").Name("fatigue-sync")
	r.HandleFunc("/fatigue/{userID}/rest", trackerHandler.HandleSimulateRest).Methods("POST", "OPTIONS").Name("fatigue-rest")
	r.HandleFunc("/fatigue/{userID}/recovery", trackerHandler.HandleProjectRecovery).Methods("POST", "OPTIONS").Name("fatigue-recovery")

	weekPlanner := planner.New(s.fatigueConfig, s.targetThreshold(), s.metricsManager)
	plannerHandler := planner.NewHandler(weekPlanner, trackerService, s.plannerDays())
	r.HandleFunc("/planner/{userID}/week", plannerHandler.HandlePlanWeek).Methods("POST", "OPTIONS").Name("plan-week")

	r.HandleFunc("/exercises/catalog", handleExerciseCatalog).Methods("GET", "OPTIONS").Name("exercise-catalog")

	// MCP server mounted at /mcp, shares tracker and planner with the REST API
	mcpServer := fatiguemcp.NewServer(trackerService, weekPlanner, s.targetThreshold(), s.plannerDays())
	mcpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp"))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mcpClientSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func handleExerciseCatalog(w http.ResponseWriter, _ *http.Request) {
	catalogJson, err := json.Marshal(fatigue.Catalog)
	if err != nil {
		log.Errorf("marshal exercise catalog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, catalogJson)
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
