package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/config"
	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
	"github.com/simp-lee/soundmint/internal/module/artist"
	"github.com/simp-lee/soundmint/internal/module/auth"
	"github.com/simp-lee/soundmint/internal/module/catalog"
	"github.com/simp-lee/soundmint/internal/module/dashboard"
	"github.com/simp-lee/soundmint/internal/module/nft"
	"github.com/simp-lee/soundmint/internal/module/referral"
	"github.com/simp-lee/soundmint/internal/module/user"
	"github.com/simp-lee/soundmint/internal/pkg"
	"github.com/simp-lee/soundmint/internal/token"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	issuer *token.Issuer
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		// Media transfers get twice the read budget.
		WriteTimeout: 2 * timeout,
		IdleTimeout:  120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database schema and reference data, every
// module's repository, service and handler, middleware and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. Schema and reference data.
	if err := migrate(context.Background(), db); err != nil {
		return nil, err
	}
	log.Info("database migrated")

	// 4. Manual dependency injection: repository → service → handler.
	modules, err := buildModules(cfg, db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !success {
			modules.issuer.Close()
		}
	}()

	// 5. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	metrics := middleware.NewMetrics()

	chain := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestID(false),
		middleware.Logger(log.Logger),
		metrics.Middleware(),
		middleware.CORS(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		chain = append(chain, middleware.RateLimit(middleware.RateLimitConfig{RPS: rl.RPS, Burst: rl.Burst}))
	}
	chain = append(chain, middleware.Auth(modules.issuer))
	engine.Use(chain...)

	// 6. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:  modules.list,
		DB:       db,
		Metrics:  metrics,
		MediaDir: cfg.Storage.UploadDir,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		issuer: modules.issuer,
		logger: log,
		cfg:    cfg,
	}, nil
}

type wiring struct {
	issuer *token.Issuer
	list   []Module
}

// buildModules wires every module against db.
func buildModules(cfg *config.Config, db *gorm.DB) (*wiring, error) {
	issuer, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.TokenExpiryDuration())
	if err != nil {
		return nil, fmt.Errorf("setup token issuer: %w", err)
	}
	storage, err := pkg.NewStorage(cfg.Storage.UploadDir, cfg.MaxUploadBytes())
	if err != nil {
		issuer.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	cacheSize, cacheTTL := cfg.Server.Cache.MaxSize, cfg.CacheTTLDuration()
	counts := pkg.NewCache[string, int64](cacheSize, cacheTTL)
	nftDetails := pkg.NewCache[uint, domain.Nft](cacheSize, cacheTTL)

	var external auth.ExternalProvider
	if google := auth.NewGoogleProvider(cfg.Auth.Google); google != nil {
		external = google
	}

	users := user.NewUserRepository(db)
	artistRepo := artist.NewArtistRepository(db)
	artistSvc := artist.NewArtistService(artistRepo, counts)
	nftSvc := nft.NewNftService(nft.NewNftRepository(db), nftDetails, nft.Explorer{
		BaseURL: cfg.Frontend.SolscanURL,
		Cluster: cfg.Frontend.Cluster,
	})

	authSvc := auth.NewService(issuer, users, auth.NewAccountRepository(db), cfg.WalletNonceTTLDuration(), external)

	return &wiring{
		issuer: issuer,
		list: []Module{
			auth.NewModule(auth.NewHandler(authSvc, cfg.Auth.Google.SuccessURL), credentialGuards(cfg)...),
			user.NewModule(user.NewUserHandler(user.NewUserService(users))),
			artist.NewModule(artist.NewArtistHandler(artistSvc)),
			catalog.NewModule(catalog.NewCatalogHandler(catalog.NewCatalogService(catalog.NewCatalogRepository(db), artistRepo), storage)),
			nft.NewModule(nft.NewNftHandler(nftSvc)),
			referral.NewModule(referral.NewReferralHandler(referral.NewReferralService(referral.NewReferralRepository(db), users))),
			dashboard.NewModule(dashboard.NewDashboardHandler(dashboard.NewDashboardService(dashboard.NewDashboardRepository(db), artistSvc))),
		},
	}, nil
}

// Credential endpoints get a tighter per-client budget than the API as a
// whole: a short burst, then one attempt per second.
const (
	credentialRPS   = 1
	credentialBurst = 5
)

func credentialGuards(cfg *config.Config) []gin.HandlerFunc {
	if !cfg.Server.RateLimit.Enabled {
		return nil
	}
	return []gin.HandlerFunc{middleware.RateLimit(middleware.RateLimitConfig{RPS: credentialRPS, Burst: credentialBurst})}
}

// resolveCORSConfig maps server.cors onto the middleware config. In release
// mode, when no allowlist is configured, cross-origin requests are denied.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	switch {
	case len(cfg.AllowOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowHeaders
	}
	corsConfig.AllowCredentials = cfg.AllowCredentials
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil && d > 0 {
		corsConfig.MaxAge = d
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout, then closes the
// database and the logger. Every failure along the way is returned.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	timeout, _ := time.ParseDuration(a.cfg.Server.Timeout)
	srv := newHTTPServer(addr, a.engine, timeout)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var result *multierror.Error

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
			result = multierror.Append(result, fmt.Errorf("server shutdown: %w", err))
		}
	case err := <-errCh:
		result = multierror.Append(result, fmt.Errorf("server error: %w", err))
	}

	if a.issuer != nil {
		a.issuer.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
				result = multierror.Append(result, fmt.Errorf("close database: %w", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close logger: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Handler exposes the configured engine, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.engine
}
