package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	memrefresh "dog-registry/internal/adapters/refresh/memory"
	"dog-registry/internal/adapters/refresh/redispub"
	mem "dog-registry/internal/adapters/storage/memory"
	pg "dog-registry/internal/adapters/storage/postgres"
	_ "dog-registry/docs"
	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/owners"
	"dog-registry/internal/domain/vaccines"
	"dog-registry/internal/domain/vets"
	"dog-registry/internal/middleware"
	"dog-registry/internal/platform/logger"
	"dog-registry/internal/platform/metrics"
	"dog-registry/internal/ports/auth"
	"dog-registry/internal/ports/refresh"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a in-memory.
	DB *sql.DB

	// Opcional: si viene, se usa para las señales de refresh. Si no, intenta
	// REDIS_URL y cae a un recorder in-memory.
	Signaler refresh.Signaler

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Registry propio para poder levantar routers independientes en tests.
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		dogsRepo     dogs.Repository
		ownersRepo   owners.Repository
		vaccinesRepo vaccines.Repository
		vetsRepo     vets.Repository
		auditStore   audit.Store
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else if opts.Logger != nil {
				opts.Logger.Warn("postgres unavailable, using in-memory store", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}

	if db != nil {
		dogsRepo = pg.NewDogsRepo(db)
		ownersRepo = pg.NewOwnersRepo(db)
		vaccinesRepo = pg.NewVaccinesRepo(db)
		vetsRepo = pg.NewVetsRepo(db)
		auditStore = pg.NewAuditRepo(db)
	} else {
		st := mem.NewState()
		dogsRepo = mem.NewDogsRepo(st)
		ownersRepo = mem.NewOwnersRepo(st)
		vaccinesRepo = mem.NewVaccinesRepo(st)
		vetsRepo = mem.NewVetsRepo(st)
		auditStore = mem.NewAuditRepo(st)
	}

	signal := opts.Signaler
	if signal == nil {
		if url := os.Getenv("REDIS_URL"); url != "" {
			if client, err := redispub.Open(url); err == nil {
				signal = redispub.NewPublisher(client, os.Getenv("REDIS_REFRESH_CHANNEL"), opts.Logger)
			} else if opts.Logger != nil {
				opts.Logger.Warn("redis unavailable, refresh signals stay local", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}
	if signal == nil {
		signal = memrefresh.NewRecorder()
	}

	// Services por módulo
	dogsSvc := dogs.NewService(dogsRepo, signal, m)
	ownersSvc := owners.NewService(ownersRepo)
	vaccinesSvc := vaccines.NewService(vaccinesRepo, signal, m)
	vetsSvc := vets.NewService(vetsRepo, signal)
	auditSvc := audit.NewService(auditStore)

	// Rutas por módulo
	dogs.RegisterRoutes(r, dogsSvc, ownersSvc, auditSvc)
	vaccines.RegisterRoutes(r, vaccinesSvc, dogsSvc)
	vets.RegisterRoutes(r, vetsSvc)

	return r
}
