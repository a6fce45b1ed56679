package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Catalogo-api/docs"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/gormstore"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
	"github.com/jhoicas/Catalogo-api/pkg/telemetry"
)

const version = "1.0.0"

// storage agrupa los adaptadores de persistencia elegidos por DB_DRIVER.
type storage struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer store.close()

	productUC := inventory.NewProductLifecycleUseCase(store.txRunner, store.productRepo, log)
	categoryUC := usecase.NewCategoryUseCase(store.categoryRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Catalogo API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger UI deshabilitada")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		Validator:  httpRouter.NewValidator(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre pgx (postgres) o gorm (gorm-postgres, sqlite) y aplica el esquema si DB_MIGRATE.
func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverPostgres {
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
		}
		return &storage{
			productRepo:  postgres.NewProductRepository(pool),
			categoryRepo: postgres.NewCategoryRepository(pool),
			txRunner:     postgres.NewTxRunner(pool),
			close:        pool.Close,
		}, nil
	}

	db, err := gormstore.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := gormstore.AutoMigrate(db); err != nil {
			_ = gormstore.Close(db)
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Msg("esquema gorm sincronizado")
	}
	return &storage{
		productRepo:  gormstore.NewProductRepository(db),
		categoryRepo: gormstore.NewCategoryRepository(db),
		txRunner:     gormstore.NewTxRunner(db),
		close:        func() { _ = gormstore.Close(db) },
	}, nil
}
