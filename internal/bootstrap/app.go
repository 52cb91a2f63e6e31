package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gopherblog/internal/config"
	"gopherblog/internal/model"
	"gopherblog/internal/pkg/jwtutil"
	mysqlClient "gopherblog/internal/platform/mysql"
	postgresClient "gopherblog/internal/platform/postgres"
	rabbitmqClient "gopherblog/internal/platform/rabbitmq"
	redisClient "gopherblog/internal/platform/redis"
	sqliteClient "gopherblog/internal/platform/sqlite"
	"gopherblog/internal/repository"
	"gopherblog/internal/worker"
)

// App holds the process-wide resources. Redis and MQConn are nil when disabled in config.
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	EventWorker *worker.AuthEventWorker
	Tokens      *jwtutil.Manager

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{Config: cfg, StartedAt: time.Now()}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	app.Tokens, err = jwtutil.NewManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("init token manager failed: %w", err)
	}

	app.DB, err = OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(app.DB); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		app.Redis, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
	}

	if cfg.RabbitMQ.Enabled {
		app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.App.Name, cfg.RabbitMQ.AuthEventQueue)
		if err != nil {
			return nil, err
		}

		eventRepo := repository.NewAuthEventRepository(app.DB)
		app.EventWorker = worker.NewAuthEventWorker(app.MQConn, eventRepo, cfg.RabbitMQ.AuthEventQueue)
		if err := app.EventWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start auth event worker failed: %w", err)
		}
	}

	return app, nil
}

// OpenDatabase connects to the store selected by database.driver.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return mysqlClient.New(ctx, cfg.MySQLDSN())
	case config.DriverPostgres:
		return postgresClient.New(ctx, cfg.PostgresDSN())
	case config.DriverSQLite:
		return sqliteClient.New(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Tables()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
