package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anicoll/mhihvac-integration/internal/pkg/config"
	"github.com/anicoll/mhihvac-integration/internal/pkg/contxt"
	"github.com/anicoll/mhihvac-integration/internal/pkg/database"
	"github.com/anicoll/mhihvac-integration/internal/pkg/database/migration"
	"github.com/anicoll/mhihvac-integration/internal/pkg/mhihvac"
	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
	"github.com/anicoll/mhihvac-integration/internal/pkg/mqtt"
	"github.com/anicoll/mhihvac-integration/internal/pkg/publisher"
	"github.com/anicoll/mhihvac-integration/internal/pkg/server"
	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang-migrate/migrate/v4"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HvacCommand is the main entry point for the integration CLI command.
func HvacCommand(ctx *cli.Context) error {
	cfg := &config.Config{
		HvacCfg: &config.HvacConfig{
			Host:         ctx.String("hvac-host"),
			Username:     ctx.String("hvac-username"),
			Password:     ctx.String("hvac-password"),
			MaxRetries:   ctx.Int("hvac-max-retries"),
			PollInterval: ctx.Duration("poll-interval"),
		},
		MqttCfg: &config.MqttConfig{
			Host:     ctx.String("mqtt-host"),
			Username: ctx.String("mqtt-user"),
			Password: ctx.String("mqtt-pass"),
		},
		DatabaseCfg: &config.DatabaseConfig{
			URL:              ctx.String("database-url"),
			MigrationsFolder: ctx.String("migrations-folder"),
		},
		ServerCfg: &config.ServerConfig{
			Address:    ctx.String("server-address"),
			SecretHash: ctx.String("server-secret-hash"),
		},
		LogLevel: ctx.String("log-level"),
	}

	if cfg.HvacCfg.Host == "" {
		return errors.New("hvac-host is required")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	var db *database.Database
	if cfg.DatabaseCfg.URL != "" {
		if cfg.DatabaseCfg.MigrationsFolder != "" {
			if err := migration.Migrate(cfg.DatabaseCfg.URL, cfg.DatabaseCfg.MigrationsFolder); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
		}
		conn, err := pgx.Connect(ctx.Context, cfg.DatabaseCfg.URL)
		if err != nil {
			return err
		}
		db = database.NewDatabase(ctx.Context, conn)
		defer db.Close()
	}

	hvacSvc := mhihvac.New(cfg.HvacCfg)
	defer hvacSvc.CloseSession()

	errorChan := make(chan error, 1000)
	return run(ctx.Context, cfg, hvacSvc, errorChan, logger, db)
}

func newLogger(level string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	parsedLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.Level = parsedLevel
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func run(ctx context.Context, cfg *config.Config, hvacSvc HvacService, errorChan chan error, logger *zap.Logger, db *database.Database) error {
	eg, ctx := errgroup.WithContext(ctx)

	if db != nil {
		if err := publisher.RegisterPublisher("postgres", db); err != nil {
			return err
		}
		eg.Go(func() error {
			return cronDbCleanup(ctx, db, errorChan)
		})
	}

	if cfg.MqttCfg != nil && cfg.MqttCfg.Host != "" {
		opts := paho_mqtt.NewClientOptions().
			AddBroker(cfg.MqttCfg.Host).
			SetUsername(cfg.MqttCfg.Username).
			SetPassword(cfg.MqttCfg.Password)
		mqttSvc := mqtt.New(paho_mqtt.NewClient(opts))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	eg.Go(func() error {
		return pollLoop(ctx, cfg.HvacCfg, hvacSvc, errorChan)
	})

	if cfg.ServerCfg != nil && cfg.ServerCfg.Address != "" {
		ctrl := server.New(hvacSvc, nil)
		if db != nil {
			ctrl = server.New(hvacSvc, db)
		}
		srv := &http.Server{
			Handler:      server.AuthMiddleware(cfg.ServerCfg.SecretHash)(server.LoggingMiddleware(ctrl.Handler())),
			Addr:         cfg.ServerCfg.Address,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		eg.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	eg.Go(func() error {
		// handle any async errors from the poll loop and cron jobs
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Error("async error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

func pollLoop(ctx context.Context, cfg *config.HvacConfig, hvacSvc HvacService, errorChan chan error) error {
	poll := func() {
		pollCtx, cancel := contxt.NewPollContext(ctx, cfg.PollInterval)
		defer cancel()
		data, err := hvacSvc.RawGroupData(pollCtx)
		if err != nil {
			errorChan <- err
			return
		}
		for name := range data {
			_ = publisher.RegisterGroup(&model.Group{ID: slug.Make(name), Name: name})
		}
		if err := publisher.PublishSnapshot(pollCtx, data); err != nil {
			errorChan <- err
		}
	}

	poll()
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			poll()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var errCron = errors.New("cron error")

func cronDbCleanup(ctx context.Context, db *database.Database, errChan chan error) error {
	if err := db.Cleanup(ctx); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		if err := db.Cleanup(context.Background()); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			errChan <- errCron
			return
		}
		zap.L().Info("cleaned up stale group states")
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
