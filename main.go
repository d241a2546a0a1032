package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fabmon/internal/activities"
	"fabmon/internal/cache"
	"fabmon/internal/common"
	"fabmon/internal/config"
	"fabmon/internal/extract"
	"fabmon/internal/handlers/api"
	"fabmon/internal/middlewares"
	"fabmon/internal/powerbi"
	"fabmon/internal/resolve"
	"fabmon/internal/scheduler"
	"fabmon/model"
	"fabmon/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	daysFlag = &cli.IntFlag{
		Name:  "days",
		Usage: "Number of days to extract, counting back from yesterday",
		Value: 1,
	}
	includeTodayFlag = &cli.BoolFlag{
		Name:  "include-today",
		Usage: "Extract up to today instead of yesterday (data may be partial)",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "fabmon - Multi-tenant Power BI/Fabric activity log monitor"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:   "extract",
			Usage:  "Run one extraction and exit",
			Flags:  []cli.Flag{daysFlag, includeTodayFlag},
			Action: runExtract,
		},
		{
			Name:   "backfill-columns",
			Usage:  "Re-derive promoted columns from stored raw events and exit",
			Action: runBackfillColumns,
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err == nil {
		if dbConfig.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
		}
		if dbConfig.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
		}
		if dbConfig.ConnMaxIdleTime > 0 {
			sqlDB.SetConnMaxIdleTime(time.Duration(dbConfig.ConnMaxIdleTime) * time.Second)
		}
		if dbConfig.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
		}
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitRedis(redisCfg config.RedisConfig) redis.UniversalClient {
	opts, err := redis.ParseURL(redisCfg.URL)
	if err != nil {
		slog.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	if redisCfg.PoolSize > 0 {
		opts.PoolSize = redisCfg.PoolSize
	}
	return redis.NewClient(opts)
}

// services wires the full pipeline once for every entry point.
type services struct {
	db        *gorm.DB
	rdb       redis.UniversalClient
	store     *activities.Store
	scheduler *scheduler.Scheduler
	resolver  *resolve.Resolver
}

func initServices(cfg *config.Config) *services {
	db := mustInitDatabase(cfg.MySQL)

	var rdb redis.UniversalClient
	var cacheStorage cache.Storage
	if cfg.Redis.URL != "" {
		rdb = mustInitRedis(cfg.Redis)
		cacheStorage = cache.NewRedisStorage(rdb)
	} else {
		cacheStorage = cache.NewMemoryStorage()
	}

	store := activities.NewStore(db)
	tokens := powerbi.NewTokenProvider("")
	client := powerbi.NewClient("")
	extractor := extract.NewExtractor(tokens, client, cfg.Extraction.DayDelay)

	return &services{
		db:        db,
		rdb:       rdb,
		store:     store,
		scheduler: scheduler.NewScheduler(extractor, store, &cfg.Extraction, cfg.Tenants),
		resolver:  resolve.NewResolver(store, tokens, cfg.Tenants, cacheStorage, ""),
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return nil, err
	}
	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))
	return cfg, nil
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	svc := initServices(cfg)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api.RegisterRoutes(router,
		api.NewActivityHandler(svc.store),
		api.NewSystemHandler(svc.store, cfg.Tenants),
		api.NewExtractHandler(svc.scheduler),
		api.NewResolveHandler(svc.resolver),
	)

	if err := svc.scheduler.Schedule(cfg.Extraction.CronSchedule); err != nil {
		slog.Error("Invalid cron schedule", "schedule", cfg.Extraction.CronSchedule, "error", err)
		return err
	}
	defer svc.scheduler.Stop()

	go func() {
		if err := svc.scheduler.Bootstrap(ctx.Context); err != nil {
			slog.Error("Bootstrap extraction failed", "error", err)
		}
	}()

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, svc.rdb, svc.db)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func runExtract(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	svc := initServices(cfg)

	result, err := svc.scheduler.Run(ctx.Context, scheduler.RunOptions{
		DaysBack:     ctx.Int(daysFlag.Name),
		IncludeToday: ctx.Bool(includeTodayFlag.Name),
		Trigger:      "cli",
	})
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %s to %s: %d new events, %d tenants ok, %d failed\n",
		result.FromDate, result.ToDate, result.EventsStored, result.TenantsOK, result.TenantsFailed)
	return nil
}

func runBackfillColumns(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	svc := initServices(cfg)

	updated, err := svc.store.BackfillColumns(ctx.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Backfill complete: %d rows updated\n", updated)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
