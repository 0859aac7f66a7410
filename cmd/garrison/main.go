package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	dbfs "github.com/garrisonhq/garrison/db"
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/db"
	dbsqlc "github.com/garrisonhq/garrison/internal/db/sqlc"
	"github.com/garrisonhq/garrison/internal/discord"
	"github.com/garrisonhq/garrison/internal/handlers"
	"github.com/garrisonhq/garrison/internal/logger"
	"github.com/garrisonhq/garrison/internal/moderation"
	"github.com/garrisonhq/garrison/internal/rankrequest"
	"github.com/garrisonhq/garrison/internal/reconcile"
	"github.com/garrisonhq/garrison/internal/roblox"
	"github.com/garrisonhq/garrison/internal/server"
	"github.com/garrisonhq/garrison/internal/tracker"
	"github.com/garrisonhq/garrison/internal/verification"
	"github.com/garrisonhq/garrison/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,
			provideDBQueries,
			provideSession,

			provideRobloxClient,
			provideVerificationStore,
			provideVerificationService,
			provideMemberEditor,
			provideEngine,
			provideTrackerStore,
			provideTrackerRunner,
			provideRankRequestService,
			moderation.NewService,
			provideBot,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewStatusHandler),
			provideServer,
		),
		fx.Invoke(
			startBot,
			startTracker,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func runMigrate(args []string) error {
	cfg, err := provideConfig()
	if err != nil {
		return err
	}
	log := provideLogger(cfg)
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}
	migrations, err := fs.Sub(dbfs.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	return db.RunMigrate(log, cfg.Postgres, migrations, command, args)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideSession(cfg config.Config) (*discordgo.Session, error) {
	token := os.Getenv(cfg.Discord.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("discord token: environment variable %s is empty", cfg.Discord.TokenEnv)
	}
	return discord.NewSession(token)
}

func provideRobloxClient(log *slog.Logger, cfg config.Config) *roblox.Client {
	return roblox.NewClient(log, cfg.Roblox)
}

func provideVerificationStore(pool *pgxpool.Pool, queries *dbsqlc.Queries) *verification.PGStore {
	return verification.NewPGStore(pool, queries)
}

func provideVerificationService(log *slog.Logger, store *verification.PGStore, client *roblox.Client) *verification.Service {
	return verification.NewService(log, store, client)
}

func provideMemberEditor(session *discordgo.Session, cfg config.Config) *discord.MemberEditor {
	return discord.NewMemberEditor(session, cfg.Discord.GuildID)
}

func provideEngine(log *slog.Logger, cfg config.Config, client *roblox.Client, links *verification.Service, editor *discord.MemberEditor) *reconcile.Engine {
	return reconcile.NewEngine(log, cfg, client, links, editor)
}

func provideTrackerStore(log *slog.Logger, queries *dbsqlc.Queries) *tracker.PGStore {
	return tracker.NewPGStore(log, queries)
}

func provideTrackerRunner(log *slog.Logger, cfg config.Config, store *tracker.PGStore, client *roblox.Client, session *discordgo.Session) *tracker.Runner {
	notifier := discord.NewChannelNotifier(session, cfg.Discord.TrackerChannelID)
	return tracker.NewRunner(log, store, client, notifier, cfg.Roblox.MonitoredPlaceID)
}

func provideRankRequestService(log *slog.Logger, cfg config.Config, queries *dbsqlc.Queries, links *verification.Service) *rankrequest.Service {
	return rankrequest.NewService(log, cfg, queries, links)
}

func provideBot(
	log *slog.Logger,
	cfg config.Config,
	session *discordgo.Session,
	verificationService *verification.Service,
	engine *reconcile.Engine,
	trackerStore *tracker.PGStore,
	rankRequests *rankrequest.Service,
	moderationService *moderation.Service,
	client *roblox.Client,
) *discord.Bot {
	return discord.NewBot(log, cfg, session, verificationService, engine, trackerStore, rankRequests, moderationService, client)
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startBot(lc fx.Lifecycle, bot *discord.Bot) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bot.Start()
		},
		OnStop: func(ctx context.Context) error {
			return bot.Stop()
		},
	})
}

func startTracker(lc fx.Lifecycle, runner *tracker.Runner, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return runner.Start(cfg.Tracker.Interval)
		},
		OnStop: func(ctx context.Context) error {
			runner.Stop()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Garrison %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
