package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	boards "github.com/goliatone/go-boards"
	"github.com/goliatone/go-boards/config"
	"github.com/goliatone/go-boards/middleware/guard"
	"github.com/goliatone/go-boards/search"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

type App struct {
	config *gconfig.Container[*config.AppConfig]
	bunDB  *bun.DB
	repo   boards.RepositoryManager
	auther *boards.Auther
	index  *search.Service
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("boards"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.config.Raw().GetServer().GetDebug() {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithSearch(ctx, app); err != nil {
		panic(err)
	}

	WithAuth(app)
	WithHTTPServer(app)

	app.srv.Serve(app.config.Raw().GetServer().GetAddress())

	WaitExitSignal()

	if app.index != nil {
		if err := app.index.Close(); err != nil {
			lgr.GetLogger("search").Error("failed to close index", "error", err)
		}
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.Raw().GetDatabase().GetDSN())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	app.bunDB = bun.NewDB(sqldb, sqlitedialect.New())

	src, err := fs.Sub(boards.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load migrations")
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(src); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to discover migrations")
	}

	migrator := migrate.NewMigrator(app.bunDB, migrations)
	if err := migrator.Init(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to init migrator")
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to run migrations")
	}

	app.repo = boards.NewRepositoryManager(app.bunDB)
	app.repo.MustValidate()

	return nil
}

func WithSearch(ctx context.Context, app *App) error {
	index, err := search.New(app.config.Raw().GetSearch().GetIndexPath())
	if err != nil {
		return err
	}

	app.index = index.WithLogger(app.GetLogger("search"))
	return nil
}

func WithAuth(app *App) {
	app.auther = boards.NewAuthenticator(app.repo, app.config.Raw().GetAuth()).
		WithLogger(app.GetLogger("auth"))
}

func WithHTTPServer(app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	authCfg := app.config.Raw().GetAuth()
	contextKey := authCfg.GetContextKey()

	public := guard.New(guard.Config{
		Strategy: guard.StrategyPublic,
	})

	access := guard.New(guard.Config{
		Strategy:   guard.StrategyAccessRequired,
		Verifier:   app.auther.TokenService(),
		Directory:  app.repo.Users(),
		ContextKey: contextKey,
		AuthScheme: authCfg.GetAuthScheme(),
		ContextEnricher: func(ctx context.Context, identity *boards.Identity) context.Context {
			return boards.WithIdentity(ctx, identity)
		},
		Logger: app.GetLogger("guard"),
	})

	refresh := guard.New(guard.Config{
		Strategy:   guard.StrategyRefreshRequired,
		Verifier:   app.auther.TokenService(),
		Directory:  app.repo.Users(),
		ContextKey: contextKey,
		AuthScheme: authCfg.GetAuthScheme(),
		Logger:     app.GetLogger("guard"),
	})

	authCtrl := boards.NewAuthController(app.auther, contextKey).
		WithLogger(app.GetLogger("auth.http")).
		WithDebug(app.config.Raw().GetServer().GetDebug())
	boardCtrl := boards.NewBoardController(app.repo, app.index, contextKey).
		WithLogger(app.GetLogger("boards.http"))
	userCtrl := boards.NewUserController(app.repo, contextKey).
		WithLogger(app.GetLogger("users.http"))
	searchCtrl := boards.NewSearchController(app.index).
		WithLogger(app.GetLogger("search.http"))

	api := srv.Router().Group("/api")

	api.Post("/auth/signup", authCtrl.Signup, public).SetName("auth.signup")
	api.Post("/auth/login", authCtrl.Login, public).SetName("auth.login")
	api.Post("/auth/refresh", authCtrl.Refresh, refresh).SetName("auth.refresh")
	api.Post("/auth/logout", authCtrl.Logout, access).SetName("auth.logout")

	api.Get("/boards", boardCtrl.List, public).SetName("boards.list")
	api.Post("/boards", boardCtrl.Create, access).SetName("boards.create")
	api.Get("/boards/:id", boardCtrl.Get, access).SetName("boards.show")
	api.Patch("/boards/:id", boardCtrl.Update, access).SetName("boards.update")
	api.Delete("/boards/:id", boardCtrl.Delete, access).SetName("boards.delete")

	api.Get("/users", userCtrl.List, access).SetName("users.list")
	api.Get("/users/:id", userCtrl.Get, access).SetName("users.show")
	api.Patch("/users/:id", userCtrl.Update, access).SetName("users.update")
	api.Delete("/users/:id", userCtrl.Delete, access).SetName("users.delete")

	api.Get("/search/boards", searchCtrl.Boards, public).SetName("search.boards")

	if err := boardCtrl.ReindexAll(context.Background()); err != nil {
		app.GetLogger("search").Error("boot reindex failed", "error", err)
	}

	app.srv = srv
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
