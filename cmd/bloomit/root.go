package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bloomit/internal/catalog"
	"bloomit/internal/clientconfig"
	"bloomit/internal/identity/client"
	"bloomit/internal/identity/notify"
	"bloomit/internal/identity/remote"
	"bloomit/internal/identity/service"
	"bloomit/internal/identity/store/resettoken"
	"bloomit/internal/identity/store/revocation"
	userstore "bloomit/internal/identity/store/user"
	"bloomit/internal/identity/token"
	"bloomit/internal/navigation"
	"bloomit/internal/platform/logger"
	"bloomit/internal/platform/metrics"
	"bloomit/internal/session"
	"bloomit/internal/todo"
	"bloomit/internal/tui"
	id "bloomit/pkg/domain"
)

// newRootCmd builds the command. start receives the loaded config.
func newRootCmd(start func(context.Context, clientconfig.Config) error) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "bloomit",
		Short: "Plant care, volunteering and to-dos in the terminal",
		Long: `bloomit is the Bloom It app for the terminal. It signs you in against a
Bloom It server (or an in-process one with --offline) and opens the plant
library, volunteering board and to-do list.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := clientconfig.Load(v, configFile)
			if err != nil {
				return err
			}
			return start(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/bloomit/config.yaml)")
	flags.String("server", "", "Bloom It server URL")
	flags.Bool("offline", false, "run the identity provider and content in process")
	flags.String("log-file", "", "where to write logs")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("session-file", "", "where the signed-in session is cached")
	flags.Duration("timeout", 0, "timeout for each request")
	for _, key := range clientconfig.Keys {
		if err := v.BindPFlag(key, flags.Lookup(strings.ReplaceAll(key, "_", "-"))); err != nil {
			panic(err)
		}
	}
	return cmd
}

func openLog(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// backend picks where identity and content come from.
type backend struct {
	identity client.Backend
	content  tui.Content
}

// offlineBackend runs the identity service over in-memory stores. Accounts
// last as long as the process.
func offlineBackend(log *slog.Logger, user func() id.UserID) (backend, error) {
	content, err := catalog.New()
	if err != nil {
		return backend{}, err
	}
	svc := service.New(userstore.New(), revocation.NewInMemoryTRL(), resettoken.New(),
		token.NewJWTService(uuid.NewString(), "bloomit-offline"),
		service.WithLogger(log),
		service.WithResetNotifier(notify.NewLogNotifier(log, true)),
	)
	return backend{
		identity: svc,
		content:  &tui.LocalContent{Catalog: content, User: user},
	}, nil
}

func onlineBackend(cfg clientconfig.Config, log *slog.Logger, accessToken func() string) backend {
	rc := remote.New(cfg.Server,
		remote.WithLogger(log),
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		remote.WithTokenSource(accessToken),
	)
	return backend{identity: rc, content: rc}
}

func run(ctx context.Context, cfg clientconfig.Config) error {
	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.NewWithWriter(logFile, cfg.LogLevel, "json")
	am := metrics.NewAppMetrics(prometheus.NewRegistry())

	// Retry replaces the client; requests always use the newest one's token.
	var current atomic.Pointer[client.Client]
	var app *navigation.App

	var be backend
	if cfg.Offline {
		be, err = offlineBackend(log, func() id.UserID {
			if identity := app.Root().Identity; identity != nil {
				return identity.UserID
			}
			return id.UserID{}
		})
		if err != nil {
			return err
		}
	} else {
		be = onlineBackend(cfg, log, func() string {
			if c := current.Load(); c != nil {
				return c.AccessToken()
			}
			return ""
		})
	}

	cache := client.NewFileTokenCache(cfg.SessionFile)
	factory := func(opts ...session.Option) (*session.Manager, func()) {
		c := client.New(be.identity, client.WithLogger(log), client.WithTokenCache(cache))
		c.Start(ctx)
		current.Store(c)
		return session.New(c, append(opts, session.WithLogger(log), session.WithMetrics(am))...), c.Close
	}

	log.Info("starting bloomit", "server", cfg.Server, "offline", cfg.Offline)
	app = navigation.NewApp(factory, navigation.WithAppLogger(log), navigation.WithAppMetrics(am))
	defer app.Close()

	model := tui.New(app, be.content, todo.New(),
		tui.WithLogger(log),
		tui.WithTimeout(cfg.Timeout),
	)
	if err := tui.Run(ctx, model, tea.WithAltScreen()); err != nil {
		return err
	}
	log.Info("bloomit exited")
	return nil
}
