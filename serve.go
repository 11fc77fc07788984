package main

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/netif"
	"github.com/dgnsrekt/ghostsay/internal/server"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/dgnsrekt/ghostsay/internal/speech"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

const publicWarning = "Warning: This IP address is publicly accessible from the internet"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the speech server (default command)",
	Long: paragraph(fmt.Sprintf("\nListen on the configured address and speak the %s of every %s request. Edits to the config file move the server to the new address while it runs.",
		keyword("text"), keyword("GET /say"))),
	Example: paragraph("ghostsay serve\nghostsay serve --host 192.168.1.20 --port 8080"),
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	store := settings.New(viper.GetViper(), configFile)
	speaker := speech.NewCommandSpeaker(store.SpeechBinary(), log.Default())
	out := cmd.ErrOrStderr()

	m := server.NewManager(store.ServerConfig(), speaker, server.WithObserver(statusReporter(out)))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := m.Config()
	warnIfPublic(out, cfg.Host)
	if err := m.Start(ctx); err != nil {
		// A failed bind is not fatal: fixing the port in the config file
		// starts the server again.
		log.Error(server.OperatorMessage(err))
	}

	changes := make(chan server.Config, 1)
	if store.Path() != "" {
		store.Watch(func(cfg server.Config) {
			offerLatest(changes, cfg)
		})
		log.Debug("Watching configuration", "path", store.Path())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case cfg := <-changes:
				applySettings(gctx, out, m, cfg)
			}
		}
	})
	err := g.Wait()

	st := m.Status()
	if st.Running() {
		log.Info("Shutting down", "started", humanize.Time(st.StartedAt))
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	m.Stop(stopCtx)
	return err
}

// applySettings moves the server to cfg. Nothing happens when the server
// already runs with cfg.
func applySettings(ctx context.Context, w io.Writer, m *server.Manager, cfg server.Config) {
	if ctx.Err() != nil {
		return
	}
	if m.State() == server.StateRunning && m.Config() == cfg {
		log.Debug("Configuration unchanged", "addr", cfg.Addr())
		return
	}

	log.Info("Configuration changed, restarting server", "host", cfg.Host, "port", cfg.Port)
	warnIfPublic(w, cfg.Host)
	if err := m.Restart(ctx, cfg); err != nil {
		log.Error(server.OperatorMessage(err))
	}
}

// offerLatest puts cfg on ch, replacing a pending value that has not been
// consumed yet.
func offerLatest(ch chan server.Config, cfg server.Config) {
	for {
		select {
		case ch <- cfg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// warnIfPublic prints the public exposure warning for host and reports
// whether it did.
func warnIfPublic(w io.Writer, host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil || !netif.IsPublic(addr) || addr.IsLoopback() || addr.IsUnspecified() {
		return false
	}
	fmt.Fprintln(w, warning(publicWarning))
	return true
}

// statusReporter prints a one-line status for every state change.
func statusReporter(w io.Writer) server.Observer {
	return func(st server.Status) {
		switch st.State {
		case server.StateRunning:
			fmt.Fprintf(w, "%s %s\n", keyword("Listening on"), st.Config.Endpoint())
		case server.StateFailed:
			fmt.Fprintln(w, warning(st.Message()))
		case server.StateStopped:
			fmt.Fprintln(w, faint("Server stopped"))
		}
	}
}
