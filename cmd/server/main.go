// satchel-server serves the inventory arena over SSH, one independent game
// per connection. Build:
//
//	go build -o satchel-server ./cmd/server
//
// Usage:
//
//	./satchel-server [--addr :2222] [--host-key satchel_host_key] [--metrics-addr :9090]
//
// Connect:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	xssh "golang.org/x/crypto/ssh"

	"satchel/assets"
	"satchel/internal/behavior"
	"satchel/internal/catalog"
	"satchel/internal/config"
	"satchel/internal/game"
	"satchel/internal/logging"
	"satchel/internal/metrics"
	internalssh "satchel/internal/ssh"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "satchel-server",
		Short:         "Serve the satchel arena over SSH",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	f.String("addr", ":2222", "SSH listen address")
	f.String("host-key", "satchel_host_key", "PEM host key (generated if absent)")
	f.Int("max-sessions", 32, "maximum concurrent games")
	f.String("metrics-addr", "", "serve prometheus /metrics on this address")
	f.String("items", "", "item catalog YAML (default: built-in items)")
	f.Bool("debug", false, "development logging: inventory contract violations panic")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-file", "", "log file (default: $XDG_STATE_HOME/satchel/satchel.log)")
	return cmd
}

// ─── server ─────────────────────────────────────────────────────────────────

// server runs one game per SSH connection. Games share only the read-only
// catalog and behavior table and the metrics collectors.
type server struct {
	cfg       *config.Config
	log       *zap.Logger
	metrics   metrics.Recorder
	catalog   *catalog.Catalog
	behaviors *behavior.Dispatcher
	// slots caps concurrent games.
	slots chan struct{}
}

func serve(ctx context.Context, cfg *config.Config) error {
	cfg.Log.Stderr = true
	log, closeLog, err := logging.New(cfg.Log, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	cat, beh, err := assets.Load(cfg.Items)
	if err != nil {
		return err
	}
	prom, err := metrics.New(cfg.Server.Namespace)
	if err != nil {
		return err
	}
	signer, err := loadOrCreateHostKey(cfg.Server.HostKey, log)
	if err != nil {
		return err
	}

	s := &server{
		cfg:       cfg,
		log:       log.Named("server"),
		metrics:   prom,
		catalog:   cat,
		behaviors: beh,
		slots:     make(chan struct{}, cfg.Server.MaxSessions),
	}

	srv := &gossh.Server{
		Addr:        cfg.Server.Addr,
		Handler:     s.handleSession,
		IdleTimeout: cfg.Server.IdleTimeout,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Any client may connect; the server is meant for a private network.
		// Add gossh.PublicKeyAuth or gossh.PasswordAuth options for real auth.
		HostSigners: []gossh.Signer{signer},
	}

	var metricsSrv *http.Server
	if addr := cfg.Server.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		s.log.Info("serving metrics", zap.String("addr", addr))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, gossh.ErrServerClosed) {
			return nil
		}
		return oops.In("server").With("addr", cfg.Server.Addr).Wrapf(err, "ssh server")
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Games still running are cut off.
		_ = srv.Close()
	}
	return nil
}

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the game so the SSH session stays open.
func (s *server) handleSession(sess gossh.Session) {
	pty, winCh, hasPTY := sess.Pty()
	if !hasPTY {
		fmt.Fprintln(sess, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	default:
		fmt.Fprintln(sess, "The server is full. Try again in a little while.")
		s.log.Warn("session refused: server full", zap.String("remote", sess.RemoteAddr().String()))
		return
	}

	id := uuid.NewString()
	name := sanitizeName(sess.User())
	if name == "" {
		name = "player-" + id[:8]
	}
	log := s.log.With(
		zap.String("session_id", id),
		zap.String("user", name),
		zap.String("remote", sess.RemoteAddr().String()),
	)

	// Only known terminal types reach terminfo.
	term := pty.Term
	if !allowedTerms[term] {
		log.Debug("unknown TERM, using fallback", zap.String("term", term))
		term = "xterm-256color"
	}

	// Create a tcell screen backed by this SSH session.
	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	tty := internalssh.NewSessionTty(sess, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(sess, "Terminal setup failed: %v\n", err)
		log.Warn("terminal setup failed", zap.Error(err))
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(sess, "Screen init failed: %v\n", err)
		log.Warn("screen init failed", zap.Error(err))
		return
	}
	defer screen.Fini()

	g, err := game.New(screen, s.cfg.Game(), game.Deps{
		Catalog:    s.catalog,
		Behaviors:  s.behaviors,
		Logger:     log,
		Metrics:    s.metrics,
		SpawnTable: assets.ItemSpawns,
		SessionID:  id,
		Player:     name,
	})
	if err != nil {
		log.Error("game setup failed", zap.Error(err))
		return
	}
	defer func() {
		// A development logger panics on inventory contract violations; keep
		// the server up and drop only this connection.
		if r := recover(); r != nil {
			log.Error("game panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	if err := g.Run(sess.Context()); err != nil {
		log.Warn("game ended with error", zap.Error(err))
	}
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// allowedTerms lists the TERM values passed to terminfo. Anything else falls
// back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"xterm-color":           true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
	"alacritty":             true,
}

// maxNameRunes bounds display names taken from the SSH user.
const maxNameRunes = 16

// sanitizeName drops control characters from an SSH user name and keeps at
// most maxNameRunes runes.
func sanitizeName(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		if n == maxNameRunes {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, log *zap.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Info("loaded host key", zap.String("path", path))
			return signer, nil
		}
	}

	log.Info("generating new ed25519 host key", zap.String("path", path))
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, oops.In("server").Wrapf(err, "generate host key")
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, oops.In("server").Wrapf(err, "create signer")
	}
	// Persist for next run (non-fatal if it fails).
	pemBlock, err := xssh.MarshalPrivateKey(key, "satchel server")
	if err == nil {
		err = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600)
	}
	if err != nil {
		log.Warn("host key not saved", zap.String("path", path), zap.Error(err))
	}
	return signer, nil
}
