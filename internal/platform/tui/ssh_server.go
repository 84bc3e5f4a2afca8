package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/gyroball/internal/config"
	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/registry"
	"github.com/vovakirdan/gyroball/internal/sensor"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// sessionIDKey stores the per-session UUID in the SSH context.
type sessionIDKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gyroball/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// App is the simulation and sensor configuration used for every session.
	App config.Config

	// Logger receives server and per-session logs. Nil creates one on stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		App:         config.DefaultConfig(),
	}
}

// sessionSources are the sources a remote user may pick. Replay and serial
// read server-local resources and are not offered.
var sessionSources = []string{sensor.NameKeyboard, sensor.NameSynthetic}

// SSHServer wraps a Wish SSH server. Every session runs its own loop.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if err := cfg.App.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gyroball-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gyroball", "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id, _ := sshSession.Context().Value(sessionIDKey{}).(string)

	cfg := core.DefaultConfig()
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height

	model := NewSessionModel(sshSession.Context(), s.config.App, cfg, s.logger.With("session", id, "user", sshSession.User()))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware tags each session with an ID and logs its lifetime.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.NewString()
		sshSession.Context().SetValue(sessionIDKey{}, id)

		start := time.Now()
		s.logger.Info("session started",
			"session", id,
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"session", id,
			"user", sshSession.User(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages one session: source picker -> playfield -> picker.
type SessionModel struct {
	ctx      context.Context
	app      config.Config
	config   core.RuntimeConfig
	logger   *log.Logger
	menu     MenuModel
	loop     *sim.Loop
	view     *Model
	err      error
	quitting bool
}

// NewSessionModel creates a new session model. ctx bounds every loop the
// session starts.
func NewSessionModel(ctx context.Context, app config.Config, cfg core.RuntimeConfig, logger *log.Logger) SessionModel {
	return SessionModel{
		ctx:    ctx,
		app:    app,
		config: cfg,
		logger: logger,
		menu:   NewMenuModel(MenuItems(sessionSources...), cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.view != nil {
		return m.updateView(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates while the picker is shown.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	loop, presser, err := m.startLoop(selected.Source)
	if err != nil {
		m.logger.Error("cannot start simulation", "source", selected.Source, "err", err)
		m.err = err
		m.menu = NewMenuModel(MenuItems(sessionSources...), m.config)
		return m, nil
	}

	m.err = nil
	m.loop = loop
	view := NewModel(loop, presser, m.config)
	view.embedded = true
	m.view = &view
	return m, m.view.Init()
}

// startLoop builds a loop driven by the named source and starts it.
func (m SessionModel) startLoop(name string) (*sim.Loop, Presser, error) {
	src, err := registry.Create(name, m.app.Sensor, registry.Env{Logger: m.logger})
	if err != nil {
		return nil, nil, err
	}

	loop, err := sim.NewLoop(m.app.SimConfig(), sim.WithLogger(m.logger))
	if err != nil {
		return nil, nil, err
	}
	loop.Attach(src)
	if err := loop.Start(m.ctx); err != nil {
		return nil, nil, err
	}

	presser, _ := src.(Presser)
	return loop, presser, nil
}

// updateView handles updates while the playfield is shown.
func (m SessionModel) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.view.Update(msg)
	if view, ok := newModel.(Model); ok {
		m.view = &view
	}

	if m.view.IsQuitting() {
		m.stopLoop()
		m.quitting = true
		return m, tea.Quit
	}

	if m.view.BackToMenu() {
		m.stopLoop()
		m.menu = NewMenuModel(MenuItems(sessionSources...), m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m *SessionModel) stopLoop() {
	if m.view != nil {
		m.view.Close()
		m.view = nil
	}
	if m.loop != nil {
		m.loop.Stop()
		m.loop = nil
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.view != nil {
		return m.view.View()
	}

	if m.err != nil {
		return m.menu.View() + "\n" + centerText(menuMutedStyle.Render("error: "+m.err.Error()), m.config.ScreenW)
	}
	return m.menu.View()
}
