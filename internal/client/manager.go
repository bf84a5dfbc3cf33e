package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/averycrespi/lspnav/pkg/types"
)

// Manager manages the client lifecycle for one workspace root.
// The client is started lazily on first use.
type Manager struct {
	cfg       types.Config
	newClient func(types.Config) types.Client

	client      types.Client
	initialized bool
	mu          sync.Mutex
}

// NewManager creates a new client manager
func NewManager(cfg types.Config) *Manager {
	return &Manager{
		cfg: cfg,
		newClient: func(cfg types.Config) types.Client {
			return NewClient(cfg)
		},
	}
}

// WithClient runs fn with a started client, starting one on first use.
// Calls are serialized so that at most one request is outstanding.
func (m *Manager) WithClient(ctx context.Context, fn func(types.Client) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureStarted(ctx); err != nil {
		return err
	}
	return fn(m.client)
}

func (m *Manager) ensureStarted(ctx context.Context) error {
	if m.initialized {
		return nil
	}

	slog.Info("Starting language server for workspace", "workspace_root", m.cfg.WorkspaceRoot, "server_command", m.cfg.ServerCommand)

	c := m.newClient(m.cfg)
	if err := c.Start(ctx, m.cfg.WorkspaceRoot); err != nil {
		return fmt.Errorf("failed to start language server client: %w", err)
	}

	m.client = c
	m.initialized = true
	return nil
}

// GetClient returns the started client, or nil if none is running
func (m *Manager) GetClient() types.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	return m.client
}

// Shutdown stops the client if one is running
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	slog.Info("Shutting down language server", "workspace_root", m.cfg.WorkspaceRoot)

	err := m.client.Stop(ctx)
	m.initialized = false
	m.client = nil
	if err != nil {
		return fmt.Errorf("failed to shutdown language server client: %w", err)
	}

	return nil
}

// IsInitialized returns whether a client is running
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.initialized
}
