package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/internal/transport"
	"github.com/averycrespi/lspnav/pkg/project"
	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/google/uuid"
)

const (
	defaultServerCommand = "gopls"
	fileURIPrefix        = "file://"
)

var defaultServerArgs = []string{"serve"}

var _ types.Client = &LspClient{}

// languageIDs maps file extensions to the languageId announced in didOpen
var languageIDs = map[string]string{
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".go":   "go",
	".java": "java",
	".js":   "javascript",
	".json": "json",
	".md":   "markdown",
	".py":   "python",
	".rs":   "rust",
	".ts":   "typescript",
	".yaml": "yaml",
	".yml":  "yaml",
	".zig":  "zig",
}

// LspClient implements the Client interface for a language server spoken to over stdio.
// One LspClient owns at most one running server process at a time.
type LspClient struct {
	cfg types.Config

	sessionID   string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	transport   types.Transport
	rootPath    string
	initialized bool

	// openDocs holds the paths announced with didOpen and not yet closed
	openDocs map[string]bool
}

// NewClient creates a new language server client
func NewClient(cfg types.Config) *LspClient {
	if cfg.ServerCommand == "" {
		cfg.ServerCommand = defaultServerCommand
		if len(cfg.ServerArgs) == 0 {
			cfg.ServerArgs = defaultServerArgs
		}
	}
	if cfg.SnippetReadLimit <= 0 {
		cfg.SnippetReadLimit = results.DefaultSnippetReadLimit
	}

	slog.Debug("Creating new language server client", "server_command", cfg.ServerCommand, "server_args", cfg.ServerArgs)

	return &LspClient{cfg: cfg}
}

// SessionID identifies the running session in logs and spans. It is empty before Start.
func (c *LspClient) SessionID() string {
	return c.sessionID
}

// Start spawns the language server in rootPath and performs the initialize handshake
func (c *LspClient) Start(ctx context.Context, rootPath string) error {
	if c.initialized {
		return fmt.Errorf("cannot start client for %s: %w", rootPath, types.ErrAlreadyStarted)
	}

	slog.Debug("Starting language server", "server_command", c.cfg.ServerCommand, "root_path", rootPath)

	path, err := exec.LookPath(c.cfg.ServerCommand)
	if err != nil {
		recordServerSpawn(ctx, c.cfg.ServerCommand, false)
		slog.Warn("Language server not installed", "server_command", c.cfg.ServerCommand)
		return fmt.Errorf("%w: %s", types.ErrServerNotFound, c.cfg.ServerCommand)
	}

	// The server outlives the start context, so it is not bound to ctx
	cmd := exec.Command(path, c.cfg.ServerArgs...)
	cmd.Dir = rootPath

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: stdin pipe: %v", types.ErrProcessSpawnFailed, err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return fmt.Errorf("%w: stdout pipe: %v", types.ErrProcessSpawnFailed, err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		recordServerSpawn(ctx, c.cfg.ServerCommand, false)
		return fmt.Errorf("%w: %v", types.ErrProcessSpawnFailed, err)
	}
	recordServerSpawn(ctx, c.cfg.ServerCommand, true)
	slog.Debug("Language server process started successfully", "pid", cmd.Process.Pid)

	c.cmd = cmd
	if err := c.attach(ctx, rootPath, stdin, stdout); err != nil {
		c.teardown()
		return err
	}

	return nil
}

// attach starts the transport over an already-connected pipe pair and runs the handshake
func (c *LspClient) attach(ctx context.Context, rootPath string, stdin io.WriteCloser, stdout io.ReadCloser) error {
	c.sessionID = uuid.NewString()
	c.stdin = stdin
	c.stdout = stdout
	c.rootPath = rootPath
	c.openDocs = map[string]bool{}
	c.transport = transport.NewJsonRpcTransport(stdin, stdout, c.cfg.RequestTimeout)

	if err := c.transport.Start(); err != nil {
		return fmt.Errorf("%w: failed to start transport: %v", types.ErrHandshakeFailed, err)
	}
	slog.Debug("JSON-RPC transport started successfully", "session_id", c.sessionID)

	if err := c.initialize(ctx); err != nil {
		return fmt.Errorf("%w: %v", types.ErrHandshakeFailed, err)
	}

	c.initialized = true
	slog.Debug("Language server initialized successfully", "session_id", c.sessionID, "root_path", rootPath)

	return nil
}

func (c *LspClient) initialize(ctx context.Context) error {
	params := types.InitializeParams{
		ProcessID: os.Getpid(),
		ClientInfo: types.ClientInfo{
			Name:    project.Name,
			Version: project.Version,
		},
		RootURI:      pathToURI(c.rootPath),
		Capabilities: map[string]any{},
	}

	slog.Debug("Initializing language server", "root_uri", params.RootURI)
	if _, err := c.transport.SendRequest(ctx, "initialize", params); err != nil {
		return fmt.Errorf("failed to send initialization request: %w", err)
	}

	if err := c.transport.SendNotification("initialized", nil); err != nil {
		return fmt.Errorf("failed to send initialization notification: %w", err)
	}

	return nil
}

// Stop shuts the server down and releases the process. It is safe to call
// on a client that was never started and to call more than once.
func (c *LspClient) Stop(ctx context.Context) error {
	if c.transport == nil && c.cmd == nil {
		return nil
	}

	slog.Debug("Stopping language server", "session_id", c.sessionID)

	if c.initialized {
		if _, err := c.transport.SendRequest(ctx, "shutdown", nil); err != nil {
			slog.Debug("Shutdown request failed", "session_id", c.sessionID, "error", err)
		}
		if err := c.transport.SendNotification("exit", nil); err != nil {
			slog.Debug("Exit notification failed", "session_id", c.sessionID, "error", err)
		}
	}

	c.teardown()
	return nil
}

// teardown stops the transport, closes the pipes and reaps the process
func (c *LspClient) teardown() {
	if c.transport != nil {
		_ = c.transport.Stop()
	}
	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	if c.stdout != nil {
		_ = c.stdout.Close()
	}

	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			slog.Debug("Failed to kill language server process", "pid", c.cmd.Process.Pid, "error", err)
		}
		_ = c.cmd.Wait()
	}

	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.transport = nil
	c.rootPath = ""
	c.openDocs = nil
	c.initialized = false
}

func (c *LspClient) ensureRunning() error {
	if !c.initialized {
		return types.ErrServerNotRunning
	}
	return nil
}

// DidOpen announces the content of path to the server. A document that is
// already open is closed first, so the server sees the new content.
func (c *LspClient) DidOpen(ctx context.Context, path string, content string) error {
	if err := c.ensureRunning(); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}

	if c.openDocs[path] {
		if err := c.DidClose(ctx, path); err != nil {
			return err
		}
	}

	params := map[string]any{
		"textDocument": types.TextDocumentItem{
			URI:        pathToURI(path),
			LanguageID: languageID(path),
			Version:    1,
			Text:       content,
		},
	}

	slog.Debug("Opening document", "session_id", c.sessionID, "path", path, "bytes", len(content))
	if err := c.transport.SendNotification("textDocument/didOpen", params); err != nil {
		return fmt.Errorf("failed to send didOpen notification: %w", err)
	}
	c.openDocs[path] = true

	return nil
}

// DidClose tells the server that path is no longer open. Closing a document
// that is not open is a no-op.
func (c *LspClient) DidClose(ctx context.Context, path string) error {
	if err := c.ensureRunning(); err != nil {
		return fmt.Errorf("cannot close %s: %w", path, err)
	}
	if !c.openDocs[path] {
		return nil
	}

	params := map[string]any{
		"textDocument": types.TextDocumentIdentifier{URI: pathToURI(path)},
	}

	slog.Debug("Closing document", "session_id", c.sessionID, "path", path)
	if err := c.transport.SendNotification("textDocument/didClose", params); err != nil {
		return fmt.Errorf("failed to send didClose notification: %w", err)
	}
	delete(c.openDocs, path)

	return nil
}

// FindReferences returns every reference to the symbol at the zero-indexed line and column,
// including its declaration
func (c *LspClient) FindReferences(ctx context.Context, path string, line, column int) (refs []results.SymbolReference, err error) {
	if err := c.ensureRunning(); err != nil {
		return nil, fmt.Errorf("cannot find references: %w", err)
	}

	ctx, done := observeOperation(ctx, "FindReferences", c.sessionID, path)
	defer func() { done(len(refs), err) }()

	slog.Debug("Finding symbol references", "path", path, "line", line, "column", column)

	params := types.ReferenceParams{
		TextDocumentPositionParams: positionParams(path, line, column),
		Context:                    types.ReferenceContext{IncludeDeclaration: true},
	}

	response, err := c.transport.SendRequest(ctx, "textDocument/references", params)
	if err != nil {
		return nil, fmt.Errorf("failed to find references: %w", err)
	}

	entries, err := decodeArray(response, "references")
	if err != nil {
		return nil, err
	}

	refs = make([]results.SymbolReference, 0, len(entries))
	for _, entry := range entries {
		ref, err := c.parseReference(entry)
		if err != nil {
			slog.Debug("Skipping malformed reference", "error", err)
			continue
		}
		refs = append(refs, ref)
	}

	slog.Debug("Found symbol references", "count", len(refs), "path", path)
	return refs, nil
}

func (c *LspClient) parseReference(raw json.RawMessage) (results.SymbolReference, error) {
	var loc types.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return results.SymbolReference{}, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	path, ok := uriToPath(loc.URI)
	if !ok {
		return results.SymbolReference{}, fmt.Errorf("%w: unsupported uri %q", types.ErrInvalidResponse, loc.URI)
	}
	start := loc.Range.Start
	if start.Line < 0 || start.Character < 0 {
		return results.SymbolReference{}, fmt.Errorf("%w: negative position %d:%d", types.ErrInvalidResponse, start.Line, start.Character)
	}

	return results.SymbolReference{
		Path:    path,
		Line:    start.Line,
		Column:  start.Character,
		Snippet: results.ReadSnippet(path, start.Line, c.cfg.SnippetReadLimit),
	}, nil
}

// PrepareCallHierarchy resolves the position to call hierarchy items.
// Several items mean the position is ambiguous.
func (c *LspClient) PrepareCallHierarchy(ctx context.Context, path string, line, column int) (items []results.CallHierarchyItem, err error) {
	if err := c.ensureRunning(); err != nil {
		return nil, fmt.Errorf("cannot prepare call hierarchy: %w", err)
	}

	ctx, done := observeOperation(ctx, "PrepareCallHierarchy", c.sessionID, path)
	defer func() { done(len(items), err) }()

	return c.prepare(ctx, path, line, column)
}

// GetIncomingCalls returns the callers of the first symbol at the position
func (c *LspClient) GetIncomingCalls(ctx context.Context, path string, line, column int) (items []results.CallHierarchyItem, err error) {
	if err := c.ensureRunning(); err != nil {
		return nil, fmt.Errorf("cannot get incoming calls: %w", err)
	}

	ctx, done := observeOperation(ctx, "GetIncomingCalls", c.sessionID, path)
	defer func() { done(len(items), err) }()

	candidates, err := c.prepare(ctx, path, line, column)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []results.CallHierarchyItem{}, nil
	}

	return c.incoming(ctx, candidates[0])
}

// GetOutgoingCalls returns the callees of the first symbol at the position
func (c *LspClient) GetOutgoingCalls(ctx context.Context, path string, line, column int) (items []results.CallHierarchyItem, err error) {
	if err := c.ensureRunning(); err != nil {
		return nil, fmt.Errorf("cannot get outgoing calls: %w", err)
	}

	ctx, done := observeOperation(ctx, "GetOutgoingCalls", c.sessionID, path)
	defer func() { done(len(items), err) }()

	candidates, err := c.prepare(ctx, path, line, column)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []results.CallHierarchyItem{}, nil
	}

	return c.outgoing(ctx, candidates[0])
}

// CallHierarchy prepares the position once and fetches both call directions for
// the first candidate. All candidates are returned so callers can detect ambiguity.
func (c *LspClient) CallHierarchy(ctx context.Context, path string, line, column int) (hierarchy *results.CallHierarchy, err error) {
	if err := c.ensureRunning(); err != nil {
		return nil, fmt.Errorf("cannot get call hierarchy: %w", err)
	}

	ctx, done := observeOperation(ctx, "CallHierarchy", c.sessionID, path)
	defer func() {
		count := 0
		if hierarchy != nil {
			count = len(hierarchy.Incoming) + len(hierarchy.Outgoing)
		}
		done(count, err)
	}()

	candidates, err := c.prepare(ctx, path, line, column)
	if err != nil {
		return nil, err
	}

	hierarchy = &results.CallHierarchy{
		Candidates: candidates,
		Incoming:   []results.CallHierarchyItem{},
		Outgoing:   []results.CallHierarchyItem{},
	}
	if len(candidates) == 0 {
		return hierarchy, nil
	}

	hierarchy.Root = &candidates[0]
	if hierarchy.Ambiguous() {
		slog.Warn("Call hierarchy position is ambiguous",
			"path", path,
			"line", line,
			"column", column,
			"candidates", len(candidates),
			"chosen", hierarchy.Root.Name)
	}

	if hierarchy.Incoming, err = c.incoming(ctx, *hierarchy.Root); err != nil {
		return nil, err
	}
	if hierarchy.Outgoing, err = c.outgoing(ctx, *hierarchy.Root); err != nil {
		return nil, err
	}

	return hierarchy, nil
}

func (c *LspClient) prepare(ctx context.Context, path string, line, column int) ([]results.CallHierarchyItem, error) {
	slog.Debug("Preparing call hierarchy", "path", path, "line", line, "column", column)

	response, err := c.transport.SendRequest(ctx, "textDocument/prepareCallHierarchy", positionParams(path, line, column))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare call hierarchy: %w", err)
	}

	entries, err := decodeArray(response, "prepareCallHierarchy")
	if err != nil {
		return nil, err
	}

	items := make([]results.CallHierarchyItem, 0, len(entries))
	for _, entry := range entries {
		item, err := c.parseCallHierarchyItem(entry)
		if err != nil {
			slog.Debug("Skipping malformed call hierarchy item", "error", err)
			continue
		}
		items = append(items, item)
	}

	slog.Debug("Prepared call hierarchy", "count", len(items), "path", path)
	return items, nil
}

func (c *LspClient) incoming(ctx context.Context, item results.CallHierarchyItem) ([]results.CallHierarchyItem, error) {
	return c.calls(ctx, "callHierarchy/incomingCalls", "from", item)
}

func (c *LspClient) outgoing(ctx context.Context, item results.CallHierarchyItem) ([]results.CallHierarchyItem, error) {
	return c.calls(ctx, "callHierarchy/outgoingCalls", "to", item)
}

// calls sends a call hierarchy request for item and reads member from each entry
func (c *LspClient) calls(ctx context.Context, method, member string, item results.CallHierarchyItem) ([]results.CallHierarchyItem, error) {
	slog.Debug("Requesting calls", "method", method, "name", item.Name)

	params := map[string]any{"item": item.Raw}
	response, err := c.transport.SendRequest(ctx, method, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get calls: %w", err)
	}

	entries, err := decodeArray(response, method)
	if err != nil {
		return nil, err
	}

	items := make([]results.CallHierarchyItem, 0, len(entries))
	for _, entry := range entries {
		var call map[string]json.RawMessage
		if err := json.Unmarshal(entry, &call); err != nil {
			slog.Debug("Skipping malformed call", "method", method, "error", err)
			continue
		}
		raw, ok := call[member]
		if !ok {
			slog.Debug("Skipping call without item", "method", method, "member", member)
			continue
		}
		parsed, err := c.parseCallHierarchyItem(raw)
		if err != nil {
			slog.Debug("Skipping malformed call hierarchy item", "method", method, "error", err)
			continue
		}
		items = append(items, parsed)
	}

	slog.Debug("Found calls", "method", method, "count", len(items))
	return items, nil
}

// callHierarchyItemWire is the subset of a protocol CallHierarchyItem that is read
type callHierarchyItemWire struct {
	Name           string       `json:"name"`
	Kind           int          `json:"kind"`
	URI            string       `json:"uri"`
	Range          *types.Range `json:"range"`
	SelectionRange *types.Range `json:"selectionRange"`
}

func (c *LspClient) parseCallHierarchyItem(raw json.RawMessage) (results.CallHierarchyItem, error) {
	var wire callHierarchyItemWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return results.CallHierarchyItem{}, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	kind, err := results.ParseSymbolKind(wire.Kind)
	if err != nil {
		return results.CallHierarchyItem{}, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	path, ok := uriToPath(wire.URI)
	if !ok {
		return results.CallHierarchyItem{}, fmt.Errorf("%w: unsupported uri %q", types.ErrInvalidResponse, wire.URI)
	}

	var start types.Position
	switch {
	case wire.SelectionRange != nil:
		start = wire.SelectionRange.Start
	case wire.Range != nil:
		start = wire.Range.Start
	default:
		return results.CallHierarchyItem{}, fmt.Errorf("%w: item %q has no range", types.ErrInvalidResponse, wire.Name)
	}
	if start.Line < 0 || start.Character < 0 {
		return results.CallHierarchyItem{}, fmt.Errorf("%w: negative position %d:%d", types.ErrInvalidResponse, start.Line, start.Character)
	}

	return results.CallHierarchyItem{
		Name:    wire.Name,
		Kind:    kind,
		Path:    path,
		Line:    start.Line,
		Column:  start.Character,
		Snippet: results.ReadSnippet(path, start.Line, c.cfg.SnippetReadLimit),
		Raw:     raw,
	}, nil
}

// decodeArray splits an array result into its entries. A null result is empty.
func decodeArray(response json.RawMessage, what string) ([]json.RawMessage, error) {
	if len(response) == 0 || string(response) == "null" {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(response, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s result is not an array: %v", types.ErrInvalidResponse, what, err)
	}
	return entries, nil
}

func positionParams(path string, line, column int) types.TextDocumentPositionParams {
	return types.TextDocumentPositionParams{
		TextDocument: types.TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     types.Position{Line: line, Character: column},
	}
}

func pathToURI(path string) string {
	return fileURIPrefix + path
}

func uriToPath(uri string) (string, bool) {
	path, ok := strings.CutPrefix(uri, fileURIPrefix)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

func languageID(path string) string {
	if id, ok := languageIDs[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return "plaintext"
}
