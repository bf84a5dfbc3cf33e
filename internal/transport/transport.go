package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	// DefaultTimeout bounds how long SendRequest waits for a matching response
	DefaultTimeout = 3 * time.Second
)

var _ types.Transport = &JsonRpcTransport{}

var nullResult = json.RawMessage("null")

// frame is one unframed payload
type frame struct {
	body []byte
}

// JsonRpcTransport conducts a synchronous JSON-RPC conversation over a pipe pair.
// Exactly one request is outstanding at a time. A single reader goroutine
// unframes server output and hands it to whichever request is waiting.
type JsonRpcTransport struct {
	writer  io.Writer
	reader  *bufio.Reader
	timeout time.Duration

	reqMu   sync.Mutex // serializes requests
	nextID  uint64
	writeMu sync.Mutex

	frames    chan frame
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once

	mu      sync.Mutex
	readErr error
}

// NewJsonRpcTransport creates a new JSON-RPC transport.
// A non-positive timeout selects DefaultTimeout.
func NewJsonRpcTransport(writer io.Writer, reader io.Reader, timeout time.Duration) *JsonRpcTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JsonRpcTransport{
		writer:  writer,
		reader:  bufio.NewReader(reader),
		timeout: timeout,
		frames:  make(chan frame),
		done:    make(chan struct{}),
	}
}

func (t *JsonRpcTransport) Start() error {
	t.startOnce.Do(func() {
		slog.Debug("Starting JSON-RPC transport", "timeout_ms", t.timeout.Milliseconds())
		go t.readFrames()
	})
	return nil
}

func (t *JsonRpcTransport) Stop() error {
	t.stopOnce.Do(func() {
		slog.Debug("Stopping JSON-RPC transport")
		close(t.done)
	})
	return nil
}

func (t *JsonRpcTransport) isClosed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// readFrames unframes server output until the pipe fails or the transport stops
func (t *JsonRpcTransport) readFrames() {
	defer close(t.frames)

	for {
		body, err := ReadFrame(t.reader)
		if err != nil {
			if !t.isClosed() {
				slog.Error("Failed to read JSON-RPC frame", "error", err)
			}
			t.mu.Lock()
			t.readErr = err
			t.mu.Unlock()
			return
		}

		select {
		case t.frames <- frame{body: body}:
		case <-t.done:
			return
		}
	}
}

func (t *JsonRpcTransport) deadReaderErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readErr == nil {
		return fmt.Errorf("%w: reader stopped", types.ErrIO)
	}
	return t.readErr
}

// SendRequest sends a JSON-RPC request and waits for the response with the same id.
// Messages that are not that response are read and discarded. The returned
// result is never nil: a response without a result member yields JSON null.
func (t *JsonRpcTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if t.isClosed() {
		return nil, fmt.Errorf("cannot send request: %w", types.ErrServerNotRunning)
	}

	t.reqMu.Lock()
	defer t.reqMu.Unlock()

	id := t.nextID
	t.nextID++
	startTime := time.Now()

	slog.Debug("Sending JSON-RPC request", "request_id", id, "method", method)

	req := &jsonrpc2.Request{Method: method, ID: jsonrpc2.ID{Num: id}}
	if params != nil {
		if err := req.SetParams(params); err != nil {
			return nil, fmt.Errorf("failed to marshal JSON-RPC request params: %w", err)
		}
	}

	if err := t.writeMessage(req); err != nil {
		return nil, fmt.Errorf("failed to write JSON-RPC request: %w", err)
	}

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	for {
		select {
		case f, ok := <-t.frames:
			if !ok {
				return nil, t.deadReaderErr()
			}
			result, matched, err := matchResponse(f.body, id)
			if !matched {
				continue
			}
			duration := time.Since(startTime)
			if err != nil {
				slog.Debug("Received JSON-RPC error response",
					"request_id", id,
					"method", method,
					"duration_ms", duration.Milliseconds(),
					"error", err)
				return nil, err
			}
			slog.Debug("Received JSON-RPC response",
				"request_id", id,
				"method", method,
				"duration_ms", duration.Milliseconds())
			return result, nil
		case <-timer.C:
			slog.Error("Timeout waiting for JSON-RPC response",
				"request_id", id,
				"method", method,
				"timeout_ms", t.timeout.Milliseconds())
			return nil, fmt.Errorf("%w: method %s", types.ErrRequestTimeout, method)
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: method %s: %w", types.ErrRequestTimeout, method, ctx.Err())
		case <-t.done:
			return nil, fmt.Errorf("request %s interrupted: %w", method, types.ErrServerNotRunning)
		}
	}
}

// SendNotification sends a JSON-RPC notification (no response expected)
func (t *JsonRpcTransport) SendNotification(method string, params any) error {
	if t.isClosed() {
		return fmt.Errorf("cannot send notification: %w", types.ErrServerNotRunning)
	}

	slog.Debug("Sending JSON-RPC notification", "method", method)

	notif := &jsonrpc2.Request{Method: method, Notif: true}
	if params != nil {
		if err := notif.SetParams(params); err != nil {
			return fmt.Errorf("failed to marshal JSON-RPC notification params: %w", err)
		}
	}

	if err := t.writeMessage(notif); err != nil {
		return fmt.Errorf("failed to write JSON-RPC notification: %w", err)
	}

	return nil
}

func (t *JsonRpcTransport) writeMessage(msg *jsonrpc2.Request) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON-RPC message: %w", err)
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return WriteFrame(t.writer, data)
}

// envelope covers every message shape the server can send
type envelope struct {
	ID     *jsonrpc2.ID    `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  *jsonrpc2.Error `json:"error"`
}

// matchResponse decodes body and reports whether it is the response to id
func matchResponse(body []byte, id uint64) (json.RawMessage, bool, error) {
	var msg envelope
	if err := json.Unmarshal(body, &msg); err != nil {
		slog.Debug("Discarding undecodable JSON-RPC message", "error", err, "content_length", len(body))
		return nil, false, nil
	}

	if msg.Method != "" || msg.ID == nil {
		slog.Debug("Discarding JSON-RPC message from server", "method", msg.Method)
		return nil, false, nil
	}
	if msg.ID.IsString || msg.ID.Num != id {
		slog.Debug("Discarding JSON-RPC response with foreign id", "request_id", id, "response_id", msg.ID.String())
		return nil, false, nil
	}

	if msg.Error != nil {
		return nil, true, fmt.Errorf("%w: %w", types.ErrInvalidResponse, msg.Error)
	}
	if len(msg.Result) == 0 {
		return nullResult, true, nil
	}
	return msg.Result, true, nil
}
