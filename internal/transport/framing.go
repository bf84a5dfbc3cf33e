package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	// MaxContentLength is the largest payload a server may declare
	MaxContentLength = 10 << 20

	// maxHeaderBytes bounds the header region preceding a payload
	maxHeaderBytes = 4096

	contentLengthPrefix = "Content-Length: "
)

var headerTerminator = []byte("\r\n\r\n")

// WriteFrame writes payload preceded by its Content-Length header.
// The payload must be a single compact JSON value.
func WriteFrame(w io.Writer, payload []byte) error {
	if err := (jsonrpc2.VSCodeObjectCodec{}).WriteObject(w, json.RawMessage(payload)); err != nil {
		return fmt.Errorf("%w: failed to write JSON-RPC frame: %w", types.ErrIO, err)
	}
	return nil
}

// ReadFrame reads one Content-Length framed payload.
// Oversized headers and declared lengths above MaxContentLength are rejected
// as invalid responses; pipe failures are reported as I/O errors.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	// Read one byte at a time until we find the end of the header
	var header []byte
	for !bytes.HasSuffix(header, headerTerminator) {
		if len(header) >= maxHeaderBytes {
			return nil, fmt.Errorf("%w: header exceeds %d bytes", types.ErrInvalidResponse, maxHeaderBytes)
		}
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read JSON-RPC frame header: %w", types.ErrIO, err)
		}
		header = append(header, b)
	}

	contentLength, err := parseContentLength(header)
	if err != nil {
		return nil, err
	}

	// Use the Content-Length to read the JSON body
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: failed to read JSON-RPC frame body: %w", types.ErrIO, err)
	}
	return body, nil
}

// parseContentLength extracts the decimal value following "Content-Length: "
func parseContentLength(header []byte) (int, error) {
	idx := bytes.Index(header, []byte(contentLengthPrefix))
	if idx < 0 {
		return 0, fmt.Errorf("%w: missing Content-Length header in %q", types.ErrInvalidResponse, header)
	}

	digits := header[idx+len(contentLengthPrefix):]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: malformed Content-Length header in %q", types.ErrInvalidResponse, header)
	}

	length, err := strconv.ParseInt(string(digits[:end]), 10, 64)
	if err != nil || length > MaxContentLength {
		return 0, fmt.Errorf("%w: Content-Length %s exceeds %d bytes", types.ErrInvalidResponse, digits[:end], MaxContentLength)
	}
	return int(length), nil
}
