package worker

import (
	"bufio"
	"fmt"
	"io"

	"github.com/croftbox/hsworker/internal/wire"
)

// Client drives the strictly synchronous request/response protocol
// over a worker's byte streams: write one encoded request, then block
// reading the matching response. No pipelining; callers must not share
// a client across concurrent request issuers.
type Client struct {
	w io.Writer
	r *bufio.Reader
}

// NewClient wraps a request stream and a response stream.
func NewClient(w io.Writer, r io.Reader) *Client {
	return &Client{w: w, r: bufio.NewReader(r)}
}

// Call sends one request and reads one response. Transport failures
// (closed pipes, EOF, a dead process) surface as ErrWorkerCrashed;
// malformed response bytes surface as a wire decode error. Both are
// fatal to the owning session.
func (c *Client) Call(req wire.Request) (wire.Response, error) {
	if err := wire.WriteFrame(c.w, wire.AppendRequest(nil, req)); err != nil {
		return nil, crashed("write request", err)
	}

	frame, err := wire.ReadFrame(c.r)
	if err != nil {
		if wire.IsDecodeError(err) {
			return nil, err
		}

		return nil, crashed("read response", err)
	}

	resp, rest, err := wire.DecodeResponse(frame)
	if err != nil {
		return nil, err
	}

	if len(rest) != 0 {
		return nil, wire.Trailing(len(rest))
	}

	return resp, nil
}

func crashed(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrWorkerCrashed, err)
}
