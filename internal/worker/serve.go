package worker

import (
	"bufio"
	"errors"
	"io"

	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/wire"
)

// Handler serves one protocol request inside a worker process.
type Handler func(wire.Request) (wire.Response, error)

// Serve runs the worker side of the protocol: read a framed request,
// hand it to the handler, write the framed response, repeat. A handler
// error becomes an ErrorResponse. Serve returns nil once the request
// stream reaches EOF or a ShutdownRequest has been answered.
func Serve(r io.Reader, w io.Writer, handler Handler) error {
	br := bufio.NewReader(r)

	for {
		frame, err := wire.ReadFrame(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		req, rest, err := wire.DecodeRequest(frame)
		if err != nil {
			return err
		}

		if len(rest) != 0 {
			return wire.Trailing(len(rest))
		}

		var resp wire.Response
		shutdown := false
		switch req := req.(type) {
		case wire.ShutdownRequest:
			// Acknowledge with an identity result, then stop serving.
			resp = wire.CompileResponse{Result: compile.Identity()}
			shutdown = true
		default:
			resp, err = handler(req)
			if err != nil {
				resp = wire.ErrorResponse{Message: err.Error()}
			}
		}

		if err := wire.WriteFrame(w, wire.AppendResponse(nil, resp)); err != nil {
			return err
		}

		if shutdown {
			return nil
		}
	}
}
