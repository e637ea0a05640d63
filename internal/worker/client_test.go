package worker

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/wire"
)

// pipeWorker wires a client and a Serve loop together over in-memory
// pipes, standing in for a real worker process.
func pipeWorker(t *testing.T, handler Handler) *Client {
	t.Helper()

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	go func() {
		defer respW.Close()
		defer reqR.Close()
		_ = Serve(reqR, respW, handler)
	}()

	t.Cleanup(func() {
		reqW.Close()
		respR.Close()
	})

	return NewClient(reqW, respR)
}

func echoHandler(req wire.Request) (wire.Response, error) {
	cr, ok := req.(wire.CompileRequest)
	if !ok {
		return nil, errors.New("unexpected request")
	}

	return wire.CompileResponse{
		Result: compile.NewResult(true, []compile.Note{
			{Severity: compile.SeverityWarning, Message: cr.Target.String()},
		}, time.Millisecond),
		Graph: []hs.ModuleSummary{
			{Module: "Main", FileType: hs.SourceFile, Location: "Main.hs"},
		},
	}, nil
}

func TestCallRoundTrip(t *testing.T) {
	client := pipeWorker(t, echoHandler)

	resp, err := client.Call(wire.CompileRequest{
		Target: hs.FileTarget{Path: "src/Main.hs"},
		Flags:  []string{"-O2"},
	})
	require.NoError(t, err)

	cr, ok := resp.(wire.CompileResponse)
	require.True(t, ok)
	assert.True(t, cr.Result.Succeeded)
	assert.Equal(t, "src/Main.hs", cr.Result.Notes[0].Message)
	assert.Len(t, cr.Graph, 1)
}

func TestCallSequential(t *testing.T) {
	client := pipeWorker(t, echoHandler)

	for _, path := range []string{"A.hs", "B.hs", "C.hs"} {
		resp, err := client.Call(wire.CompileRequest{Target: hs.FileTarget{Path: path}})
		require.NoError(t, err)

		cr, ok := resp.(wire.CompileResponse)
		require.True(t, ok)
		assert.Equal(t, path, cr.Result.Notes[0].Message)
	}
}

func TestCallHandlerError(t *testing.T) {
	client := pipeWorker(t, func(wire.Request) (wire.Response, error) {
		return nil, errors.New("no such module")
	})

	resp, err := client.Call(wire.CompileRequest{Target: hs.ModuleTarget{Module: "Nope"}})
	require.NoError(t, err)

	er, ok := resp.(wire.ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, "no such module", er.Message)
}

func TestCallShutdown(t *testing.T) {
	client := pipeWorker(t, echoHandler)

	resp, err := client.Call(wire.ShutdownRequest{})
	require.NoError(t, err)

	cr, ok := resp.(wire.CompileResponse)
	require.True(t, ok)
	assert.Equal(t, compile.Identity(), cr.Result)

	// Serve has stopped; the next call sees a dead worker
	_, err = client.Call(wire.CompileRequest{Target: hs.ModuleTarget{Module: "Main"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerCrashed))
}

func TestCallCrashedWorker(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	// Worker dies without answering
	reqR.Close()
	respW.Close()

	client := NewClient(reqW, respR)

	_, err := client.Call(wire.CompileRequest{Target: hs.ModuleTarget{Module: "Main"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerCrashed))
}

func TestCallMalformedResponse(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	// Swallow the request, answer with an unknown response tag
	go func() { _, _ = io.Copy(io.Discard, reqR) }()
	go func() {
		_ = wire.WriteFrame(respW, []byte{0x7f})
		respW.Close()
	}()

	t.Cleanup(func() {
		reqW.Close()
		respR.Close()
	})

	client := NewClient(reqW, respR)

	_, err := client.Call(wire.CompileRequest{Target: hs.ModuleTarget{Module: "Main"}})
	require.Error(t, err)
	assert.True(t, wire.IsDecodeError(err))
	assert.False(t, errors.Is(err, ErrWorkerCrashed))
}
