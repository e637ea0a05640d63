package wire

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
)

// Protocol message discriminators.
const (
	tagCompileRequest  = 0
	tagShutdownRequest = 1

	tagCompileResponse = 0
	tagErrorResponse   = 1
)

// Request is a controller-to-worker protocol message.
type Request interface {
	isRequest()
}

// CompileRequest asks the worker to compile one target.
type CompileRequest struct {
	Target hs.Target
	Flags  []string
}

// ShutdownRequest asks the worker to exit cleanly.
type ShutdownRequest struct{}

func (CompileRequest) isRequest()  {}
func (ShutdownRequest) isRequest() {}

// Response is a worker-to-controller protocol message.
type Response interface {
	isResponse()
}

// CompileResponse carries the outcome of a compile request along with
// the worker's current view of the module graph.
type CompileResponse struct {
	Result compile.Result
	Graph  []hs.ModuleSummary
}

// ErrorResponse reports a request the worker could not serve.
type ErrorResponse struct {
	Message string
}

func (CompileResponse) isResponse() {}
func (ErrorResponse) isResponse()   {}

// AppendRequest encodes a protocol request.
func AppendRequest(b []byte, req Request) []byte {
	switch req := req.(type) {
	case CompileRequest:
		b = append(b, tagCompileRequest)
		b = AppendTarget(b, req.Target)
		return AppendStrings(b, req.Flags)
	case ShutdownRequest:
		return append(b, tagShutdownRequest)
	default:
		panic("wire: unencodable request")
	}
}

// DecodeRequest decodes a protocol request.
func DecodeRequest(b []byte) (Request, []byte, error) {
	if len(b) == 0 {
		return nil, nil, decodeErrf("truncated request")
	}

	tag, rest := b[0], b[1:]
	switch tag {
	case tagCompileRequest:
		target, rest, err := DecodeTarget(rest)
		if err != nil {
			return nil, nil, err
		}

		flags, rest, err := DecodeStrings(rest)
		if err != nil {
			return nil, nil, err
		}

		return CompileRequest{Target: target, Flags: flags}, rest, nil
	case tagShutdownRequest:
		return ShutdownRequest{}, rest, nil
	default:
		return nil, nil, decodeErrf("unknown request tag 0x%02x", tag)
	}
}

// AppendResponse encodes a protocol response.
func AppendResponse(b []byte, resp Response) []byte {
	switch resp := resp.(type) {
	case CompileResponse:
		b = append(b, tagCompileResponse)
		b = AppendResult(b, resp.Result)
		return AppendSummaries(b, resp.Graph)
	case ErrorResponse:
		b = append(b, tagErrorResponse)
		return AppendString(b, resp.Message)
	default:
		panic("wire: unencodable response")
	}
}

// DecodeResponse decodes a protocol response.
func DecodeResponse(b []byte) (Response, []byte, error) {
	if len(b) == 0 {
		return nil, nil, decodeErrf("truncated response")
	}

	tag, rest := b[0], b[1:]
	switch tag {
	case tagCompileResponse:
		result, rest, err := DecodeResult(rest)
		if err != nil {
			return nil, nil, err
		}

		graph, rest, err := DecodeSummaries(rest)
		if err != nil {
			return nil, nil, err
		}

		return CompileResponse{Result: result, Graph: graph}, rest, nil
	case tagErrorResponse:
		msg, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		return ErrorResponse{Message: msg}, rest, nil
	default:
		return nil, nil, decodeErrf("unknown response tag 0x%02x", tag)
	}
}

// ConfigKey returns a stable hex key for a session configuration,
// derived from its wire encoding. Structurally equal configurations
// produce equal keys.
func ConfigKey(c config.Config) string {
	sum := sha256.Sum256(AppendConfig(nil, c))
	return hex.EncodeToString(sum[:])
}
