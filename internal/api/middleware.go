package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the current API envelope version.
const EnvelopeVersion = 1

// APIEnvelope wraps all API responses in a consistent structure.
type APIEnvelope struct {
	Version int    `json:"v" doc:"API envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error message on failure"`
}

// APIErrorEnvelope wraps structured API errors with a machine-readable code.
type APIErrorEnvelope struct {
	Version int    `json:"v" doc:"API envelope version"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error context"`
}

// EnvelopeTransformer wraps response bodies in the API envelope. Success
// responses (2xx) carry the payload under data; errors carry either a bare
// message or, for structured errors, a code and details.
func EnvelopeTransformer(ctx huma.Context, status string, v any) (any, error) {
	if len(status) > 0 && status[0] == '2' {
		return &APIEnvelope{
			Version: EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	if apiErr, ok := v.(*APIError); ok && (apiErr.Code != "" || apiErr.Details != nil) {
		return &APIErrorEnvelope{
			Version: EnvelopeVersion,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if err, ok := v.(error); ok {
		return &APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	return v, nil
}
