package errors

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
)

// Reason is a stable machine-readable code ("pool_exhausted",
// "unique_violation") for clients, dashboards and localization.
type Reason string

// ErrorResponse is the unified error shape handed to controller layers;
// they own the mapping to transport status codes.
type ErrorResponse struct {
	Code    codes.Code        `json:"code"`
	Reason  Reason            `json:"reason,omitempty"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func New(message string, code codes.Code, details map[string]string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Details: details}
}

func (e ErrorResponse) Error() string { return e.Message }

func (e ErrorResponse) WithReason(r string) ErrorResponse { e.Reason = Reason(r); return e }

func (e ErrorResponse) WithDetail(k, v string) ErrorResponse {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[k] = v
	return e
}

func (e ErrorResponse) JSON() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"code":2,"message":"marshal error"}`)
	}
	return b
}
