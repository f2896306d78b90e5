package errors

import (
	"google.golang.org/grpc/status"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

// ToGRPC converts an ErrorResponse into a gRPC error carrying an
// ErrorInfo detail with the reason and metadata.
func (e ErrorResponse) ToGRPC() error {
	st := status.New(e.Code, e.Message)

	if e.Reason != "" || len(e.Details) > 0 {
		ei := &errdetails.ErrorInfo{
			Reason:   string(e.Reason),
			Metadata: map[string]string{},
		}
		for k, v := range e.Details {
			ei.Metadata[k] = v
		}
		if st2, err := st.WithDetails(ei); err == nil {
			st = st2
		}
	}

	return st.Err()
}

// FromGRPC is the reverse conversion.
func FromGRPC(err error) ErrorResponse {
	st, ok := status.FromError(err)
	if !ok {
		return Unknown()
	}
	out := New(st.Message(), st.Code(), nil)
	for _, d := range st.Details() {
		if x, ok := d.(*errdetails.ErrorInfo); ok {
			if x.GetReason() != "" {
				out.Reason = Reason(x.GetReason())
			}
			for k, v := range x.GetMetadata() {
				out = out.WithDetail(k, v)
			}
		}
	}
	return out
}
