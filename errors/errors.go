package errors

import "google.golang.org/grpc/codes"

func Unknown() ErrorResponse {
	return ErrorResponse{Code: codes.Unknown, Message: "Unknown error occurred"}
}

func Internal() ErrorResponse {
	return ErrorResponse{Code: codes.Internal, Message: "Internal error"}
}

func Unavailable() ErrorResponse {
	return ErrorResponse{Code: codes.Unavailable, Message: "Service unavailable"}
}

func ResourceExhausted() ErrorResponse {
	return ErrorResponse{Code: codes.ResourceExhausted, Message: "Quota or limit exceeded"}
}

func FailedPrecondition() ErrorResponse {
	return ErrorResponse{Code: codes.FailedPrecondition, Message: "Operation cannot be performed in the current state"}
}

func AlreadyExists() ErrorResponse {
	return ErrorResponse{Code: codes.AlreadyExists, Message: "Resource already exists"}
}

func DeadlineExceeded() ErrorResponse {
	return ErrorResponse{Code: codes.DeadlineExceeded, Message: "Deadline exceeded"}
}

func Canceled() ErrorResponse {
	return ErrorResponse{Code: codes.Canceled, Message: "Request canceled"}
}
