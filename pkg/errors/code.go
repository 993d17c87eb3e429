package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Auth & Session errors
// 12000-12999: Question module errors
// 13000-13999: Saved question & upstream fetch errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Database errors (10100-10199)
	DatabaseError       ErrorCode = 10100
	RecordNotFound      ErrorCode = 10101
	RecordAlreadyExists ErrorCode = 10102

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	CacheMiss  ErrorCode = 10201

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Auth & Session Errors (11000-11999) ==========

	TokenExpired     ErrorCode = 11003
	TokenInvalid     ErrorCode = 11004
	SessionRequired  ErrorCode = 11100
	SessionNotReady  ErrorCode = 11101
	AccountSuspended ErrorCode = 11203

	// ========== Question Module Errors (12000-12999) ==========

	QuestionNotFound   ErrorCode = 12000
	InvalidStatus      ErrorCode = 12001
	StatusUpdateFailed ErrorCode = 12003

	// ========== Saved Question & Fetch Errors (13000-13999) ==========

	SavedQuestionNotFound ErrorCode = 13000
	SaveQuestionFailed    ErrorCode = 13001
	RemoveQuestionFailed  ErrorCode = 13002
	UpstreamUnavailable   ErrorCode = 13100
	UpstreamBadResponse   ErrorCode = 13101
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Database
	DatabaseError:       "Database operation failed",
	RecordNotFound:      "Record not found in database",
	RecordAlreadyExists: "Record already exists",

	// Cache
	CacheError: "Cache operation failed",
	CacheMiss:  "Cache miss",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// Auth & Session
	TokenExpired:     "Token has expired",
	TokenInvalid:     "Invalid token",
	SessionRequired:  "Sign in required",
	SessionNotReady:  "Session is still being established",
	AccountSuspended: "Account has been suspended",

	// Question
	QuestionNotFound:   "Question not found",
	InvalidStatus:      "Invalid question status",
	StatusUpdateFailed: "Failed to update question status",

	// Saved questions & upstream
	SavedQuestionNotFound: "Saved question not found",
	SaveQuestionFailed:    "Failed to save question",
	RemoveQuestionFailed:  "Failed to remove saved question",
	UpstreamUnavailable:   "Question service unavailable",
	UpstreamBadResponse:   "Unexpected response from question service",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == Unauthorized, c == TokenExpired, c == TokenInvalid, c == SessionRequired:
		return 401
	case c == Forbidden, c == AccountSuspended:
		return 403
	case c == NotFound, c == QuestionNotFound, c == SavedQuestionNotFound, c == RecordNotFound:
		return 404
	case c == RecordAlreadyExists:
		return 409
	case c == TooManyRequests:
		return 429
	case c == UpstreamUnavailable, c == UpstreamBadResponse:
		return 502
	case c == ServiceUnavailable, c == SessionNotReady:
		return 503
	case c == Timeout:
		return 504
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == InvalidStatus:
		return 400
	default:
		return 500
	}
}
