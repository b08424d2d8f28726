package response

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{Status: statusSuccess, StatusCode: statusCode, Data: data}
}

// Error wraps a message in an error envelope.
func Error(statusCode int, msg string) Response {
	return Response{Status: statusError, StatusCode: statusCode, Error: msg}
}
