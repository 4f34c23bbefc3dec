package models

// Response represents a generic API response structure. Error responses
// always carry a human readable Message.
type Response struct {
	Success   int         `json:"success"`
	Message   string      `json:"message,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}
