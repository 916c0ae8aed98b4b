package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// DateLayout formato de fechas en query params y respuestas (YYYY-MM-DD).
const DateLayout = "2006-01-02"
