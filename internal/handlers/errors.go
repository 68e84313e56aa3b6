package handlers

// ErrorResponse is the JSON envelope for handler-level failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
