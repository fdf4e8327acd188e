package server

// Response is the standard API response wrapper.
type Response struct {
	// Status of the response ("OK" or "ERROR")
	Status string `json:"status"`
	// Optional error message
	Message string `json:"message,omitempty"`
	// Response payload
	Result interface{} `json:"result,omitempty"`
}
