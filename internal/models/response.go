package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is the body of the probe endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Başarılı response için helper
func SuccessResponse(message string) StatusResponse {
	return StatusResponse{
		Status:  StatusSuccess,
		Message: message,
	}
}

// Hata response'u için helper
func ErrorResponse(message string) StatusResponse {
	return StatusResponse{
		Status:  StatusError,
		Message: message,
	}
}
