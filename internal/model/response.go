package model

// ValidateResponse is the wire shape of GET /auth/validate. The posts service
// parses it verbatim, so field names are a cross-service contract.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error *APIError `json:"error"`
}
