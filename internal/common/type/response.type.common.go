package types

// Response is the internal result shape passed from services to handlers
// through the "send" middleware.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   error       `json:"-"`
}

// ResponseAPI is the JSON body written to the client.
type ResponseAPI struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
