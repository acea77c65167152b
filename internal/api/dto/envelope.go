package dto

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Message: "", Data: data}
}

// Fail builds a failed envelope, optionally carrying data.
func Fail(message string, data any) Envelope {
	return Envelope{Success: false, Message: message, Data: data}
}

// DataError attaches response data to an error, e.g. the current ticket on a
// rejected transition.
type DataError struct {
	Err  error
	Data any
}

func (e *DataError) Error() string { return e.Err.Error() }

func (e *DataError) Unwrap() error { return e.Err }

// WithData wraps err so the error response still carries data.
func WithData(err error, data any) error {
	if err == nil {
		return nil
	}
	return &DataError{Err: err, Data: data}
}
