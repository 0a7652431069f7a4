package error

// GenericError is implemented by every typed API error so the recovery
// middleware can map a panic to a proper HTTP response.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
