package kisrequest

import "errors"

var (
	ErrMalformedEnvelope = errors.New("malformed request envelope")
	ErrEmptyStockCode    = errors.New("stock code is required")
	ErrEmptyFxPair       = errors.New("fx type and code are required")
	ErrUnsupportedType   = errors.New("unsupported request type")
	ErrNilDependency     = errors.New("required dependency is nil")
)
