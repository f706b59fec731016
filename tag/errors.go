package tag

import "github.com/pkg/errors"

var (
	// ErrTruncatedInput - a read demanded more bytes than the source has left.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrOutOfRange - a seek left the bounds of the buffer.
	ErrOutOfRange = errors.New("seek out of range")
	// ErrUnsupportedSeek - backward seek on a streamed source.
	ErrUnsupportedSeek = errors.New("unsupported seek on streamed source")
	// ErrMalformedHeader - header counts produce an invalid skip.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnknownParameterType - a material parameter record with an
	// unobserved type tag. Offsets after it cannot be trusted, the whole
	// file parse is aborted.
	ErrUnknownParameterType = errors.New("unknown parameter type")
)
