package binrec

import "github.com/pkg/errors"

var (
	// Fewer bytes are available than a section declares.
	ErrTruncatedFile = errors.New("truncated file")
	// A name table entry runs into the end of the stream.
	ErrUnterminatedString = errors.New("unterminated string")
	// A name encodes to the pad byte, which the dialect reads as a terminator.
	ErrSentinelInString = errors.New("string contains padding sentinel")
	// Bad magic or unsupported version.
	ErrMalformedHeader = errors.New("malformed header")
)
