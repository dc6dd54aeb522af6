package mail

import (
	"errors"
	"fmt"

	"github.com/flashmob/go-mailparse/mail/rfc2045"
)

var (
	// ErrContentTypeWithoutBoundary means a multipart content type was
	// declared with no usable boundary parameter.
	ErrContentTypeWithoutBoundary = errors.New("mail: multipart content type without boundary parameter")

	// ErrMultipartWithNontrivialCte means a multipart carried a base64 or
	// quoted-printable transfer encoding, which RFC 2045 forbids.
	ErrMultipartWithNontrivialCte = errors.New("mail: multipart body with non-trivial transfer encoding")

	// ErrLineTooLong means a body line ran past 998 bytes, or a line was
	// broken by something other than CRLF before the end of input.
	ErrLineTooLong = errors.New("mail: body line too long")
)

// BodyDecodeError reports a transfer decoder failure on a leaf body.
type BodyDecodeError struct {
	Encoding rfc2045.TransferEncoding
	Cause    error
}

func (e *BodyDecodeError) Error() string {
	return fmt.Sprintf("mail: decoding %s body: %v", e.Encoding, e.Cause)
}

func (e *BodyDecodeError) Unwrap() error { return e.Cause }

// FieldError scopes a structured header parse failure to the field it
// occurred in. Parsing is strict: a recognised field that fails its
// structured parse fails the whole message.
type FieldError struct {
	Name  string
	Cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("mail: field %s: %v", e.Name, e.Cause)
}

func (e *FieldError) Unwrap() error { return e.Cause }

// MessageError reports a malformed header block at Pos, measured from the
// start of the region being parsed. It also reports a multipart body in
// which a boundary line is missing; Pos is then 0.
type MessageError struct {
	Pos    int
	Reason string
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("mail: %s at pos %d", e.Reason, e.Pos)
}
