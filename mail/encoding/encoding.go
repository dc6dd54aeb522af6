// Package encoding installs a charset reader backed by
// golang.org/x/net/html/charset, which resolves labels per the WHATWG
// Encoding Standard and covers a large range of encodings.
// Import it for side effects:
//
//	import _ "github.com/flashmob/go-mailparse/mail/encoding"
package encoding

import (
	"io"

	cs "golang.org/x/net/html/charset"

	"github.com/flashmob/go-mailparse/mail"
)

func init() {
	mail.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return cs.NewReaderLabel(label, input)
	}
}
