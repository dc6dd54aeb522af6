// Package iconv installs a charset reader backed by GNU iconv, which
// supports encodings beyond the WHATWG label set. It is a cgo package;
// the build system needs the GNU library headers available.
// Import it for side effects:
//
//	import _ "github.com/flashmob/go-mailparse/mail/iconv"
package iconv

import (
	"fmt"
	"io"

	ico "gopkg.in/iconv.v1"

	"github.com/flashmob/go-mailparse/mail"
)

func init() {
	mail.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if cd, err := ico.Open("UTF-8", label); err == nil {
			return ico.NewReader(cd, input, 32), nil
		}
		return nil, fmt.Errorf("unhandled charset %q", label)
	}
}
