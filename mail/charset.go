package mail

import (
	"bytes"
	"io"
	"io/ioutil"
	"unicode/utf8"
)

// CharsetReader converts a text body labelled with a MIME charset to
// UTF-8. It is nil by default; import mail/encoding (pure Go, WHATWG
// labels) or mail/iconv (cgo, GNU iconv) for side effects to install one.
//
// When no reader is installed, or the installed reader rejects the label,
// text bodies fall back to lossy UTF-8 decoding.
var CharsetReader func(label string, input io.Reader) (io.Reader, error)

func decodeCharset(data []byte, label string) string {
	if label != "" && CharsetReader != nil {
		if r, err := CharsetReader(label, bytes.NewReader(data)); err == nil {
			if out, err := ioutil.ReadAll(r); err == nil {
				return string(out)
			}
		}
	}
	return lossyUTF8(data)
}

func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return string(bytes.ToValidUTF8(b, []byte("�")))
}
