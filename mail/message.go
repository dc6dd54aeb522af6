// Package mail parses Internet Message Format messages (RFC 5322) with
// their MIME extensions (RFC 2045/2046) into a navigable tree.
//
// Parse is a pure function over an in-memory byte buffer: no I/O, no
// locks, and no global state beyond reading the CharsetReader hook for
// text bodies. Different buffers may be parsed on different
// goroutines without coordination. The returned Message keeps sub-slices
// of the input buffer, which must stay intact and unmodified for as long
// as the Message is in use.
package mail

import (
	"bytes"
	"encoding/base64"
	"io/ioutil"

	"github.com/sloonz/go-qprintable"

	"github.com/flashmob/go-mailparse/mail/rfc2045"
)

// Body is the decoded content of a message: a *SimpleText, a
// *SimpleBinary or a *Multipart.
type Body interface {
	body()
}

// SimpleText is a charset-decoded text payload.
type SimpleText struct{ Text string }

// SimpleBinary is a transfer-decoded payload with no charset
// interpretation.
type SimpleBinary struct{ Data []byte }

// Multipart is a container body. Preamble and Epilogue are carried
// verbatim; Preamble keeps the CRLF that terminates it, so the original
// container can be reassembled byte for byte.
type Multipart struct {
	Preamble []byte
	Parts    []*Message
	Epilogue []byte
}

func (*SimpleText) body()   {}
func (*SimpleBinary) body() {}
func (*Multipart) body()    {}

// Message is one parsed message or MIME part.
type Message struct {
	// Header holds the fields in input order.
	Header []*HeaderField
	// ContentTypeIndex is the index in Header of the first Content-Type
	// field, -1 when the header has none. Later duplicates stay in
	// Header but do not drive body dispatch.
	ContentTypeIndex int
	Body             Body
	// Size is the byte count of the input region this message occupied.
	Size int
}

// ContentType returns the content type driving body dispatch, nil when
// the header has none.
func (m *Message) ContentType() *rfc2045.ContentType {
	if m.ContentTypeIndex < 0 {
		return nil
	}
	return m.Header[m.ContentTypeIndex].Value.(ContentTypeField).ContentType
}

// Parse parses one complete message from buf. It is strict: the first
// lexical, structural or semantic failure aborts the parse.
func Parse(buf []byte) (*Message, error) {
	return parseMessage(buf)
}

type parser struct {
	buf []byte
	pos int
}

func (p *parser) crlf() bool {
	if p.pos+1 < len(p.buf) && p.buf[p.pos] == '\r' && p.buf[p.pos+1] == '\n' {
		p.pos += 2
		return true
	}
	return false
}

// readField reads one field-name ":" body CRLF record. The body extends
// to the first CRLF not followed by white space; interior folds stay in
// RawValue. The conventional white space after the colon is skipped
// before RawValue is recorded.
func (p *parser) readField() (*HeaderField, error) {
	nameStart := p.pos
	for p.pos < len(p.buf) && isFtext(p.buf[p.pos]) {
		p.pos++
	}
	name := p.buf[nameStart:p.pos]
	if len(name) == 0 {
		return nil, &MessageError{Pos: p.pos, Reason: "header field name expected"}
	}
	if p.pos >= len(p.buf) || p.buf[p.pos] != ':' {
		return nil, &MessageError{Pos: p.pos, Reason: "expected ':' after field name"}
	}
	p.pos++
	for p.pos < len(p.buf) && isWSP(p.buf[p.pos]) {
		p.pos++
	}
	valStart := p.pos
	valEnd := -1
	for off := p.pos; ; {
		i := bytes.Index(p.buf[off:], crlfBytes)
		if i < 0 {
			return nil, &MessageError{Pos: len(p.buf), Reason: "header field not terminated by CRLF"}
		}
		i += off
		if i+2 < len(p.buf) && isWSP(p.buf[i+2]) {
			off = i + 2 // folded continuation
			continue
		}
		valEnd = i
		break
	}
	raw := p.buf[valStart:valEnd]
	p.pos = valEnd + 2

	hf := &HeaderField{
		Name:     name,
		RawValue: raw,
		Unfolded: Unfold(raw),
	}
	val, err := parseFieldValue(name, hf.Unfolded)
	if err != nil {
		return nil, &FieldError{Name: string(name), Cause: err}
	}
	hf.Value = val
	return hf, nil
}

func parseMessage(buf []byte) (*Message, error) {
	p := &parser{buf: buf}
	msg := &Message{ContentTypeIndex: -1, Size: len(buf)}
	cteIndex := -1

	for {
		if p.crlf() {
			break // end of header block
		}
		if p.pos >= len(p.buf) {
			return nil, &MessageError{Pos: p.pos, Reason: "missing header terminator"}
		}
		hf, err := p.readField()
		if err != nil {
			return nil, err
		}
		if msg.ContentTypeIndex < 0 {
			if _, ok := hf.Value.(ContentTypeField); ok {
				msg.ContentTypeIndex = len(msg.Header)
			}
		}
		if cteIndex < 0 {
			if _, ok := hf.Value.(TransferEncodingField); ok {
				cteIndex = len(msg.Header)
			}
		}
		msg.Header = append(msg.Header, hf)
	}

	ct := msg.ContentType()
	enc := rfc2045.Encoding7Bit
	hasEnc := false
	if cteIndex >= 0 {
		enc = msg.Header[cteIndex].Value.(TransferEncodingField).Encoding
		hasEnc = true
	}

	body := p.buf[p.pos:]
	switch {
	case ct != nil && ct.IsMultipart():
		boundary, ok := ct.Boundary()
		if !ok || boundary == "" {
			return nil, ErrContentTypeWithoutBoundary
		}
		if hasEnc && !enc.IsTrivial() {
			return nil, ErrMultipartWithNontrivialCte
		}
		mp, err := parseMultipart(body, boundary)
		if err != nil {
			return nil, err
		}
		msg.Body = mp
	case ct == nil || ct.IsText():
		decoded, err := decodeBody(body, enc)
		if err != nil {
			return nil, err
		}
		var label string
		if ct != nil {
			label, _ = ct.Charset()
		}
		msg.Body = &SimpleText{Text: decodeCharset(decoded, label)}
	default:
		decoded, err := decodeBody(body, enc)
		if err != nil {
			return nil, err
		}
		msg.Body = &SimpleBinary{Data: decoded}
	}
	return msg, nil
}

// maxLineLen is the RFC 5322 hard limit on a body line, CRLF excluded.
const maxLineLen = 998

// collectLines re-reads the body as CRLF-terminated lines of at most 998
// bytes and concatenates them. A final line without CRLF is allowed only
// at the very end of input; anything else that breaks a line, a bare CR
// or LF included, is an error. With stripCRLF the terminators are
// dropped, which re-joins base64 fragments before decoding.
func collectLines(body []byte, stripCRLF bool) ([]byte, error) {
	out := make([]byte, 0, len(body))
	rest := body
	for len(rest) > 0 {
		n := 0
		for n < len(rest) && rest[n] != '\r' && rest[n] != '\n' {
			n++
			if n > maxLineLen {
				return nil, ErrLineTooLong
			}
		}
		out = append(out, rest[:n]...)
		rest = rest[n:]
		switch {
		case len(rest) == 0:
			// final line without CRLF
		case len(rest) >= 2 && rest[0] == '\r' && rest[1] == '\n':
			if !stripCRLF {
				out = append(out, '\r', '\n')
			}
			rest = rest[2:]
		default:
			return nil, ErrLineTooLong
		}
	}
	return out, nil
}

func decodeBody(body []byte, enc rfc2045.TransferEncoding) ([]byte, error) {
	joined, err := collectLines(body, enc == rfc2045.EncodingBase64)
	if err != nil {
		return nil, err
	}
	switch enc {
	case rfc2045.EncodingBase64:
		return decodeBase64(joined)
	case rfc2045.EncodingQuotedPrintable:
		return decodeQuotedPrintable(joined)
	}
	return joined, nil
}

// decodeBase64 accepts padded and unpadded input and ignores embedded
// white space.
func decodeBase64(b []byte) ([]byte, error) {
	filtered := b
	if bytes.ContainsAny(b, " \t") {
		filtered = make([]byte, 0, len(b))
		for _, ch := range b {
			if ch != ' ' && ch != '\t' {
				filtered = append(filtered, ch)
			}
		}
	}
	enc := base64.StdEncoding
	if len(filtered)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	out := make([]byte, enc.DecodedLen(len(filtered)))
	n, err := enc.Decode(out, filtered)
	if err != nil {
		return nil, &BodyDecodeError{Encoding: rfc2045.EncodingBase64, Cause: err}
	}
	return out[:n], nil
}

func decodeQuotedPrintable(b []byte) ([]byte, error) {
	r := qprintable.NewDecoder(qprintable.BinaryEncoding, bytes.NewReader(b))
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &BodyDecodeError{Encoding: rfc2045.EncodingQuotedPrintable, Cause: err}
	}
	return out, nil
}
