// Package rfc2045 parses the MIME header values that drive body
// interpretation: Content-Type and Content-Transfer-Encoding.
package rfc2045

import (
	"bytes"
	"strings"

	"github.com/flashmob/go-mailparse/mail/rfc5322"
)

// TransferEncoding declares how octets are encoded in the message body.
type TransferEncoding int

const (
	Encoding7Bit TransferEncoding = iota
	Encoding8Bit
	EncodingBinary
	EncodingBase64
	EncodingQuotedPrintable
)

func (e TransferEncoding) String() string {
	switch e {
	case Encoding7Bit:
		return "7bit"
	case Encoding8Bit:
		return "8bit"
	case EncodingBinary:
		return "binary"
	case EncodingBase64:
		return "base64"
	case EncodingQuotedPrintable:
		return "quoted-printable"
	}
	return "unknown"
}

// IsTrivial reports whether decoding the body is the identity.
func (e TransferEncoding) IsTrivial() bool {
	return e == Encoding7Bit || e == Encoding8Bit || e == EncodingBinary
}

// ContentType is a parsed Content-Type value. Type and Subtype are
// sub-slices of the input; compare them case-insensitively. Parameter
// keys are lowercased on insertion and a duplicate key keeps its last
// value.
type ContentType struct {
	Type    []byte
	Subtype []byte
	Params  map[string]string
}

func (c *ContentType) IsMultipart() bool {
	return bytes.EqualFold(c.Type, []byte("multipart"))
}

func (c *ContentType) IsText() bool {
	return bytes.EqualFold(c.Type, []byte("text"))
}

// Boundary returns the boundary parameter of a multipart type.
func (c *ContentType) Boundary() (string, bool) {
	v, ok := c.Params["boundary"]
	return v, ok
}

// Charset returns the charset parameter of a text type.
func (c *ContentType) Charset() (string, bool) {
	v, ok := c.Params["charset"]
	return v, ok
}

func (c *ContentType) String() string {
	var b strings.Builder
	b.Write(c.Type)
	b.WriteByte('/')
	b.Write(c.Subtype)
	for k, v := range c.Params {
		b.WriteString("; ")
		b.WriteString(k)
		b.WriteString("=\"")
		b.WriteString(v)
		b.WriteString("\"")
	}
	return b.String()
}

// Type and subtype characters are kept to the set seen in real traffic,
// narrower than the full RFC token.
func isTypeChar(ch byte) bool {
	return ('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}

var tokenSpecials = [128]bool{
	'(': true, ')': true, '<': true, '>': true, '@': true,
	',': true, ';': true, ':': true, '\\': true, '"': true,
	'/': true, '[': true, ']': true, '?': true, '=': true,
}

// token = 1*(VCHAR except tspecials and WSP)
func isTokenChar(ch byte) bool {
	return rfc5322.IsVChar(ch) && !tokenSpecials[ch]
}

func take(p *rfc5322.Parser, pred func(byte) bool) []byte {
	start := p.Pos()
	for pred(p.Peek()) {
		p.Next()
	}
	if p.Pos() == start {
		return nil
	}
	return p.Input()[start:p.Pos()]
}

// parameter = attribute "=" value
// attribute = token
// value = token / quoted-string
func parameter(p *rfc5322.Parser) (string, string, error) {
	attr := take(p, isTokenChar)
	if attr == nil {
		return "", "", p.Errorf("parameter attribute expected")
	}
	p.SkipCFWS()
	if p.Peek() != '=' {
		return "", "", p.Errorf("expected '=' after parameter attribute")
	}
	p.Next()
	p.SkipCFWS()
	if p.Peek() == '"' {
		v, err := p.QuotedString()
		if err != nil {
			return "", "", err
		}
		return strings.ToLower(string(attr)), string(v), nil
	}
	val := take(p, isTokenChar)
	if val == nil {
		return "", "", p.Errorf("parameter value expected")
	}
	return strings.ToLower(string(attr)), string(val), nil
}

// content-type = type "/" subtype *(";" parameter) [";"] [CFWS]
//
// A trailing semicolon with no parameter after it is tolerated.
func contentType(p *rfc5322.Parser) (*ContentType, error) {
	p.SkipCFWS()
	typ := take(p, isTypeChar)
	if typ == nil {
		return nil, p.Errorf("content type expected")
	}
	p.SkipCFWS()
	if p.Peek() != '/' {
		return nil, p.Errorf("missing subtype")
	}
	p.Next()
	p.SkipCFWS()
	sub := take(p, isTypeChar)
	if sub == nil {
		return nil, p.Errorf("missing subtype")
	}
	ct := &ContentType{Type: typ, Subtype: sub, Params: make(map[string]string)}
	for {
		m := p.Mark()
		p.SkipCFWS()
		if p.Peek() != ';' {
			p.Rewind(m)
			break
		}
		p.Next()
		p.SkipCFWS()
		k, v, err := parameter(p)
		if err != nil {
			p.Rewind(m)
			break
		}
		ct.Params[k] = v
	}
	p.SkipCFWS()
	if p.Peek() == ';' {
		p.Next()
		p.SkipCFWS()
	}
	return ct, nil
}

// ParseContentType parses an entire Content-Type field body.
func ParseContentType(b []byte) (*ContentType, error) {
	p := rfc5322.NewParser(b)
	ct, err := contentType(p)
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return ct, nil
}

// ParseTransferEncoding parses an entire Content-Transfer-Encoding field
// body: one of the five mechanism names, case-insensitive, with optional
// CFWS around it.
func ParseTransferEncoding(b []byte) (TransferEncoding, error) {
	p := rfc5322.NewParser(b)
	p.SkipCFWS()
	name := take(p, isTokenChar)
	if name == nil {
		return 0, p.Errorf("transfer encoding expected")
	}
	var enc TransferEncoding
	switch strings.ToLower(string(name)) {
	case "7bit":
		enc = Encoding7Bit
	case "8bit":
		enc = Encoding8Bit
	case "binary":
		enc = EncodingBinary
	case "base64":
		enc = EncodingBase64
	case "quoted-printable":
		enc = EncodingQuotedPrintable
	default:
		return 0, p.Errorf("unknown transfer encoding %q", name)
	}
	p.SkipCFWS()
	if err := p.ExpectEOF(); err != nil {
		return 0, err
	}
	return enc, nil
}
