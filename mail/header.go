package mail

import (
	"bytes"
	"time"

	"github.com/flashmob/go-mailparse/mail/rfc2045"
	"github.com/flashmob/go-mailparse/mail/rfc5322"
)

// FieldValue is the typed view of a header field body. It is a closed
// set: Unstructured, OrigDate, FromField, SenderField, ReplyToField,
// ToField, CcField, BccField, ContentTypeField and TransferEncodingField.
type FieldValue interface {
	fieldValue()
}

// Unstructured carries the unfolded bytes of a field with no structured
// parser, which is every field name not listed in the dispatch table.
type Unstructured struct{ Text []byte }

// OrigDate is a parsed Date field.
type OrigDate struct{ Time time.Time }

// FromField is a parsed From field.
type FromField struct{ Mailboxes []*rfc5322.Mailbox }

// SenderField is a parsed Sender field.
type SenderField struct{ Mailbox *rfc5322.Mailbox }

// ReplyToField is a parsed Reply-To field.
type ReplyToField struct{ Addresses []rfc5322.Address }

// ToField is a parsed To field.
type ToField struct{ Addresses []rfc5322.Address }

// CcField is a parsed Cc field.
type CcField struct{ Addresses []rfc5322.Address }

// BccField is a parsed Bcc field; the address list may be empty.
type BccField struct{ Addresses []rfc5322.Address }

// ContentTypeField is a parsed Content-Type field.
type ContentTypeField struct{ ContentType *rfc2045.ContentType }

// TransferEncodingField is a parsed Content-Transfer-Encoding field.
type TransferEncodingField struct{ Encoding rfc2045.TransferEncoding }

func (Unstructured) fieldValue()          {}
func (OrigDate) fieldValue()              {}
func (FromField) fieldValue()             {}
func (SenderField) fieldValue()           {}
func (ReplyToField) fieldValue()          {}
func (ToField) fieldValue()               {}
func (CcField) fieldValue()               {}
func (BccField) fieldValue()              {}
func (ContentTypeField) fieldValue()      {}
func (TransferEncodingField) fieldValue() {}

// HeaderField is one field of a message header. Name and RawValue are
// sub-slices of the parsed input; RawValue runs from just past the colon
// (and any SP or HT run after it) to the terminating CRLF,
// exclusive, with any interior folds intact. Unfolded aliases RawValue
// when no folding occurred.
type HeaderField struct {
	Name     []byte
	RawValue []byte
	Unfolded []byte
	Value    FieldValue
}

var crlfBytes = []byte("\r\n")

func isWSP(ch byte) bool { return ch == ' ' || ch == '\t' }

// findFold returns the index of the first CRLF immediately followed by
// white space, -1 when v holds none.
func findFold(v []byte) int {
	off := 0
	for {
		i := bytes.Index(v[off:], crlfBytes)
		if i < 0 {
			return -1
		}
		i += off
		if i+2 < len(v) && isWSP(v[i+2]) {
			return i
		}
		off = i + 2
	}
}

// Unfold elides every CRLF that is immediately followed by white space.
// When v holds no fold the result is v itself, so unfolding is idempotent
// and allocation free on the common single-line case.
func Unfold(v []byte) []byte {
	i := findFold(v)
	if i < 0 {
		return v
	}
	out := make([]byte, 0, len(v))
	for i >= 0 {
		out = append(out, v[:i]...)
		v = v[i+2:]
		i = findFold(v)
	}
	return append(out, v...)
}

// field-name = 1*(any printable ASCII except ":")
func isFtext(ch byte) bool {
	return ch >= 33 && ch <= 126 && ch != ':'
}

func nameIs(name []byte, s string) bool {
	return len(name) == len(s) && bytes.EqualFold(name, []byte(s))
}

// parseFieldValue dispatches the unfolded field body on the field name.
// Unknown names take the unfolded bytes verbatim.
func parseFieldValue(name, unfolded []byte) (FieldValue, error) {
	switch {
	case nameIs(name, "Date"):
		t, err := rfc5322.ParseDateTime(unfolded)
		if err != nil {
			return nil, err
		}
		return OrigDate{Time: t}, nil
	case nameIs(name, "From"):
		list, err := rfc5322.ParseMailboxList(unfolded)
		if err != nil {
			return nil, err
		}
		return FromField{Mailboxes: list}, nil
	case nameIs(name, "Sender"):
		mb, err := rfc5322.ParseMailbox(unfolded)
		if err != nil {
			return nil, err
		}
		return SenderField{Mailbox: mb}, nil
	case nameIs(name, "Reply-To"):
		list, err := rfc5322.ParseAddressList(unfolded)
		if err != nil {
			return nil, err
		}
		return ReplyToField{Addresses: list}, nil
	case nameIs(name, "To"):
		list, err := rfc5322.ParseAddressList(unfolded)
		if err != nil {
			return nil, err
		}
		return ToField{Addresses: list}, nil
	case nameIs(name, "Cc"):
		list, err := rfc5322.ParseAddressList(unfolded)
		if err != nil {
			return nil, err
		}
		return CcField{Addresses: list}, nil
	case nameIs(name, "Bcc"):
		list, err := rfc5322.ParseOptionalAddressList(unfolded)
		if err != nil {
			return nil, err
		}
		return BccField{Addresses: list}, nil
	case nameIs(name, "Content-Type"):
		ct, err := rfc2045.ParseContentType(unfolded)
		if err != nil {
			return nil, err
		}
		return ContentTypeField{ContentType: ct}, nil
	case nameIs(name, "Content-Transfer-Encoding"):
		enc, err := rfc2045.ParseTransferEncoding(unfolded)
		if err != nil {
			return nil, err
		}
		return TransferEncodingField{Encoding: enc}, nil
	}
	return Unstructured{Text: unfolded}, nil
}
