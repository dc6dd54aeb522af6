package mail

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashmob/go-mailparse/mail/rfc2045"
)

// S1: minimal text message.
func TestParseMinimalMessage(t *testing.T) {
	input := []byte("From: a@b\r\nTo: c@d\r\nSubject: hi\r\n\r\nhello\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)

	require.Len(t, msg.Header, 3)
	require.Equal(t, "From", string(msg.Header[0].Name))
	require.Equal(t, "To", string(msg.Header[1].Name))
	require.Equal(t, "Subject", string(msg.Header[2].Name))

	body, ok := msg.Body.(*SimpleText)
	require.True(t, ok, "body is %T", msg.Body)
	require.Equal(t, "hello\r\n", body.Text)
	require.Equal(t, len(input), msg.Size)
	require.Equal(t, -1, msg.ContentTypeIndex)
}

func TestParseEmptyBody(t *testing.T) {
	msg, err := Parse([]byte("Subject: nothing\r\n\r\n"))
	require.NoError(t, err)
	body := msg.Body.(*SimpleText)
	require.Equal(t, "", body.Text)
}

// S3: quoted-printable text body decodes before charset interpretation.
func TestQuotedPrintableBody(t *testing.T) {
	input := []byte("Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Caf=C3=A9\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	body := msg.Body.(*SimpleText)
	require.Equal(t, "Café\r\n", body.Text)
}

func TestQuotedPrintableSoftBreak(t *testing.T) {
	input := []byte("Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"one long =\r\nline\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "one long line\r\n", msg.Body.(*SimpleText).Text)
}

func TestBase64Body(t *testing.T) {
	input := []byte("Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aGVs\r\nbG8=\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	body, ok := msg.Body.(*SimpleBinary)
	require.True(t, ok, "body is %T", msg.Body)
	require.Equal(t, []byte("hello"), body.Data)
}

func TestBase64Unpadded(t *testing.T) {
	input := []byte("Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aGVsbG8\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), msg.Body.(*SimpleBinary).Data)
}

func TestBase64Text(t *testing.T) {
	// base64 applies before the charset layer on text bodies too
	input := []byte("Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aGkgdGhlcmU=\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "hi there", msg.Body.(*SimpleText).Text)
}

func TestBase64DecodeError(t *testing.T) {
	input := []byte("Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"a*b=\r\n")
	_, err := Parse(input)
	var bd *BodyDecodeError
	require.True(t, errors.As(err, &bd), "got %v", err)
	require.Equal(t, rfc2045.EncodingBase64, bd.Encoding)
}

// Trivial encodings are the identity on the body bytes.
func TestTrivialEncodingIdentity(t *testing.T) {
	payload := "first line\r\nsecond line\r\nno final newline"
	for _, enc := range []string{"7bit", "8bit", "binary"} {
		input := []byte("Content-Type: application/octet-stream\r\n" +
			"Content-Transfer-Encoding: " + enc + "\r\n" +
			"\r\n" + payload)
		msg, err := Parse(input)
		require.NoError(t, err, enc)
		require.Equal(t, []byte(payload), msg.Body.(*SimpleBinary).Data, enc)
	}
}

func TestLineLengthLimit(t *testing.T) {
	line998 := strings.Repeat("x", 998)
	msg, err := Parse([]byte("Subject: ok\r\n\r\n" + line998 + "\r\n"))
	require.NoError(t, err)
	require.Equal(t, line998+"\r\n", msg.Body.(*SimpleText).Text)

	line999 := strings.Repeat("x", 999)
	_, err = Parse([]byte("Subject: ok\r\n\r\n" + line999 + "\r\n"))
	require.True(t, errors.Is(err, ErrLineTooLong), "got %v", err)
}

func TestBareLineBreakRejected(t *testing.T) {
	for _, body := range []string{"bare\nfeed\r\n", "bare\rreturn\r\n"} {
		_, err := Parse([]byte("Subject: x\r\n\r\n" + body))
		require.Error(t, err, "%q", body)
	}
}

// S6: multipart may not combine with a non-trivial transfer encoding.
func TestMultipartWithNontrivialCte(t *testing.T) {
	input := []byte("Content-Type: multipart/mixed; boundary=\"b\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"--b--\r\n")
	_, err := Parse(input)
	require.True(t, errors.Is(err, ErrMultipartWithNontrivialCte), "got %v", err)
}

func TestMultipartWithoutBoundary(t *testing.T) {
	_, err := Parse([]byte("Content-Type: multipart/mixed\r\n\r\nx\r\n"))
	require.True(t, errors.Is(err, ErrContentTypeWithoutBoundary), "got %v", err)
}

func TestDuplicateContentType(t *testing.T) {
	input := []byte("Content-Type: text/plain\r\n" +
		"Content-Type: application/json\r\n" +
		"\r\n" +
		"{}\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	// both stay in the header, the first drives dispatch
	require.Equal(t, 0, msg.ContentTypeIndex)
	_, isText := msg.Body.(*SimpleText)
	require.True(t, isText, "dispatch should follow the first Content-Type")
	require.Len(t, msg.Header, 2)
}

func TestUnknownCharsetFallsBack(t *testing.T) {
	// no charset hook installed in this package's tests: the label is
	// ignored and the bytes decode as lossy UTF-8
	input := []byte("Content-Type: text/plain; charset=banana\r\n\r\nplain ascii\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "plain ascii\r\n", msg.Body.(*SimpleText).Text)

	latin1 := []byte("Content-Type: text/plain; charset=banana\r\n\r\nCaf\xe9\r\n")
	msg, err = Parse(latin1)
	require.NoError(t, err)
	require.True(t, strings.Contains(msg.Body.(*SimpleText).Text, "�"),
		"invalid UTF-8 should be replaced, got %q", msg.Body.(*SimpleText).Text)
}

func TestSizeOfNestedParts(t *testing.T) {
	part := "Content-Type: text/plain\r\n\r\nA"
	input := []byte("Content-Type: multipart/mixed; boundary=q\r\n\r\n" +
		"--q\r\n" + part + "\r\n--q--\r\n")
	msg, err := Parse(input)
	require.NoError(t, err)
	mp := msg.Body.(*Multipart)
	require.Len(t, mp.Parts, 1)
	require.Equal(t, len(part), mp.Parts[0].Size)
	require.Equal(t, len(input), msg.Size)
}
