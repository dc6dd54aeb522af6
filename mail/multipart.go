package mail

import (
	"bytes"
	"fmt"
)

// The multipart scanner walks the container forward with byte searches,
// never backtracking. A delimiter line owns the CRLF that precedes it:
//
//	preamble CRLF "--" boundary CRLF
//	part bytes ( CRLF "--" boundary CRLF part bytes )*
//	CRLF "--" boundary "--" CRLF epilogue
//
// so part regions exclude the CRLF in front of their closing delimiter
// and the preamble keeps the CRLF that terminates it. Each part region is
// parsed as a complete nested message; nested multiparts recurse through
// parseMessage on their own sub-slice, which also bounds them by the
// enclosing delimiter with no extra bookkeeping.

func errMissingBoundary(boundary string) error {
	return &MessageError{Reason: fmt.Sprintf("boundary %q not found in multipart body", boundary)}
}

func hasCRLFPrefix(b []byte) bool {
	return len(b) >= 2 && b[0] == '\r' && b[1] == '\n'
}

// closeSuffix inspects the bytes directly after "--" boundary "--". The
// close delimiter ends with CRLF, or with the end of the container.
func closeSuffix(b []byte) (skip int, ok bool) {
	if len(b) == 0 {
		return 0, true
	}
	if hasCRLFPrefix(b) {
		return 2, true
	}
	return 0, false
}

// findDelimiter locates the next CRLF "--" boundary line at or after
// from. It reports the index of the leading CRLF, the index just past the
// delimiter line, and whether the optional trailing "--" marked it as the
// close delimiter. Boundary matching is byte exact; a candidate followed
// by anything but "--" or CRLF is not a delimiter and the scan moves on.
func findDelimiter(body, dash []byte, from int) (start, next int, closing, ok bool) {
	needle := make([]byte, 0, len(dash)+2)
	needle = append(needle, '\r', '\n')
	needle = append(needle, dash...)
	for {
		j := bytes.Index(body[from:], needle)
		if j < 0 {
			return 0, 0, false, false
		}
		j += from
		tail := body[j+len(needle):]
		switch {
		case bytes.HasPrefix(tail, []byte("--")):
			if skip, end := closeSuffix(tail[2:]); end {
				return j, j + len(needle) + 2 + skip, true, true
			}
		case hasCRLFPrefix(tail):
			return j, j + len(needle) + 2, false, true
		}
		from = j + 1
	}
}

func parseMultipart(body []byte, boundary string) (*Multipart, error) {
	dash := append([]byte("--"), boundary...)
	mp := &Multipart{}

	// preamble: everything before the first dash-boundary line, which is
	// anchored at the start of the buffer or of a line
	off := -1
	for search := 0; ; {
		i := bytes.Index(body[search:], dash)
		if i < 0 {
			return nil, errMissingBoundary(boundary)
		}
		i += search
		atLineStart := i == 0 || (i >= 2 && body[i-2] == '\r' && body[i-1] == '\n')
		tail := body[i+len(dash):]
		if atLineStart && hasCRLFPrefix(tail) {
			mp.Preamble = body[:i]
			off = i + len(dash) + 2
			break
		}
		if atLineStart && bytes.HasPrefix(tail, []byte("--")) {
			if skip, end := closeSuffix(tail[2:]); end {
				// immediately closed container, no parts
				mp.Preamble = body[:i]
				mp.Epilogue = tail[2+skip:]
				return mp, nil
			}
		}
		search = i + 1
	}

	for {
		partStart := off
		// searching from two bytes back lets a close delimiter share the
		// CRLF that ended the previous boundary line
		delim, next, closing, ok := findDelimiter(body, dash, off-2)
		if !ok {
			return nil, errMissingBoundary(boundary)
		}
		if delim > partStart {
			part, err := parseMessage(body[partStart:delim])
			if err != nil {
				return nil, err
			}
			mp.Parts = append(mp.Parts, part)
		} else if !closing {
			// a zero length region between delimiters cannot hold a part
			if _, err := parseMessage(nil); err != nil {
				return nil, err
			}
		}
		off = next
		if closing {
			mp.Epilogue = body[next:]
			return mp, nil
		}
	}
}
