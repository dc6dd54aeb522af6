package rfc5322

import (
	"bytes"
	"strings"
	"testing"
)

func TestFWS(t *testing.T) {
	cases := []struct {
		in   string
		rest string
		ok   bool
	}{
		{"    \r\n   hi!", "hi!", true},
		{" hi", "hi", true},
		{"\r\n next", "next", true},
		{"\t\r\n\tx", "x", true},
		{" \r\n \r\n y", "y", true}, // obs-FWS multi-line run
		{"no ws", "", false},
		{"\r\nx", "", false}, // fold not followed by WSP
	}
	for _, c := range cases {
		p := NewParser([]byte(c.in))
		err := p.fws()
		if c.ok && err != nil {
			t.Errorf("fws(%q): unexpected error %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("fws(%q): error expected", c.in)
			} else if p.Pos() != 0 {
				t.Errorf("fws(%q): consumed input on failure", c.in)
			}
			continue
		}
		if got := string(p.Input()[p.Pos():]); got != c.rest {
			t.Errorf("fws(%q): rest = %q, want %q", c.in, got, c.rest)
		}
	}
}

func TestCFWSComments(t *testing.T) {
	cases := []string{
		" (simple comment) ",
		"(nested (one (two (three))))",
		"( quoted \\( pair )",
		" (a) (b) (c) ",
	}
	for _, c := range cases {
		p := NewParser([]byte(c))
		if err := p.cfws(); err != nil {
			t.Errorf("cfws(%q): %v", c, err)
			continue
		}
		if !p.EOF() {
			t.Errorf("cfws(%q): %d bytes left", c, len(c)-p.Pos())
		}
	}
}

func TestCommentNestsDeep(t *testing.T) {
	depth := 40
	in := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)
	p := NewParser([]byte(in))
	if err := p.comment(); err != nil {
		t.Fatalf("comment depth %d: %v", depth, err)
	}
	if !p.EOF() {
		t.Fatal("comment not fully consumed")
	}
}

func TestCommentUnterminated(t *testing.T) {
	p := NewParser([]byte("(oops"))
	if err := p.comment(); err == nil {
		t.Error("error expected for unterminated comment")
	}
}

func TestQuotedPair(t *testing.T) {
	p := NewParser([]byte(`\"`))
	ch, err := p.quotedPair()
	if err != nil {
		t.Fatal(err)
	}
	if ch != '"' {
		t.Errorf("got %q", ch)
	}
	p = NewParser([]byte("\\\r"))
	if _, err := p.quotedPair(); err == nil {
		t.Error("CR is not quotable")
	}
}

func TestAtomAndDotAtom(t *testing.T) {
	p := NewParser([]byte(" (c) token (d) "))
	a, err := p.atom()
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != "token" {
		t.Errorf("atom = %q", a)
	}
	if !p.EOF() {
		t.Error("surrounding CFWS not consumed")
	}

	p = NewParser([]byte("alpha.beta.gamma rest"))
	d, err := p.dotAtom()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "alpha.beta.gamma" {
		t.Errorf("dot-atom = %q", d)
	}

	// a trailing dot stays unconsumed
	p = NewParser([]byte("a.b."))
	d, err = p.dotAtom()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "a.b" {
		t.Errorf("dot-atom = %q", d)
	}
	if p.Peek() != '.' {
		t.Error("trailing dot should not be consumed")
	}
}

func TestQuotedString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`"hello world"`, "hello world"},
		{`"a\"b"`, `a"b`},
		{`"back\\slash"`, `back\slash`},
		{"\"fold\r\n here\"", "fold here"},
		{` "padded" `, "padded"},
		{`""`, ""},
	}
	for _, c := range cases {
		p := NewParser([]byte(c.in))
		got, err := p.quotedString()
		if err != nil {
			t.Errorf("quotedString(%q): %v", c.in, err)
			continue
		}
		if string(got) != c.want {
			t.Errorf("quotedString(%q) = %q, want %q", c.in, got, c.want)
		}
		if !p.EOF() {
			t.Errorf("quotedString(%q): %d bytes left", c.in, len(c.in)-p.Pos())
		}
	}

	p := NewParser([]byte(`"unterminated`))
	if _, err := p.quotedString(); err == nil {
		t.Error("error expected")
	}
	if p.Pos() != 0 {
		t.Error("failed quotedString consumed input")
	}
}

func TestQuotedStringRoundTrip(t *testing.T) {
	// re-quoting the decoded payload of a fold-free quoted-string yields
	// the original
	payloads := []string{"simple", "with space", `esc"aped`}
	for _, want := range payloads {
		quoted := `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(want) + `"`
		p := NewParser([]byte(quoted))
		got, err := p.quotedString()
		if err != nil {
			t.Fatalf("%q: %v", quoted, err)
		}
		if string(got) != want {
			t.Errorf("round trip %q = %q", quoted, got)
		}
	}
}

func TestPhrase(t *testing.T) {
	p := NewParser([]byte("Brennan Vincent"))
	words, err := p.phrase()
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || string(words[0]) != "Brennan" || string(words[1]) != "Vincent" {
		t.Errorf("phrase = %q", words)
	}

	// encoded words survive as opaque atoms, the dot via obs-phrase
	p = NewParser([]byte("=?utf-8?Q?Register.ly?="))
	words, err = p.phrase()
	if err != nil {
		t.Fatal(err)
	}
	if !p.EOF() {
		t.Errorf("phrase left %q", p.Input()[p.Pos():])
	}
	joined := string(bytes.Join(words, nil))
	if joined != "=?utf-8?Q?Register.ly?=" {
		t.Errorf("joined phrase = %q", joined)
	}

	p = NewParser([]byte(`"Joe Q. Public" extra`))
	words, err = p.phrase()
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || string(words[0]) != "Joe Q. Public" {
		t.Errorf("phrase = %q", words)
	}
}

func TestUnstructured(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{" hello  world", " hello world"},
		{"a\r\n b", "a b"},
		{"line1\r\n\tline2", "line1 line2"},
		{"trailing  ", "trailing  "},
		{"", ""},
	}
	for _, c := range cases {
		got, err := ParseUnstructured([]byte(c.in))
		if err != nil {
			t.Errorf("ParseUnstructured(%q): %v", c.in, err)
			continue
		}
		if string(got) != c.want {
			t.Errorf("ParseUnstructured(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	if _, err := ParseUnstructured([]byte("ctl\x01byte")); err == nil {
		t.Error("control byte should not parse")
	}
}
