package rfc5322

import "bytes"

// Address is one entry of an address list: either a *Mailbox or a *Group.
type Address interface {
	address()
}

// AddrSpec is the local-part "@" domain pair of a mailbox. LocalPart is
// the decoded content when the local part was a quoted-string, otherwise
// a sub-slice of the input. Domain keeps the square brackets of a
// domain-literal.
type AddrSpec struct {
	LocalPart []byte
	Domain    []byte
}

func (a AddrSpec) String() string {
	return string(a.LocalPart) + "@" + string(a.Domain)
}

// Mailbox is an addr-spec with an optional display name. DisplayName
// holds the words of the display phrase, nil when the mailbox was a bare
// addr-spec.
type Mailbox struct {
	DisplayName [][]byte
	Addr        AddrSpec
}

func (*Mailbox) address() {}

func (m *Mailbox) String() string {
	if len(m.DisplayName) == 0 {
		return m.Addr.String()
	}
	return string(bytes.Join(m.DisplayName, []byte(" "))) + " <" + m.Addr.String() + ">"
}

// Group is a named list of mailboxes; the list may be empty.
type Group struct {
	DisplayName [][]byte
	Mailboxes   []*Mailbox
}

func (*Group) address() {}

func (g *Group) String() string {
	var b bytes.Buffer
	b.Write(bytes.Join(g.DisplayName, []byte(" ")))
	b.WriteByte(':')
	for i, m := range g.Mailboxes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(m.String())
	}
	b.WriteByte(';')
	return b.String()
}

// local-part = dot-atom / quoted-string
func (p *Parser) localPart() ([]byte, error) {
	if d, err := p.dotAtom(); err == nil {
		return d, nil
	}
	return p.quotedString()
}

// domain-literal = [CFWS] "[" *([FWS] dtext) [FWS] "]" [CFWS]
//
// The literal is returned brackets included.
func (p *Parser) domainLiteral() ([]byte, error) {
	m := p.Mark()
	p.SkipCFWS()
	if p.Peek() != '[' {
		p.Rewind(m)
		return nil, p.Errorf("domain expected")
	}
	start := p.pos
	p.Next()
	for {
		_ = p.fws()
		switch ch := p.Peek(); {
		case isDtext(ch):
			p.Next()
		case ch == ']':
			p.Next()
			lit := p.buf[start:p.pos]
			p.SkipCFWS()
			return lit, nil
		default:
			p.Rewind(m)
			return nil, p.Errorf("unterminated domain-literal")
		}
	}
}

// domain = dot-atom / domain-literal
func (p *Parser) domain() ([]byte, error) {
	if d, err := p.dotAtom(); err == nil {
		return d, nil
	}
	return p.domainLiteral()
}

// addr-spec = local-part "@" domain
func (p *Parser) addrSpec() (AddrSpec, error) {
	m := p.Mark()
	local, err := p.localPart()
	if err != nil {
		p.Rewind(m)
		return AddrSpec{}, err
	}
	if p.Peek() != '@' {
		p.Rewind(m)
		return AddrSpec{}, p.Errorf("expected '@' in addr-spec")
	}
	p.Next()
	dom, err := p.domain()
	if err != nil {
		p.Rewind(m)
		return AddrSpec{}, err
	}
	return AddrSpec{LocalPart: local, Domain: dom}, nil
}

// angle-addr = [CFWS] "<" addr-spec ">" [CFWS]
func (p *Parser) angleAddr() (AddrSpec, error) {
	m := p.Mark()
	p.SkipCFWS()
	if p.Peek() != '<' {
		p.Rewind(m)
		return AddrSpec{}, p.Errorf("expected '<'")
	}
	p.Next()
	spec, err := p.addrSpec()
	if err != nil {
		p.Rewind(m)
		return AddrSpec{}, err
	}
	if p.Peek() != '>' {
		p.Rewind(m)
		return AddrSpec{}, p.Errorf("expected '>'")
	}
	p.Next()
	p.SkipCFWS()
	return spec, nil
}

// name-addr = [display-name] angle-addr
// display-name = phrase
func (p *Parser) nameAddr() (*Mailbox, error) {
	m := p.Mark()
	var dn [][]byte
	if words, err := p.phrase(); err == nil {
		dn = words
	}
	spec, err := p.angleAddr()
	if err != nil {
		p.Rewind(m)
		return nil, err
	}
	return &Mailbox{DisplayName: dn, Addr: spec}, nil
}

// mailbox = name-addr / addr-spec
func (p *Parser) mailbox() (*Mailbox, error) {
	m := p.Mark()
	if mb, err := p.nameAddr(); err == nil {
		return mb, nil
	}
	p.Rewind(m)
	spec, err := p.addrSpec()
	if err != nil {
		p.Rewind(m)
		return nil, err
	}
	return &Mailbox{Addr: spec}, nil
}

// mailbox-list = mailbox *("," mailbox)
func (p *Parser) mailboxList() ([]*Mailbox, error) {
	first, err := p.mailbox()
	if err != nil {
		return nil, err
	}
	list := []*Mailbox{first}
	for {
		m := p.Mark()
		p.SkipCFWS()
		if p.Peek() != ',' {
			p.Rewind(m)
			return list, nil
		}
		p.Next()
		mb, err := p.mailbox()
		if err != nil {
			p.Rewind(m)
			return list, nil
		}
		list = append(list, mb)
	}
}

// group = display-name ":" [mailbox-list / CFWS] ";" [CFWS]
func (p *Parser) group() (*Group, error) {
	m := p.Mark()
	dn, err := p.phrase()
	if err != nil {
		p.Rewind(m)
		return nil, err
	}
	if p.Peek() != ':' {
		p.Rewind(m)
		return nil, p.Errorf("expected ':' after group display name")
	}
	p.Next()
	g := &Group{DisplayName: dn}
	body := p.Mark()
	if mbs, err := p.mailboxList(); err == nil {
		g.Mailboxes = mbs
	} else {
		p.Rewind(body)
		p.SkipCFWS()
	}
	if p.Peek() != ';' {
		p.Rewind(m)
		return nil, p.Errorf("expected ';' terminating group")
	}
	p.Next()
	p.SkipCFWS()
	return g, nil
}

// address = mailbox / group
func (p *Parser) address() (Address, error) {
	m := p.Mark()
	if mb, err := p.mailbox(); err == nil {
		return mb, nil
	}
	p.Rewind(m)
	return p.group()
}

// address-list = address *("," address)
func (p *Parser) addressList() ([]Address, error) {
	first, err := p.address()
	if err != nil {
		return nil, err
	}
	list := []Address{first}
	for {
		m := p.Mark()
		p.SkipCFWS()
		if p.Peek() != ',' {
			p.Rewind(m)
			return list, nil
		}
		p.Next()
		a, err := p.address()
		if err != nil {
			p.Rewind(m)
			return list, nil
		}
		list = append(list, a)
	}
}

// ParseMailbox parses an entire Sender-style field body holding a single
// mailbox.
func ParseMailbox(b []byte) (*Mailbox, error) {
	p := NewParser(b)
	mb, err := p.mailbox()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return mb, nil
}

// ParseMailboxList parses an entire From-style field body.
func ParseMailboxList(b []byte) ([]*Mailbox, error) {
	p := NewParser(b)
	list, err := p.mailboxList()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return list, nil
}

// ParseAddressList parses an entire To/Cc/Reply-To-style field body.
func ParseAddressList(b []byte) ([]Address, error) {
	p := NewParser(b)
	list, err := p.addressList()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return list, nil
}

// ParseOptionalAddressList is ParseAddressList for fields whose list may
// be entirely absent, like Bcc. An empty body, or one holding only CFWS,
// yields an empty list.
func ParseOptionalAddressList(b []byte) ([]Address, error) {
	p := NewParser(b)
	p.SkipCFWS()
	if p.EOF() {
		return nil, nil
	}
	return ParseAddressList(b)
}
