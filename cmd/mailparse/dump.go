package main

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flashmob/go-mailparse/mail"
	"github.com/flashmob/go-mailparse/mail/rfc5322"
)

func dump(cmd *cobra.Command, args []string) {
	failed := 0
	out := bufio.NewWriter(os.Stdout)
	for _, path := range args {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			mainlog.WithError(err).Errorf("reading %s", path)
			failed++
			continue
		}
		mainlog.Debugf("parsing %s (%d bytes)", path, len(data))
		msg, err := mail.Parse(data)
		if err != nil {
			mainlog.WithError(err).Errorf("parsing %s", path)
			failed++
			continue
		}
		fmt.Fprintf(out, "== %s (%d bytes)\n", path, msg.Size)
		dumpMessage(out, msg, "")
	}
	out.Flush()
	if failed > 0 {
		os.Exit(1)
	}
}

func dumpMessage(w io.Writer, m *mail.Message, indent string) {
	for _, hf := range m.Header {
		fmt.Fprintf(w, "%s%s: %s\n", indent, hf.Name, fieldString(hf.Value))
	}
	switch b := m.Body.(type) {
	case *mail.SimpleText:
		fmt.Fprintf(w, "%sTEXT (%d bytes)\n", indent, len(b.Text))
		for _, line := range strings.Split(strings.TrimRight(b.Text, "\r\n"), "\r\n") {
			fmt.Fprintf(w, "%s| %s\n", indent, line)
		}
	case *mail.SimpleBinary:
		fmt.Fprintf(w, "%sBINARY (%d bytes)\n", indent, len(b.Data))
	case *mail.Multipart:
		fmt.Fprintf(w, "%sMULTIPART (%d parts, preamble %d bytes, epilogue %d bytes)\n",
			indent, len(b.Parts), len(b.Preamble), len(b.Epilogue))
		for i, part := range b.Parts {
			fmt.Fprintf(w, "%s-- part %d (%d bytes)\n", indent, i+1, part.Size)
			dumpMessage(w, part, indent+"   ")
		}
	}
}

func fieldString(v mail.FieldValue) string {
	switch f := v.(type) {
	case mail.Unstructured:
		return string(f.Text)
	case mail.OrigDate:
		return f.Time.Format("Mon, 2 Jan 2006 15:04:05 -0700")
	case mail.FromField:
		return mailboxesString(f.Mailboxes)
	case mail.SenderField:
		return f.Mailbox.String()
	case mail.ReplyToField:
		return addressesString(f.Addresses)
	case mail.ToField:
		return addressesString(f.Addresses)
	case mail.CcField:
		return addressesString(f.Addresses)
	case mail.BccField:
		return addressesString(f.Addresses)
	case mail.ContentTypeField:
		return f.ContentType.String()
	case mail.TransferEncodingField:
		return f.Encoding.String()
	}
	return "?"
}

func mailboxesString(list []*rfc5322.Mailbox) string {
	parts := make([]string, len(list))
	for i, m := range list {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}

func addressesString(list []rfc5322.Address) string {
	parts := make([]string, len(list))
	for i, a := range list {
		switch addr := a.(type) {
		case *rfc5322.Mailbox:
			parts[i] = addr.String()
		case *rfc5322.Group:
			parts[i] = addr.String()
		}
	}
	return strings.Join(parts, ", ")
}
