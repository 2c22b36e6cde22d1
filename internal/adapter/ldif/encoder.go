// Package ldif reads and writes the LDAP Data Interchange Format (RFC 2849)
// on top of github.com/go-ldap/ldif.
package ldif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-ldap/ldap/v3"
	goldif "github.com/go-ldap/ldif"

	domain "ldap-seeder/internal/domain/directory"
)

// FoldWidth is the column at which long lines are continued.
const FoldWidth = 76

// Encode writes doc to w. Header lines and entry comments become "#" lines;
// entries are separated by a blank line.
func Encode(w io.Writer, doc *domain.Document) error {
	bw := bufio.NewWriter(w)

	for _, line := range doc.Header {
		writeComment(bw, line)
	}
	if len(doc.Header) > 0 {
		bw.WriteByte('\n')
	}

	// Entries are marshalled one at a time; goldif.Marshal builds its
	// output by string concatenation.
	for i := range doc.Entries {
		e := &doc.Entries[i]
		entry, err := toLDAPEntry(e)
		if err != nil {
			return err
		}

		text, err := goldif.Marshal(&goldif.LDIF{
			Entries:   []*goldif.Entry{{Entry: entry}},
			FoldWidth: FoldWidth,
		})
		if err != nil {
			return fmt.Errorf("entry %q: %w", e.DN, err)
		}

		if e.Comment != "" {
			writeComment(bw, e.Comment)
		}
		bw.WriteString(text)
	}

	return bw.Flush()
}

// Marshal returns doc encoded as a string.
func Marshal(doc *domain.Document) (string, error) {
	var b strings.Builder
	if err := Encode(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// toLDAPEntry groups values by attribute name in first-seen order and
// decodes pre-encoded values so the marshaller can choose the encoding.
func toLDAPEntry(e *domain.Entry) (*ldap.Entry, error) {
	if e.DN == "" {
		return nil, fmt.Errorf("entry has no dn")
	}

	entry := &ldap.Entry{DN: e.DN}
	index := make(map[string]*ldap.EntryAttribute)

	for _, a := range e.Attributes {
		if a.Name == "" {
			return nil, fmt.Errorf("entry %q: attribute with empty name", e.DN)
		}
		value, err := a.Text()
		if err != nil {
			return nil, fmt.Errorf("entry %q: attribute %s: %w", e.DN, a.Name, err)
		}

		attr, ok := index[a.Name]
		if !ok {
			attr = &ldap.EntryAttribute{Name: a.Name}
			index[a.Name] = attr
			entry.Attributes = append(entry.Attributes, attr)
		}
		attr.Values = append(attr.Values, value)
		attr.ByteValues = append(attr.ByteValues, []byte(value))
	}

	return entry, nil
}

func writeComment(w *bufio.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		w.WriteString("# ")
		w.WriteString(line)
		w.WriteByte('\n')
	}
}
