package ldif

import (
	"bytes"
	"fmt"
	"io"

	goldif "github.com/go-ldap/ldif"

	domain "ldap-seeder/internal/domain/directory"
)

// Parse reads content records such as `ldapsearch -LLL` output. Base64
// values are returned decoded. Empty input yields no entries.
func Parse(r io.Reader) ([]domain.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ldif: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var l goldif.LDIF
	if err := goldif.Unmarshal(bytes.NewReader(data), &l); err != nil {
		return nil, fmt.Errorf("parse ldif: %w", err)
	}

	found := l.AllEntries()
	entries := make([]domain.Entry, 0, len(found))
	for _, le := range found {
		e := domain.Entry{DN: le.DN}
		for _, attr := range le.Attributes {
			e.Add(attr.Name, attr.Values...)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
