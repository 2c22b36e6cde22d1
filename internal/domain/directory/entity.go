package directory

import (
	"encoding/base64"
	"strings"
)

// User is one synthetic account produced by a seeding run.
type User struct {
	ID             int    // ID is the 1-based position in the run
	FirstName      string // FirstName is stored as givenName
	LastName       string // LastName is stored as sn
	Username       string // Username is used as cn and uid
	Email          string
	Password       string // Password is a plaintext placeholder
	Department     string
	EmployeeNumber string // EmployeeNumber is the zero-padded ID
	Mobile         string
	Description    string
	Avatar         string // Avatar is a base64 PNG
}

// DisplayName returns the first and last name joined by a space.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Attribute is a single attribute value of an entry. Encoded marks Value as
// base64 text; otherwise Value holds the raw bytes.
type Attribute struct {
	Name    string
	Value   string
	Encoded bool
}

// Text returns the attribute value decoded to text.
func (a Attribute) Text() (string, error) {
	if !a.Encoded {
		return a.Value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(a.Value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Entry is a directory entry in interchange form.
type Entry struct {
	Comment    string
	DN         string
	Attributes []Attribute
}

// Add appends a plain text attribute value.
func (e *Entry) Add(name string, values ...string) {
	for _, v := range values {
		e.Attributes = append(e.Attributes, Attribute{Name: name, Value: v})
	}
}

// AddEncoded appends an already base64-encoded attribute value.
func (e *Entry) AddEncoded(name, value string) {
	e.Attributes = append(e.Attributes, Attribute{Name: name, Value: value, Encoded: true})
}

// Values returns every value of the named attribute, matching names
// case-insensitively.
func (e *Entry) Values(name string) []Attribute {
	var out []Attribute
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			out = append(out, a)
		}
	}
	return out
}

// First returns the first value of the named attribute as text, or "" when
// the attribute is absent or undecodable.
func (e *Entry) First(name string) string {
	values := e.Values(name)
	if len(values) == 0 {
		return ""
	}
	text, err := values[0].Text()
	if err != nil {
		return ""
	}
	return text
}

// Document is an ordered sequence of entries with leading comment lines.
type Document struct {
	Header  []string
	Entries []Entry
}

// Person is a user entry as read back from the directory.
type Person struct {
	UID         string
	CN          string
	Email       string
	FirstName   string
	LastName    string
	Description string
	Title       string
	Mobile      string
	Photo       string // Photo is the base64 jpegPhoto value, if any
}

// DisplayName returns the first and last name joined by a space.
func (p Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PersonFromEntry maps a search result entry onto a Person. ok is false when
// the entry has no uid.
func PersonFromEntry(e Entry) (Person, bool) {
	uid := e.First("uid")
	if uid == "" {
		return Person{}, false
	}

	p := Person{
		UID:         uid,
		CN:          e.First("cn"),
		Email:       e.First("mail"),
		FirstName:   e.First("givenName"),
		LastName:    e.First("sn"),
		Description: e.First("description"),
		Title:       e.First("title"),
		Mobile:      e.First("mobile"),
	}

	if photos := e.Values("jpegPhoto"); len(photos) > 0 {
		photo := photos[0]
		if photo.Encoded {
			p.Photo = photo.Value
		} else {
			p.Photo = base64.StdEncoding.EncodeToString([]byte(photo.Value))
		}
	}

	return p, true
}
