package seed

import (
	"strings"

	"github.com/go-ldap/ldap/v3"

	domain "ldap-seeder/internal/domain/directory"
)

func baseEntry(s Settings) domain.Entry {
	e := domain.Entry{Comment: "Base DN", DN: s.BaseDN}
	e.Add("objectClass", "dcObject", "organization")
	e.Add("o", s.Organization)
	e.Add("dc", firstRDNValue(s.BaseDN))
	return e
}

func usersEntry(s Settings) domain.Entry {
	e := domain.Entry{Comment: "Users Organizational Unit", DN: s.UsersDN()}
	e.Add("objectClass", "organizationalUnit")
	e.Add("ou", s.UsersOU)
	e.Add("description", "User accounts")
	return e
}

func userEntry(u domain.User, s Settings) domain.Entry {
	e := domain.Entry{
		Comment: "User: " + u.Username,
		DN:      "cn=" + ldap.EscapeDN(u.Username) + "," + s.UsersDN(),
	}
	e.Add("objectClass", "inetOrgPerson", "organizationalPerson", "person", "top")
	e.Add("cn", u.Username)
	e.Add("sn", u.LastName)
	e.Add("givenName", u.FirstName)
	e.Add("uid", u.Username)
	e.Add("mail", u.Email)
	e.Add("userPassword", u.Password)
	e.AddEncoded("jpegPhoto", u.Avatar)
	e.Add("description", u.Description)
	e.Add("employeeNumber", u.EmployeeNumber)
	e.Add("mobile", u.Mobile)
	e.Add("departmentNumber", u.Department)
	return e
}

// firstRDNValue returns "photobook" for "dc=photobook,dc=local".
func firstRDNValue(dn string) string {
	rdn, _, _ := strings.Cut(dn, ",")
	_, value, found := strings.Cut(rdn, "=")
	if !found {
		return rdn
	}
	return strings.TrimSpace(value)
}
