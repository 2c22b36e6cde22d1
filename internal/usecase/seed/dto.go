package seed

// DefaultUserCount is used when a non-positive count is requested.
const DefaultUserCount = 300

// Settings describes the directory layout and the generated data.
type Settings struct {
	BaseDN       string
	Organization string
	UsersOU      string
	MailDomain   string
	Department   string
	UserCount    int
	OutputPath   string // OutputPath is where the LDIF is kept locally
	TempPath     string // TempPath is the file handed to the add tool
}

// UsersDN returns the DN of the container holding user entries.
func (s Settings) UsersDN() string {
	return "ou=" + s.UsersOU + "," + s.BaseDN
}

// Report summarizes a seeding run.
type Report struct {
	RunID    string
	Users    int
	Bytes    int
	Saved    bool
	Loaded   bool
	Verified int
}

// Succeeded reports whether the users were loaded and found again.
func (r *Report) Succeeded() bool {
	return r.Loaded && r.Verified > 0
}
