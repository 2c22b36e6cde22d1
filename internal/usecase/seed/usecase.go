package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"ldap-seeder/internal/adapter/ldif"
	domain "ldap-seeder/internal/domain/directory"
	apperrors "ldap-seeder/pkg/errors"
	"ldap-seeder/pkg/logger"
)

// verifyPrefix marks one returned user in ldapsearch output.
const verifyPrefix = "cn: user"

// Usecase generates, saves, loads and verifies the seed users.
type Usecase struct {
	tool     DirectoryTool
	avatars  AvatarRenderer
	settings Settings
	log      *zap.Logger
	out      *Printer
	now      func() time.Time
}

// New creates a seeding Usecase.
func New(tool DirectoryTool, avatars AvatarRenderer, settings Settings, out *Printer, log *zap.Logger) *Usecase {
	return &Usecase{
		tool:     tool,
		avatars:  avatars,
		settings: settings,
		log:      log,
		out:      out,
		now:      time.Now,
	}
}

// BuildUsers returns users 1..n with their avatars rendered.
func (uc *Usecase) BuildUsers(n int) ([]domain.User, error) {
	users := make([]domain.User, 0, n)
	for i := 1; i <= n; i++ {
		u := domain.User{
			ID:             i,
			FirstName:      fmt.Sprintf("User%d", i),
			LastName:       fmt.Sprintf("Account%d", i),
			Username:       fmt.Sprintf("user%d", i),
			Email:          fmt.Sprintf("user%d@%s", i, uc.settings.MailDomain),
			Password:       fmt.Sprintf("password%d", i),
			Department:     uc.settings.Department,
			EmployeeNumber: fmt.Sprintf("%04d", i),
			Mobile:         fmt.Sprintf("+1-555-%04d", i),
			Description:    fmt.Sprintf("Test user account %d", i),
		}

		avatar, err := uc.avatars.Base64(u.ID, u.DisplayName())
		if err != nil {
			return nil, fmt.Errorf("render avatar for %s: %w", u.Username, err)
		}
		u.Avatar = avatar

		users = append(users, u)
	}
	return users, nil
}

// Generate builds the document: base entry, users container, then n users.
// A non-positive n falls back to DefaultUserCount.
func (uc *Usecase) Generate(n int) (*domain.Document, error) {
	if n <= 0 {
		n = DefaultUserCount
	}

	users, err := uc.BuildUsers(n)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		Header: []string{
			"LDAP Data Interchange Format",
			"Generated: " + uc.now().Format(time.RFC3339),
			fmt.Sprintf("Number of Users: %d", n),
		},
		Entries: make([]domain.Entry, 0, n+2),
	}
	doc.Entries = append(doc.Entries, baseEntry(uc.settings), usersEntry(uc.settings))
	for _, u := range users {
		doc.Entries = append(doc.Entries, userEntry(u, uc.settings))
	}

	return doc, nil
}

// Format returns the LDIF text for n users.
func (uc *Usecase) Format(n int) (string, error) {
	doc, err := uc.Generate(n)
	if err != nil {
		return "", err
	}
	return ldif.Marshal(doc)
}

// Save writes content to path, creating parent directories.
func (uc *Usecase) Save(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load writes content to the temp path and runs the add tool once. Every
// failure is printed and reported as false.
func (uc *Usecase) Load(ctx context.Context, content string) bool {
	log := logger.WithContext(ctx, uc.log)
	path := uc.settings.TempPath

	if err := uc.Save(path, content); err != nil {
		log.Error("failed to write temp ldif", zap.String("path", path), zap.Error(err))
		uc.out.Fail("Error: %v", err)
		return false
	}
	uc.out.OK("Generated LDIF file: %s", path)

	uc.out.Section("📤", "Loading users into LDAP server...")
	res, err := uc.tool.Add(ctx, path)
	if err != nil {
		log.Error("ldap load failed", zap.Error(err))
		var timeoutErr *apperrors.TimeoutError
		if errors.As(err, &timeoutErr) {
			uc.out.Fail("LDAP connection timeout - server may not be ready (%s)", timeoutErr.Timeout)
		} else {
			uc.out.Fail("Error: %v", err)
		}
		return false
	}

	if res.Success() {
		log.Info("users loaded", zap.Duration("duration", res.Duration))
		uc.out.OK("Successfully loaded users into LDAP")
		return true
	}

	log.Warn("ldap load exited non-zero", zap.Int("exit_code", res.ExitCode), zap.String("stderr", res.Stderr))
	uc.out.Warn("LDAP load exited with code %d", res.ExitCode)
	uc.out.Warn("LDAP load output: %s", strings.TrimSpace(res.Stdout))
	if res.Stderr != "" {
		uc.out.Warn("LDAP errors: %s", strings.TrimSpace(res.Stderr))
	}
	return false
}

// Verify searches for person entries and counts the returned user cn lines.
// Any failure yields 0.
func (uc *Usecase) Verify(ctx context.Context) int {
	log := logger.WithContext(ctx, uc.log)

	res, err := uc.tool.Search(ctx, "objectClass=inetOrgPerson", "cn")
	if err != nil {
		log.Warn("verification failed", zap.Error(err))
		uc.out.Fail("Verification error: %v", err)
		return 0
	}
	if !res.Success() {
		log.Warn("verification query exited non-zero", zap.Int("exit_code", res.ExitCode))
		uc.out.Warn("Verification query returned: %s", strings.TrimSpace(res.Stderr))
		return 0
	}

	count := CountUsers(res.Stdout)
	log.Info("verification complete", zap.Int("count", count))
	uc.out.Section("✓", "Verification: Found %d user accounts in LDAP", count)
	return count
}

// CountUsers counts the lines of ldapsearch output that hold a seeded
// user's cn.
func CountUsers(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(strings.TrimRight(line, "\r"), verifyPrefix) {
			count++
		}
	}
	return count
}

// Run executes the whole pipeline and prints the outcome. It never fails;
// the report says what happened.
func (uc *Usecase) Run(ctx context.Context) *Report {
	if logger.GetRunID(ctx) == "" {
		ctx = logger.NewRunContext(ctx)
	}
	log := logger.WithContext(ctx, uc.log)

	n := uc.settings.UserCount
	if n <= 0 {
		n = DefaultUserCount
	}
	report := &Report{RunID: logger.GetRunID(ctx), Users: n}

	uc.out.Banner("LDAP User Population Script")
	log.Info("seeding run started", zap.Int("users", n))

	uc.out.Section("📝", "Generating %d user accounts with profile pictures...", n)
	content, err := uc.Format(n)
	if err != nil {
		log.Error("failed to generate ldif", zap.Error(err))
		uc.out.Fail("Error: %v", err)
		return report
	}
	report.Bytes = len(content)

	if err := uc.Save(uc.settings.OutputPath, content); err != nil {
		log.Warn("failed to save ldif locally", zap.Error(err))
		uc.out.Warn("Could not save LDIF to %s: %v", uc.settings.OutputPath, err)
	} else {
		report.Saved = true
		uc.out.OK("Saved LDIF to: %s", uc.settings.OutputPath)
	}

	uc.out.Section("📊", "LDIF Statistics:")
	uc.out.Indented(fmt.Sprintf("- Users: %d\n- Each with profile picture (base64 PNG)\n- File size: %.2f MB",
		n, float64(report.Bytes)/(1024*1024)))

	uc.out.Section("⏳", "Attempting to connect to LDAP server...")
	report.Loaded = uc.Load(ctx, content)

	if !report.Loaded {
		manualPath := uc.settings.OutputPath
		if !report.Saved {
			manualPath = uc.settings.TempPath
		}
		uc.out.Section("⚠", "Could not connect to LDAP server")
		uc.out.Indented("Run this command manually:\n" + uc.tool.ManualAddCommand(manualPath))
		log.Info("seeding run finished", zap.Bool("loaded", false))
		return report
	}

	report.Verified = uc.Verify(ctx)
	if report.Verified > 0 {
		fmt.Fprintln(uc.out.w)
		uc.out.Banner("✓ SUCCESS! All users loaded into LDAP")
	} else {
		uc.out.Section("⚠", "Users may have been loaded but verification failed")
	}

	log.Info("seeding run finished",
		zap.Bool("loaded", report.Loaded),
		zap.Int("verified", report.Verified),
		zap.Int("bytes", report.Bytes),
	)
	return report
}
