// Package ldaptool drives the OpenLDAP command-line clients (ldapadd,
// ldapsearch). All directory protocol work is delegated to them.
package ldaptool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "ldap-seeder/pkg/errors"
)

// Config describes the target server and the tools used to reach it.
type Config struct {
	Host          string
	Port          int
	BaseDN        string
	SearchBase    string
	BindDN        string
	BindPassword  string
	AddBinary     string
	SearchBinary  string
	AddTimeout    time.Duration
	SearchTimeout time.Duration
}

// URL returns the ldap:// URL of the target server.
func (c Config) URL() string {
	return fmt.Sprintf("ldap://%s:%d", c.Host, c.Port)
}

// Client invokes the directory tools against one server.
type Client struct {
	runner Runner
	cfg    Config
	log    *zap.Logger
}

// NewClient creates a Client. Empty binary names default to ldapadd and
// ldapsearch; an empty SearchBase defaults to BaseDN.
func NewClient(runner Runner, cfg Config, log *zap.Logger) *Client {
	if cfg.SearchBase == "" {
		cfg.SearchBase = cfg.BaseDN
	}
	if cfg.AddBinary == "" {
		cfg.AddBinary = "ldapadd"
	}
	if cfg.SearchBinary == "" {
		cfg.SearchBinary = "ldapsearch"
	}
	return &Client{runner: runner, cfg: cfg, log: log}
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// AddArgs returns the ldapadd arguments that load the LDIF file at path.
func (c *Client) AddArgs(path string) []string {
	return []string{
		"-x",
		"-H", c.cfg.URL(),
		"-D", c.cfg.BindDN,
		"-w", c.cfg.BindPassword,
		"-f", path,
	}
}

// SearchArgs returns the ldapsearch arguments for filter and attrs under the
// configured search base. Output is plain LDIF without comments or version.
func (c *Client) SearchArgs(filter string, attrs ...string) []string {
	args := []string{
		"-x",
		"-LLL",
		"-H", c.cfg.URL(),
		"-b", c.cfg.SearchBase,
		"-D", c.cfg.BindDN,
		"-w", c.cfg.BindPassword,
		filter,
	}
	return append(args, attrs...)
}

// Add loads the LDIF file at path, bounded by the add timeout.
func (c *Client) Add(ctx context.Context, path string) (*Result, error) {
	return c.run(ctx, c.cfg.AddBinary, c.cfg.AddTimeout, c.AddArgs(path))
}

// Search runs a subtree search, bounded by the search timeout.
func (c *Client) Search(ctx context.Context, filter string, attrs ...string) (*Result, error) {
	return c.run(ctx, c.cfg.SearchBinary, c.cfg.SearchTimeout, c.SearchArgs(filter, attrs...))
}

func (c *Client) run(ctx context.Context, binary string, timeout time.Duration, args []string) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.log.Debug("running directory tool",
		zap.String("tool", binary),
		zap.String("url", c.cfg.URL()),
		zap.Duration("timeout", timeout),
	)

	res, err := c.runner.Run(ctx, binary, args...)
	if err != nil {
		var timeoutErr *apperrors.TimeoutError
		if errors.As(err, &timeoutErr) && timeout > 0 {
			timeoutErr.Timeout = timeout
		}
		c.log.Warn("directory tool failed", zap.String("tool", binary), zap.Error(err))
		return res, err
	}

	c.log.Debug("directory tool finished",
		zap.String("tool", binary),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// ManualAddCommand renders the ldapadd invocation for path as a multi-line
// shell command an operator can paste.
func (c *Client) ManualAddCommand(path string) string {
	lines := []string{
		fmt.Sprintf("%s -x -H %s \\", c.cfg.AddBinary, c.cfg.URL()),
		fmt.Sprintf("  -D %s \\", c.cfg.BindDN),
		fmt.Sprintf("  -w %s \\", c.cfg.BindPassword),
		fmt.Sprintf("  -f %s", path),
	}
	return strings.Join(lines, "\n")
}
