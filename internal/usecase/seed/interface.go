package seed

import (
	"context"

	"ldap-seeder/internal/adapter/ldaptool"
)

// DirectoryTool loads and queries the directory through external tools.
type DirectoryTool interface {
	Add(ctx context.Context, path string) (*ldaptool.Result, error)
	Search(ctx context.Context, filter string, attrs ...string) (*ldaptool.Result, error)
	ManualAddCommand(path string) string
}

// AvatarRenderer produces base64 profile pictures.
type AvatarRenderer interface {
	Base64(id int, name string) (string, error)
}
