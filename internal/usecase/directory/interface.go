package directory

import (
	"context"

	"ldap-seeder/internal/adapter/ldaptool"
	domain "ldap-seeder/internal/domain/directory"
)

// Searcher runs directory searches under the users container.
type Searcher interface {
	Search(ctx context.Context, filter string, attrs ...string) (*ldaptool.Result, error)
}

// Reader defines the read-only directory operations exposed over HTTP.
type Reader interface {
	ListUsers(ctx context.Context, search string) ([]domain.Person, error)
	GetUser(ctx context.Context, uid string) (*domain.Person, error)
}
