package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ldap-seeder/internal/adapter/ldif"
	domain "ldap-seeder/internal/domain/directory"
	apperrors "ldap-seeder/pkg/errors"
	"ldap-seeder/pkg/logger"
	"ldap-seeder/pkg/security"
)

const personFilter = "objectClass=inetOrgPerson"

// personAttributes are requested on every search.
var personAttributes = []string{
	"uid", "cn", "mail", "givenName", "sn", "jpegPhoto", "description", "title", "mobile",
}

// Usecase reads user entries back from the directory via ldapsearch.
type Usecase struct {
	searcher Searcher
	log      *zap.Logger
	group    singleflight.Group
}

// New creates a directory reader.
func New(s Searcher, log *zap.Logger) *Usecase {
	return &Usecase{searcher: s, log: log}
}

// ListUsers returns every person matching search on uid, mail, givenName or
// sn. An empty search lists everyone.
func (uc *Usecase) ListUsers(ctx context.Context, search string) ([]domain.Person, error) {
	log := logger.WithContext(ctx, uc.log)

	term, err := security.ValidateSearchQuery(search)
	if err != nil {
		log.Warn("invalid search query", zap.String("search", search), zap.Error(err))
		return nil, apperrors.NewValidationError("search", err.Error())
	}

	return uc.search(ctx, SearchFilter(term))
}

// GetUser returns the person with the given uid.
func (uc *Usecase) GetUser(ctx context.Context, uid string) (*domain.Person, error) {
	log := logger.WithContext(ctx, uc.log)

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, apperrors.NewValidationError("uid", "uid is required")
	}

	people, err := uc.search(ctx, UIDFilter(uid))
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		log.Debug("user not found", zap.String("uid", uid))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: uid=%s", uid))
	}
	return &people[0], nil
}

// search runs filter once per set of concurrent identical callers. The
// shared search is detached from any one caller's cancellation; each caller
// still stops waiting when its own ctx is done.
func (uc *Usecase) search(ctx context.Context, filter string) ([]domain.Person, error) {
	log := logger.WithContext(ctx, uc.log)

	ch := uc.group.DoChan(filter, func() (any, error) {
		return uc.runSearch(context.WithoutCancel(ctx), filter)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		log.Debug("directory search abandoned", zap.String("filter", filter), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res = <-ch:
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		var timeoutErr *apperrors.TimeoutError
		if errors.As(err, &timeoutErr) {
			log.Warn("directory search timed out", zap.String("filter", filter), zap.Error(err))
		} else {
			log.Error("directory search failed", zap.String("filter", filter), zap.Error(err))
		}
		return nil, err
	}

	people := v.([]domain.Person)
	log.Debug("directory search complete",
		zap.String("filter", filter),
		zap.Int("count", len(people)),
		zap.Bool("shared", shared),
	)

	// v may be shared between callers; each gets its own copy.
	out := make([]domain.Person, len(people))
	copy(out, people)
	return out, nil
}

func (uc *Usecase) runSearch(ctx context.Context, filter string) ([]domain.Person, error) {
	res, err := uc.searcher.Search(ctx, filter, personAttributes...)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, apperrors.NewToolError("ldapsearch", res.ExitCode, strings.TrimSpace(res.Stderr), nil)
	}

	entries, err := ldif.Parse(strings.NewReader(res.Stdout))
	if err != nil {
		return nil, apperrors.NewInternalError("parse search output", err)
	}

	people := make([]domain.Person, 0, len(entries))
	for _, e := range entries {
		if p, ok := domain.PersonFromEntry(e); ok {
			people = append(people, p)
		}
	}
	return people, nil
}

// SearchFilter builds the list filter for a validated search term.
func SearchFilter(term string) string {
	if term == "" {
		return personFilter
	}
	s := ldap.EscapeFilter(term)
	return fmt.Sprintf("(&(objectClass=inetOrgPerson)(|(uid=*%[1]s*)(mail=*%[1]s*)(givenName=*%[1]s*)(sn=*%[1]s*)))", s)
}

// UIDFilter builds the exact-match filter for uid.
func UIDFilter(uid string) string {
	return fmt.Sprintf("(&(objectClass=inetOrgPerson)(uid=%s))", ldap.EscapeFilter(uid))
}
