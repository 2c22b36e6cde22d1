package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ldap-seeder/internal/adapter/ldaptool"
	apperrors "ldap-seeder/pkg/errors"
)

// MockSearcher is a mock implementation of Searcher
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, filter string, attrs ...string) (*ldaptool.Result, error) {
	args := m.Called(ctx, filter, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ldaptool.Result), args.Error(1)
}

// searchOutput is ldapsearch -LLL output for two people.
const searchOutput = `dn: cn=user1,ou=users,dc=photobook,dc=local
uid: user1
cn: user1
givenName: User1
sn: Account1
mail: user1@photobook.local
description: Test user account 1
mobile: +1-555-0001
jpegPhoto:: iVBORw0KGgo=

dn: cn=user2,ou=users,dc=photobook,dc=local
uid: user2
cn: user2
givenName: User2
sn: Account2
mail: user2@photobook.local
`

func setupTestUsecase(t *testing.T) (*Usecase, *MockSearcher) {
	searcher := new(MockSearcher)
	return New(searcher, zaptest.NewLogger(t)), searcher
}

func TestSearchFilter(t *testing.T) {
	assert.Equal(t, "objectClass=inetOrgPerson", SearchFilter(""))
	assert.Equal(t,
		"(&(objectClass=inetOrgPerson)(|(uid=*acc*)(mail=*acc*)(givenName=*acc*)(sn=*acc*)))",
		SearchFilter("acc"))
	assert.Equal(t,
		`(&(objectClass=inetOrgPerson)(|(uid=*\c5\81u*)(mail=*\c5\81u*)(givenName=*\c5\81u*)(sn=*\c5\81u*)))`,
		SearchFilter("Łu"))
}

func TestUIDFilter(t *testing.T) {
	assert.Equal(t, "(&(objectClass=inetOrgPerson)(uid=user1))", UIDFilter("user1"))
	assert.Equal(t, `(&(objectClass=inetOrgPerson)(uid=\2a\29))`, UIDFilter("*)"))
}

func TestListUsers_Success(t *testing.T) {
	uc, searcher := setupTestUsecase(t)
	ctx := context.Background()

	searcher.On("Search", mock.Anything, "objectClass=inetOrgPerson", personAttributes).
		Return(&ldaptool.Result{Stdout: searchOutput}, nil)

	people, err := uc.ListUsers(ctx, "")

	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "user1", people[0].UID)
	assert.Equal(t, "User1 Account1", people[0].DisplayName())
	assert.Equal(t, "iVBORw0KGgo=", people[0].Photo)
	assert.Equal(t, "+1-555-0001", people[0].Mobile)
	assert.Equal(t, "user2@photobook.local", people[1].Email)
	assert.Empty(t, people[1].Photo)
	searcher.AssertExpectations(t)
}

func TestListUsers_WithSearch(t *testing.T) {
	uc, searcher := setupTestUsecase(t)
	ctx := context.Background()

	searcher.On("Search", mock.Anything, SearchFilter("user2"), personAttributes).
		Return(&ldaptool.Result{Stdout: "dn: cn=user2,ou=users,dc=photobook,dc=local\nuid: user2\n"}, nil)

	people, err := uc.ListUsers(ctx, "  user2 ")

	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "user2", people[0].UID)
}

func TestListUsers_InvalidSearch(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	_, err := uc.ListUsers(context.Background(), "*)(uid=*")

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "search", validationErr.Field)
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUsers_ToolFailure(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(&ldaptool.Result{ExitCode: 49, Stderr: "ldap_bind: Invalid credentials (49)\n"}, nil)

	_, err := uc.ListUsers(context.Background(), "")

	var toolErr *apperrors.ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 49, toolErr.ExitCode)
	assert.Equal(t, "ldap_bind: Invalid credentials (49)", toolErr.Stderr)
}

func TestListUsers_Timeout(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(&ldaptool.Result{ExitCode: -1}, apperrors.NewTimeoutError("ldapsearch", 10*time.Second))

	_, err := uc.ListUsers(context.Background(), "")

	var timeoutErr *apperrors.TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}

func TestListUsers_MalformedOutput(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(&ldaptool.Result{Stdout: "dn: cn=x\ngarbage line\n"}, nil)

	_, err := uc.ListUsers(context.Background(), "")

	var internalErr *apperrors.InternalError
	assert.True(t, errors.As(err, &internalErr))
}

func TestListUsers_ConcurrentCallsShareSearch(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	release := make(chan struct{})
	searcher.On("Search", mock.Anything, "objectClass=inetOrgPerson", personAttributes).
		Run(func(mock.Arguments) { <-release }).
		Return(&ldaptool.Result{Stdout: searchOutput}, nil).
		Once()

	const callers = 5
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			people, err := uc.ListUsers(context.Background(), "")
			if err == nil {
				results[i] = len(people)
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, 2, n)
	}
	searcher.AssertNumberOfCalls(t, "Search", 1)
}

// blockingSearcher holds every search until release is closed and fails
// searches whose context was cancelled in the meantime.
type blockingSearcher struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (s *blockingSearcher) Search(ctx context.Context, _ string, _ ...string) (*ldaptool.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewToolError("ldapsearch", -1, "", err)
	}
	return &ldaptool.Result{Stdout: searchOutput}, nil
}

func (s *blockingSearcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestListUsers_CancelledCallerDoesNotFailOthers(t *testing.T) {
	searcher := &blockingSearcher{release: make(chan struct{})}
	uc := New(searcher, zaptest.NewLogger(t))

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := uc.ListUsers(ctxA, "")
		errA <- err
	}()

	require.Eventually(t, func() bool { return searcher.Calls() == 1 }, time.Second, 5*time.Millisecond)

	type outcome struct {
		people int
		err    error
	}
	resB := make(chan outcome, 1)
	go func() {
		people, err := uc.ListUsers(context.Background(), "")
		resB <- outcome{len(people), err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(searcher.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 2, b.people)
	assert.Equal(t, 1, searcher.Calls())
}

func TestGetUser_Success(t *testing.T) {
	uc, searcher := setupTestUsecase(t)
	ctx := context.Background()

	searcher.On("Search", mock.Anything, UIDFilter("user1"), personAttributes).
		Return(&ldaptool.Result{Stdout: searchOutput}, nil)

	p, err := uc.GetUser(ctx, "user1")

	require.NoError(t, err)
	assert.Equal(t, "user1", p.UID)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, searcher := setupTestUsecase(t)

	searcher.On("Search", mock.Anything, UIDFilter("user999"), mock.Anything).
		Return(&ldaptool.Result{Stdout: ""}, nil)

	_, err := uc.GetUser(context.Background(), "user999")

	var notFound *apperrors.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "uid=user999")
}

func TestGetUser_EmptyUID(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	_, err := uc.GetUser(context.Background(), "  ")

	var validationErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
