package credentials_test

import (
	"context"
	"sync"

	credentials "github.com/campkit/go-credentials"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory UserStore used to exercise the service
// without a database. Records are cloned on the way in and out so tests
// observe persisted state, not shared pointers.
type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*credentials.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[uuid.UUID]*credentials.User{}}
}

func cloneUser(u *credentials.User) *credentials.User {
	c := *u
	if u.ResetTokenExpireAt != nil {
		t := *u.ResetTokenExpireAt
		c.ResetTokenExpireAt = &t
	}
	return &c
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*credentials.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, credentials.ErrAccountNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[uid]; ok {
		return cloneUser(u), nil
	}
	return nil, credentials.ErrAccountNotFound
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*credentials.User, error) {
	email = credentials.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, credentials.ErrAccountNotFound
}

func (s *memoryStore) FindByConfirmTokenHash(_ context.Context, hash string) (*credentials.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hash == "" {
		return nil, credentials.ErrAccountNotFound
	}
	for _, u := range s.users {
		if u.ConfirmTokenHash == hash && !u.IsEmailConfirmed {
			return cloneUser(u), nil
		}
	}
	return nil, credentials.ErrAccountNotFound
}

func (s *memoryStore) FindByResetTokenHash(_ context.Context, hash string) (*credentials.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hash == "" {
		return nil, credentials.ErrAccountNotFound
	}
	for _, u := range s.users {
		if u.ResetTokenHash == hash {
			return cloneUser(u), nil
		}
	}
	return nil, credentials.ErrAccountNotFound
}

func (s *memoryStore) Exists(_ context.Context, email string) (bool, error) {
	email = credentials.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Create(_ context.Context, user *credentials.User) (*credentials.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == credentials.NormalizeEmail(user.Email) {
			return nil, credentials.ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = credentials.NormalizeEmail(user.Email)
	s.users[user.ID] = cloneUser(user)

	return cloneUser(user), nil
}

func (s *memoryStore) Update(_ context.Context, user *credentials.User) (*credentials.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, credentials.ErrAccountNotFound
	}

	for _, u := range s.users {
		if u.ID != user.ID && u.Email == credentials.NormalizeEmail(user.Email) {
			return nil, credentials.ErrDuplicateEmail
		}
	}

	user.Email = credentials.NormalizeEmail(user.Email)
	s.users[user.ID] = cloneUser(user)

	return cloneUser(user), nil
}

// fakeMailer records outbound emails and can be primed to fail
type fakeMailer struct {
	mu   sync.Mutex
	sent []credentials.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg credentials.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastSent() credentials.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// MockMailer implements credentials.Mailer for expectation-style tests
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg credentials.Email) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// testConfig implements credentials.Config with direct fields
type testConfig struct {
	signingKey string
	tokenTTL   int
	resetTTL   int
	hashCost   int
	cookieDays int
	production bool
	strict     bool
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey: "test-signing-key",
		tokenTTL:   3600,
		resetTTL:   600,
		hashCost:   4,
		cookieDays: 30,
	}
}

func (c *testConfig) GetSigningKey() string { return c.signingKey }
func (c *testConfig) GetTokenTTL() int      { return c.tokenTTL }
func (c *testConfig) GetResetTokenTTL() int { return c.resetTTL }
func (c *testConfig) GetHashCost() int      { return c.hashCost }
func (c *testConfig) GetIssuer() string     { return "test-issuer" }
func (c *testConfig) GetCookieDays() int    { return c.cookieDays }
func (c *testConfig) GetScheme() string     { return "http" }
func (c *testConfig) GetHost() string       { return "localhost:5000" }
func (c *testConfig) IsProduction() bool    { return c.production }
func (c *testConfig) StrictEmail() bool     { return c.strict || c.production }
