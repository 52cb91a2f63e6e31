package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gopherblog/internal/model"
	"gopherblog/internal/pkg/jwtutil"
	"gopherblog/internal/platform/sqlite"
	"gopherblog/internal/repository"
)

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.AuthEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) kinds() []model.AuthEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]model.AuthEventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type testEnv struct {
	db     *gorm.DB
	clock  *fakeClock
	tokens *jwtutil.Manager
	users  *repository.UserRepository
	posts  *repository.PostRepository
	events *recordingPublisher
	auth   *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens, err := jwtutil.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	tokens.WithClock(clock.Now)

	users := repository.NewUserRepository(db)
	events := &recordingPublisher{}
	return &testEnv{
		db:     db,
		clock:  clock,
		tokens: tokens,
		users:  users,
		posts:  repository.NewPostRepository(db),
		events: events,
		auth:   NewAuthService(users, tokens, events),
	}
}

func (e *testEnv) signup(t *testing.T, name, email, pass string) *model.User {
	t.Helper()
	user, err := e.auth.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: pass})
	require.NoError(t, err)
	return user
}

func (e *testEnv) login(t *testing.T, email, pass string) *LoginResult {
	t.Helper()
	result, err := e.auth.Login(context.Background(), LoginInput{Email: email, Password: pass})
	require.NoError(t, err)
	return result
}

// failUpdates makes every UPDATE statement on db fail.
func failUpdates(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("update refused"))
	})
	require.NoError(t, err)
}
