package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
)

// fakeTokenRepo mirrors the Postgres repository semantics in memory.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]models.Token
	err    error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uuid.UUID]models.Token{}}
}

var _ repositories.TokenRepository = (*fakeTokenRepo)(nil)

func (f *fakeTokenRepo) insertLocked(t *models.Token) error {
	for _, existing := range f.tokens {
		if existing.Token == t.Token {
			return repositories.ErrTokenConflict
		}
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	f.tokens[t.ID] = *t
	return nil
}

func (f *fakeTokenRepo) CreateToken(_ context.Context, t *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return f.insertLocked(t)
}

func (f *fakeTokenRepo) GetByToken(_ context.Context, raw string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tokens {
		if t.Token == raw {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) DeleteByID(_ context.Context, id uuid.UUID) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tokens[id]
	if !ok {
		return nil, nil
	}
	delete(f.tokens, id)
	return &t, nil
}

func (f *fakeTokenRepo) deleteByOwnerAndTypeLocked(ownerID uuid.UUID, tokenType string) int64 {
	var n int64
	for id, t := range f.tokens {
		if t.OwnedByID == ownerID && t.Type == tokenType {
			delete(f.tokens, id)
			n++
		}
	}
	return n
}

func (f *fakeTokenRepo) DeleteByOwnerAndType(_ context.Context, ownerID uuid.UUID, tokenType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.deleteByOwnerAndTypeLocked(ownerID, tokenType), nil
}

func (f *fakeTokenRepo) ReplaceOwnerToken(_ context.Context, t *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleteByOwnerAndTypeLocked(t.OwnedByID, t.Type)
	return f.insertLocked(t)
}

func (f *fakeTokenRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for id, t := range f.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokenRepo) put(t models.Token) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.ID] = t
}

func (f *fakeTokenRepo) all() []models.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Token, 0, len(f.tokens))
	for _, t := range f.tokens {
		out = append(out, t)
	}
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	err   error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type sentReset struct {
	to   string
	link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentReset
	err  error
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentReset{to: to, link: link})
	return nil
}
