package handler_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/paragraph-titler/internal/model"
	"github.com/iliyamo/paragraph-titler/internal/repository"
	"github.com/iliyamo/paragraph-titler/internal/titler"
	"github.com/iliyamo/paragraph-titler/internal/utils"
)

// fakeUserStore is an in-memory UserStore with the same observable
// behavior as repository.UserRepo: unique username/email, active-only
// lookups, sql.ErrNoRows for absent rows.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, username, email, password string, firstName, lastName *string, cost int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrUserExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.nextID++
	s.users[s.nextID] = model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username && u.IsActive {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsActive {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeUserStore) TouchLastLogin(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) deactivate(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.IsActive = false
	s.users[id] = u
}

// fakeResultStore mirrors repository.ResultRepo: newest-first pages,
// empty slice past the end, owner-scoped delete with sql.ErrNoRows.
type fakeResultStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.SavedResult
}

func newFakeResultStore() *fakeResultStore { return &fakeResultStore{} }

func (s *fakeResultStore) Save(_ context.Context, rec model.SavedResult) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rec.ID = s.nextID
	rec.CreatedAt = time.Now().UTC()
	s.rows = append(s.rows, rec)
	return rec.ID, nil
}

func (s *fakeResultStore) ListByUser(_ context.Context, userID uint64, limit, offset int) ([]model.SavedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := make([]model.SavedResult, 0)
	for _, r := range s.rows {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
	if offset >= len(mine) {
		return []model.SavedResult{}, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func (s *fakeResultStore) CountByUser(_ context.Context, userID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeResultStore) DeleteByIDAndUser(_ context.Context, resultID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == resultID && r.UserID == userID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// stubGenerator is a deterministic stand-in for the model wrapper: the
// title is the first four words of the paragraph.  It enforces the same
// pre-call validation as titler.Client so handler tests observe the real
// sentinel errors.
type stubGenerator struct {
	err error // forced failure when non-nil
}

func (g *stubGenerator) Generate(_ context.Context, paragraph string, maxLen, minLen int) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if strings.TrimSpace(paragraph) == "" {
		return "", titler.ErrEmptyParagraph
	}
	if minLen > maxLen {
		return "", titler.ErrInvalidRange
	}
	words := strings.Fields(paragraph)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " "), nil
}

func (g *stubGenerator) Model() string { return "stub-model" }
