package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
	"NOTEHUB_BACK-END/internal/utils"
)

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return nil, errs.ErrAlreadyExists
		}
	}
	u.Name = name
	u.Email = email
	r.users[id] = u
	return &u, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

// memNoteRepo is an in-memory NoteRepository for handler tests.
type memNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]models.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[uuid.UUID]models.Note)}
}

func (r *memNoteRepo) Create(_ context.Context, n *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[n.ID] = *n
	return nil
}

func (r *memNoteRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Note, 0)
	for _, n := range r.notes {
		if n.UserID == ownerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &n, nil
}

func (r *memNoteRepo) Update(_ context.Context, n *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[n.ID]; !ok {
		return errs.ErrNotFound
	}
	r.notes[n.ID] = *n
	return nil
}

func (r *memNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

// memVerificationRepo is an in-memory VerificationRepository for handler tests.
type memVerificationRepo struct {
	mu    sync.Mutex
	codes []models.Verification
	users *memUserRepo
}

func newMemVerificationRepo(users *memUserRepo) *memVerificationRepo {
	return &memVerificationRepo{users: users}
}

func (r *memVerificationRepo) Create(_ context.Context, v *models.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, *v)
	return nil
}

func (r *memVerificationRepo) Latest(_ context.Context, userID uuid.UUID, email string) (*models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.codes) - 1; i >= 0; i-- {
		if r.codes[i].UserID == userID && r.codes[i].Email == email {
			v := r.codes[i]
			return &v, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *memVerificationRepo) LatestActive(_ context.Context, userID uuid.UUID) (*models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.codes) - 1; i >= 0; i-- {
		v := r.codes[i]
		if v.UserID == userID && !v.Used && v.ExpiresAt.After(time.Now()) {
			return &v, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *memVerificationRepo) Consume(ctx context.Context, verificationID, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	for i := range r.codes {
		if r.codes[i].ID == verificationID {
			r.codes[i].Used = true
		}
	}
	r.mu.Unlock()
	return r.users.UpdatePassword(ctx, userID, passwordHash)
}

// Request helpers

func newJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authed(req *http.Request, userID uuid.UUID, email string) *http.Request {
	return req.WithContext(utils.WithUser(req.Context(), userID, email))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[map[string]string](t, rec)
	return body["message"]
}
