package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/domain/user_file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
	"file-storage-api/internal/infrastructure/storage"
	"file-storage-api/internal/infrastructure/storage/local"
)

// memFiles mimics the user_files table including its unique constraints.
type memFiles struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]user_file.UserFile

	createErr error
}

func newMemFiles() *memFiles { return &memFiles{rows: map[int64]user_file.UserFile{}} }

func (m *memFiles) FetchUserFiles(_ context.Context, ownerID user.ID) (user_file.UserFiles, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(user_file.UserFiles, 0)
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *memFiles) FetchUserFileByID(_ context.Context, id int64) (*user_file.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memFiles) FetchUserFileByLink(_ context.Context, link uuid.UUID) (*user_file.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.SpecialLink == link {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memFiles) CreateUserFile(_ context.Context, req *user_file.UserFile) (*user_file.UserFile, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StoredName == req.StoredName || r.SpecialLink == req.SpecialLink {
			return nil, user_file.ErrDuplicateKey
		}
	}
	m.nextID++
	r := *req
	r.ID = m.nextID
	r.UploadDate = time.Now().UTC()
	m.rows[r.ID] = r
	return &r, nil
}

func (m *memFiles) update(id int64, fn func(r *user_file.UserFile)) (*user_file.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, user_file.ErrNotFound
	}
	fn(&r)
	m.rows[id] = r
	return &r, nil
}

func (m *memFiles) UpdateOriginalName(_ context.Context, id int64, name string) (*user_file.UserFile, error) {
	return m.update(id, func(r *user_file.UserFile) { r.OriginalName = name })
}

func (m *memFiles) UpdateComment(_ context.Context, id int64, comment string) (*user_file.UserFile, error) {
	return m.update(id, func(r *user_file.UserFile) { r.Comment = comment })
}

func (m *memFiles) TouchLastDownload(_ context.Context, id int64, at time.Time) error {
	_, err := m.update(id, func(r *user_file.UserFile) { r.LastDownload = &at })
	return err
}

func (m *memFiles) DeleteUserFile(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return user_file.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memFiles) DeleteUserFiles(_ context.Context, ownerID user.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.OwnerID == ownerID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memUsers mimics the users table; deleting a user cascades to files.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]user.User
	files  *memFiles
}

func newMemUsers(files *memFiles) *memUsers {
	return &memUsers{rows: map[int64]user.User{}, files: files}
}

func (m *memUsers) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FetchUserByUsername(_ context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FetchUsersUsage(ctx context.Context) (user.Usages, error) {
	m.mu.Lock()
	users := make([]user.User, 0, len(m.rows))
	for _, u := range m.rows {
		users = append(users, u)
	}
	m.mu.Unlock()

	out := make(user.Usages, 0, len(users))
	for _, u := range users {
		u := u
		files, _ := m.files.FetchUserFiles(ctx, u.ID)
		usage := &user.Usage{User: &u, FileCount: int64(len(files))}
		for _, f := range files {
			usage.TotalBytes += f.SizeBytes
		}
		out = append(out, usage)
	}
	return out, nil
}

func (m *memUsers) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == req.Username {
			return nil, user.ErrUsernameTaken
		}
		if u.Email == req.Email {
			return nil, user.ErrEmailTaken
		}
	}
	m.nextID++
	req.ID = m.nextID
	req.CreatedAt = time.Now().UTC()
	m.rows[req.ID] = req
	return &req, nil
}

func (m *memUsers) ToggleAdmin(_ context.Context, id user.ID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	u.IsAdmin = !u.IsAdmin
	m.rows[id] = u
	return &u, nil
}

func (m *memUsers) DeleteUser(ctx context.Context, id user.ID) (bool, error) {
	m.mu.Lock()
	_, ok := m.rows[id]
	delete(m.rows, id)
	m.mu.Unlock()
	if ok {
		_ = m.files.DeleteUserFiles(ctx, id)
	}
	return ok, nil
}

// put inserts a user directly, bypassing Register.
func (m *memUsers) put(username string, isAdmin bool) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := user.User{
		ID:          m.nextID,
		Username:    username,
		FullName:    username + " Test",
		Email:       username + "@x.com",
		IsAdmin:     isAdmin,
		IsActive:    true,
		StoragePath: uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}
	m.rows[u.ID] = u
	return &u
}

type recordedEvents struct {
	mu     sync.Mutex
	events []mq.Event
}

func (r *recordedEvents) Publish(e mq.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type env struct {
	root      string
	files     *memFiles
	users     *memUsers
	events    *recordedEvents
	allocator *storage.Allocator

	fileSvc ports.UserFileService
	userSvc ports.UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	backend, err := local.New(root)
	require.NoError(t, err)

	e := &env{root: root, files: newMemFiles(), events: &recordedEvents{}}
	e.users = newMemUsers(e.files)
	e.allocator = storage.NewAllocator(backend, zap.NewNop())

	counter := metrics.NewCounter(prometheus.NewRegistry())
	e.fileSvc = NewUserFileService(e.allocator, e.files, e.users, e.events, zap.NewNop(), counter)
	e.userSvc = NewUserService(e.users, e.allocator, e.fileSvc, e.events, zap.NewNop(), counter)
	e.userSvc.(*UserService).bcryptCost = bcrypt.MinCost

	return e
}

func actorOf(u *user.User) *access.Actor {
	return &access.Actor{ID: u.ID, IsAdmin: u.IsAdmin}
}
