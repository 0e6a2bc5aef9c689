package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio/api/internal/authpw"
	"portfolio/api/internal/authz"
	"portfolio/api/internal/chat"
	"portfolio/api/internal/config"
	"portfolio/api/internal/content"
	"portfolio/api/internal/store"
)

type refreshRow struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]store.User
	sessions map[string]refreshRow
	revoked  map[string]bool
	pingFn   func(context.Context) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]store.User{},
		sessions: map[string]refreshRow{},
		revoked:  map[string]bool{},
	}
}

func (f *fakeStore) addOwner(t *testing.T, email, password string) store.User {
	t.Helper()
	hash, err := authpw.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := store.User{ID: "usr_owner", Email: email, Name: "Owner", PasswordHash: hash, Role: "owner"}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) EnsureOwner(_ context.Context, email, name, passwordHash string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	user := store.User{ID: fmt.Sprintf("usr_%d", len(f.users)+1), Email: email, Name: name, PasswordHash: passwordHash, Role: "owner"}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return store.User{}, errors.New("no rows")
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.User{}, errors.New("no rows")
	}
	return user, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no rows")
	}
	user.PasswordHash = passwordHash
	f.users[userID] = user
	return nil
}

func (f *fakeStore) SaveRefreshSession(_ context.Context, tokenHash, userID string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[tokenHash] = refreshRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) LookupRefreshSession(_ context.Context, tokenHash string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.sessions[tokenHash]
	if !ok || row.revoked || time.Now().After(row.expiresAt) {
		return store.User{}, errors.New("no rows")
	}
	user, ok := f.users[row.userID]
	if !ok {
		return store.User{}, errors.New("no rows")
	}
	return user, nil
}

func (f *fakeStore) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := f.sessions[tokenHash]
	row.revoked = true
	f.sessions[tokenHash] = row
	return nil
}

func (f *fakeStore) RevokeAccessToken(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
	return nil
}

func (f *fakeStore) IsAccessTokenRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

// In-memory content stores backing the reconciler in tests.

type memRecords struct {
	mu     sync.Mutex
	items  map[string][]content.Item
	nextID int
}

func newMemRecords() *memRecords {
	return &memRecords{items: map[string][]content.Item{}}
}

func (m *memRecords) ListItems(_ context.Context, section content.Section) ([]content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]content.Item(nil), m.items[section.Key]...), nil
}

func (m *memRecords) GetItem(_ context.Context, section content.Section, itemID string) (content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items[section.Key] {
		if item.ID == itemID {
			return item, nil
		}
	}
	if section.Mode == content.StorageSnapshot {
		for _, item := range section.DefaultItems() {
			if item.ID == itemID {
				return item, nil
			}
		}
	}
	return content.Item{}, content.ErrNotFound
}

func (m *memRecords) InsertItem(_ context.Context, section content.Section, _ string, item content.Item) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = fmt.Sprintf("row-%d", m.nextID)
	m.items[section.Key] = append(m.items[section.Key], item)
	return item.ID, nil
}

func (m *memRecords) UpdateItemFields(_ context.Context, section content.Section, itemID string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items[section.Key] {
		if item.ID == itemID {
			m.items[section.Key][i].Fields = fields
			return nil
		}
	}
	return content.ErrNotFound
}

func (m *memRecords) UpdateItemAsset(_ context.Context, section content.Section, itemID string, asset *content.AssetRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items[section.Key] {
		if item.ID == itemID {
			m.items[section.Key][i].Asset = asset
			return nil
		}
	}
	return content.ErrNotFound
}

func (m *memRecords) DeleteItem(_ context.Context, section content.Section, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.items[section.Key]
	for i, item := range rows {
		if item.ID == itemID {
			m.items[section.Key] = append(rows[:i:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	removeErr error
	pingErr   error
}

func (m *memBlobs) Ping(context.Context) error { return m.pingErr }

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (m *memBlobs) Put(_ context.Context, bucket, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return m.PublicURL(bucket, key), nil
}

func (m *memBlobs) Remove(_ context.Context, bucket, key string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memBlobs) PublicURL(bucket, key string) string {
	return "https://blobs.test/" + bucket + "/" + key
}

func (m *memBlobs) KeyFromURL(rawURL string) (string, string, bool) {
	rest, ok := strings.CutPrefix(rawURL, "https://blobs.test/")
	if !ok {
		return "", "", false
	}
	bucket, key, ok := strings.Cut(rest, "/")
	return bucket, key, ok
}

type memDrafts struct {
	mu        sync.Mutex
	snapshots map[string][]content.Item
	pingErr   error
}

func (m *memDrafts) Ping(context.Context) error { return m.pingErr }

func newMemDrafts() *memDrafts {
	return &memDrafts{snapshots: map[string][]content.Item{}}
}

func (m *memDrafts) Load(_ context.Context, visitorID, sectionKey string) ([]content.Item, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.snapshots[visitorID+"|"+sectionKey]
	return items, ok, nil
}

func (m *memDrafts) Save(_ context.Context, visitorID, sectionKey string, items []content.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[visitorID+"|"+sectionKey] = items
	return nil
}

func (m *memDrafts) Discard(_ context.Context, visitorID, sectionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, visitorID+"|"+sectionKey)
	return nil
}

type fakeChat struct {
	enabled bool
	output  string
	err     error
	got     []chat.Message
}

func (f *fakeChat) Enabled() bool { return f.enabled }

func (f *fakeChat) Stream(_ context.Context, messages []chat.Message, w io.Writer) error {
	f.got = messages
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.output)
	return err
}

type testEnv struct {
	service *Service
	store   *fakeStore
	records *memRecords
	blobs   *memBlobs
	drafts  *memDrafts
	chat    *fakeChat
}

func newTestEnv() *testEnv {
	fs := newFakeStore()
	records := newMemRecords()
	blobs := newMemBlobs()
	drafts := newMemDrafts()
	chatFake := &fakeChat{enabled: true, output: "data: [DONE]\n\n"}

	cfg := config.Config{
		JWTSecret:     "test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    720 * time.Hour,
		OwnerEmail:    "owner@example.com",
		OwnerName:     "Owner",
		OwnerPassword: "correct horse battery",
	}
	svc := &Service{
		cfg:        cfg,
		store:      fs,
		passwords:  authpw.NewService(fs),
		reconciler: content.New(records, blobs, drafts),
		chat:       chatFake,
		drafts:     drafts,
		blobs:      blobs,
	}
	return &testEnv{service: svc, store: fs, records: records, blobs: blobs, drafts: drafts, chat: chatFake}
}

func TestBootstrapSeedsOwner(t *testing.T) {
	env := newTestEnv()

	if err := env.service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	user, err := env.store.GetUserByEmail(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("owner was not seeded: %v", err)
	}
	if user.Role != "owner" {
		t.Errorf("seeded role = %q", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct horse battery" {
		t.Errorf("password was not hashed")
	}
}

func TestBootstrapWithoutPasswordSkipsSeeding(t *testing.T) {
	env := newTestEnv()
	env.service.cfg.OwnerPassword = ""

	if err := env.service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(env.store.users) != 0 {
		t.Errorf("owner was seeded without a configured password")
	}
}

func TestSignInIssuesWorkingSession(t *testing.T) {
	env := newTestEnv()
	env.store.addOwner(t, "owner@example.com", "correct horse battery")

	ctx := context.Background()
	session, err := env.service.SignIn(ctx, "owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.Token == "" || session.RefreshToken == "" {
		t.Fatal("session is missing tokens")
	}
	if session.Role != "owner" {
		t.Errorf("session role = %q", session.Role)
	}

	parsed, err := env.service.SessionFromToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if parsed.UserID != session.UserID || parsed.Email != "owner@example.com" {
		t.Errorf("round-tripped session = %+v", parsed)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	env.store.addOwner(t, "owner@example.com", "correct horse battery")

	_, err := env.service.SignIn(context.Background(), "owner@example.com", "wrong")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 401 {
		t.Fatalf("err = %v, want 401 domain error", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv()
	env.store.addOwner(t, "owner@example.com", "correct horse battery")

	ctx := context.Background()
	first, err := env.service.SignIn(ctx, "owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	second, err := env.service.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	if _, err := env.service.Refresh(ctx, first.RefreshToken); err == nil {
		t.Error("old refresh token still accepted")
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	env := newTestEnv()
	env.store.addOwner(t, "owner@example.com", "correct horse battery")

	ctx := context.Background()
	session, err := env.service.SignIn(ctx, "owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := env.service.Logout(ctx, session, session.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := env.service.SessionFromToken(ctx, session.Token); err == nil {
		t.Error("access token still valid after logout")
	}
	if _, err := env.service.Refresh(ctx, session.RefreshToken); err == nil {
		t.Error("refresh token still valid after logout")
	}
}

func TestViewerResolution(t *testing.T) {
	env := newTestEnv()

	viewer := env.service.Viewer(Session{UserID: "usr_1", Role: "owner"}, "vis-1")
	if !viewer.CanEdit() || viewer.ViewerID != "usr_1" {
		t.Errorf("owner session resolved to %+v", viewer)
	}

	viewer = env.service.Viewer(Session{}, "vis-1")
	if viewer.CanEdit() || viewer.ViewerID != "vis-1" {
		t.Errorf("anonymous request resolved to %+v", viewer)
	}

	// An unexpected role never escalates.
	viewer = env.service.Viewer(Session{UserID: "usr_1", Role: "admin"}, "vis-1")
	if viewer.CanEdit() {
		t.Errorf("unknown role resolved to editor: %+v", viewer)
	}
}

func TestSectionsOrder(t *testing.T) {
	env := newTestEnv()

	order := env.service.SectionOrder()
	if len(order) == 0 || order[0] != "home" {
		t.Fatalf("section order = %v", order)
	}
	infos := env.service.Sections()
	if len(infos) != len(order) {
		t.Fatalf("Sections() and SectionOrder() disagree: %d vs %d", len(infos), len(order))
	}
	for i, info := range infos {
		if info.Key != order[i] {
			t.Errorf("infos[%d].Key = %q, want %q", i, info.Key, order[i])
		}
		if info.Label == "" {
			t.Errorf("section %q has no label", info.Key)
		}
	}
}

func TestLoadSectionUnknownKey(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.LoadSection(context.Background(), "blog", authz.Visitor("vis-1"))
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("err = %v, want 404 domain error", err)
	}
}

func TestChatStreamDisabled(t *testing.T) {
	env := newTestEnv()
	env.chat.enabled = false

	err := env.service.ChatStream(context.Background(), []chat.Message{{Role: "user", Content: "hi"}}, io.Discard)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 503 {
		t.Fatalf("err = %v, want 503 domain error", err)
	}
}

func TestChatStreamDropsErrorTurns(t *testing.T) {
	env := newTestEnv()

	messages := []chat.Message{
		{Role: "user", Content: "hi"},
		{Role: "error", Content: "Rate limits exceeded, please try again later."},
		{Role: "assistant", Content: "hello"},
	}
	if err := env.service.ChatStream(context.Background(), messages, io.Discard); err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if len(env.chat.got) != 2 {
		t.Fatalf("forwarded %d messages, want 2: %v", len(env.chat.got), env.chat.got)
	}
	for _, msg := range env.chat.got {
		if msg.Role != "user" && msg.Role != "assistant" {
			t.Errorf("turn with role %q reached the gateway", msg.Role)
		}
	}
}

func TestChatStreamOnlyErrorTurns(t *testing.T) {
	env := newTestEnv()

	messages := []chat.Message{{Role: "error", Content: "AI gateway error"}}
	err := env.service.ChatStream(context.Background(), messages, io.Discard)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 422 {
		t.Fatalf("err = %v, want 422 domain error", err)
	}
	if env.chat.got != nil {
		t.Errorf("gateway was called with %v", env.chat.got)
	}
}

func TestReadinessProbesAllStores(t *testing.T) {
	env := newTestEnv()

	checks := env.service.Readiness(context.Background())
	for _, name := range []string{"database", "redis", "blobs"} {
		if err, ok := checks[name]; !ok || err != nil {
			t.Errorf("check %q = %v, %v", name, err, ok)
		}
	}
}
