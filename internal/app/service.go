package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"portfolio/api/internal/auth"
	"portfolio/api/internal/authpw"
	"portfolio/api/internal/authz"
	"portfolio/api/internal/blob"
	"portfolio/api/internal/chat"
	"portfolio/api/internal/config"
	"portfolio/api/internal/content"
	"portfolio/api/internal/draft"
	"portfolio/api/internal/store"
	"portfolio/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Email        string
	Role         string
	JTI          string
	ExpiresAt    time.Time
}

// SectionInfo is one entry of the ordered navigation list.
type SectionInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type dataStore interface {
	EnsureOwner(ctx context.Context, email, name, passwordHash string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id string) (store.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
	Ping(ctx context.Context) error
}

type chatClient interface {
	Enabled() bool
	Stream(ctx context.Context, messages []chat.Message, w io.Writer) error
}

// pinger is the reachability check each backing service exposes.
type pinger interface {
	Ping(ctx context.Context) error
}

type Service struct {
	cfg        config.Config
	store      dataStore
	passwords  *authpw.Service
	reconciler *content.Reconciler
	chat       chatClient
	drafts     pinger
	blobs      pinger
}

func New(cfg config.Config, dataStore *store.PostgresStore, draftStore *draft.RedisStore, blobStore *blob.Store, reconciler *content.Reconciler, chatClient *chat.Client) *Service {
	svc := &Service{
		cfg:        cfg,
		store:      dataStore,
		passwords:  authpw.NewService(dataStore),
		reconciler: reconciler,
	}
	if chatClient != nil {
		svc.chat = chatClient
	}
	if draftStore != nil {
		svc.drafts = draftStore
	}
	if blobStore != nil {
		svc.blobs = blobStore
	}
	return svc
}

// Bootstrap seeds the owner account from configuration. Without a configured
// owner password the site runs read-only: sign-in stays disabled and every
// request is treated as a visitor.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.cfg.OwnerPassword == "" {
		log.Printf("owner password not configured, sign-in disabled")
		return nil
	}
	hash, err := authpw.HashPassword(s.cfg.OwnerPassword)
	if err != nil {
		return err
	}
	owner, err := s.store.EnsureOwner(ctx, s.cfg.OwnerEmail, s.cfg.OwnerName, hash)
	if err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	log.Printf("owner account ready: %s", owner.Email)
	return nil
}

// Readiness probes every backing service the process depends on. Checks for
// stores that were not wired in (tests, partial configurations) are omitted
// rather than reported failing.
func (s *Service) Readiness(ctx context.Context) map[string]error {
	checks := map[string]error{
		"database": s.store.Ping(ctx),
	}
	if s.drafts != nil {
		checks["redis"] = s.drafts.Ping(ctx)
	}
	if s.blobs != nil {
		checks["blobs"] = s.blobs.Ping(ctx)
	}
	return checks
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if s.cfg.OwnerPassword == "" {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Sign-in is not configured", nil)
	}
	user, err := s.passwords.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.store.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.store.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.Name,
		Email:        user.Email,
		Role:         user.Role,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.Name,
		Email:     user.Email,
		Role:      user.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.store.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, session Session, current, next string) error {
	if authz.Normalize(session.Role) != authz.RoleOwner || session.UserID == "" {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if err := s.passwords.ChangePassword(ctx, session.UserID, current, next); err != nil {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	}
	return nil
}

// Viewer resolves the authorization context for one request. A valid owner
// session edits; everything else reads through the visitor's draft identity.
func (s *Service) Viewer(session Session, visitorID string) authz.Context {
	if session.UserID != "" && authz.Normalize(session.Role) == authz.RoleOwner {
		return authz.Owner(session.UserID)
	}
	return authz.Visitor(visitorID)
}

// Sections returns the navigation list in page order.
func (s *Service) Sections() []SectionInfo {
	sections := content.Sections()
	infos := make([]SectionInfo, len(sections))
	for i, section := range sections {
		infos[i] = SectionInfo{Key: section.Key, Label: section.Label}
	}
	return infos
}

// SectionOrder returns just the ordered keys, for directional navigation.
func (s *Service) SectionOrder() []string {
	sections := content.Sections()
	keys := make([]string, len(sections))
	for i, section := range sections {
		keys[i] = section.Key
	}
	return keys
}

func (s *Service) section(key string) (content.Section, error) {
	section, ok := content.Lookup(key)
	if !ok {
		return content.Section{}, domainError(http.StatusNotFound, "SECTION_NOT_FOUND", "Unknown section", map[string]any{"section": key})
	}
	return section, nil
}

func (s *Service) LoadSection(ctx context.Context, key string, viewer authz.Context) ([]content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Load(ctx, section, viewer)
}

func (s *Service) AddItem(ctx context.Context, key string, viewer authz.Context, item content.Item) ([]content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Add(ctx, section, viewer, item)
}

func (s *Service) EditItem(ctx context.Context, key string, viewer authz.Context, itemID string, fields map[string]string) ([]content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Edit(ctx, section, viewer, itemID, fields)
}

func (s *Service) DeleteItem(ctx context.Context, key string, viewer authz.Context, itemID string) (content.DeleteOutcome, []content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return content.DeleteClean, nil, err
	}
	return s.reconciler.Delete(ctx, section, viewer, itemID)
}

func (s *Service) AttachAsset(ctx context.Context, key string, viewer authz.Context, itemID, filename string, body io.Reader, size int64) ([]content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return nil, err
	}
	return s.reconciler.AttachAsset(ctx, section, viewer, itemID, filename, body, size)
}

func (s *Service) DetachAsset(ctx context.Context, key string, viewer authz.Context, itemID string) ([]content.Item, error) {
	section, err := s.section(key)
	if err != nil {
		return nil, err
	}
	return s.reconciler.DetachAsset(ctx, section, viewer, itemID)
}

func (s *Service) SaveDraft(ctx context.Context, key, visitorID string, items []content.Item) error {
	section, err := s.section(key)
	if err != nil {
		return err
	}
	return s.reconciler.SaveDraft(ctx, section, visitorID, items)
}

func (s *Service) ChatEnabled() bool {
	return s.chat != nil && s.chat.Enabled()
}

// ChatStream relays one conversation to the model gateway, streaming the
// completion to w.
// ChatStream relays one transcript to the model gateway. The wire transcript
// is rebuilt through a Conversation so error turns the widget rendered after
// a failed call are dropped before anything leaves the server.
func (s *Service) ChatStream(ctx context.Context, messages []chat.Message, w io.Writer) error {
	if !s.ChatEnabled() {
		return domainError(http.StatusServiceUnavailable, "CHAT_UNAVAILABLE", "Chat is not configured", nil)
	}
	conv := &chat.Conversation{}
	for _, msg := range messages {
		switch chat.EntryKind(msg.Role) {
		case chat.EntryUser:
			conv.AddUser(msg.Content)
		case chat.EntryAssistant:
			conv.AddAssistant(msg.Content)
		}
	}
	outbound := conv.Messages()
	if len(outbound) == 0 {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "messages are required", nil)
	}
	return s.chat.Stream(ctx, outbound, w)
}
