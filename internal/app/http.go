package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio/api/internal/auth"
	"portfolio/api/internal/authz"
	"portfolio/api/internal/chat"
	"portfolio/api/internal/content"
	"portfolio/api/internal/nav"
	"portfolio/api/internal/util"
)

const visitorCookie = "portfolio_visitor"

// Draft uploads are embedded into the snapshot, so keep multipart memory
// usage in the same ballpark.
const maxUploadBytes = 16 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{}

		for name, err := range s.service.Readiness(ctx) {
			if err != nil {
				status = "not_ready"
				statusCode = http.StatusServiceUnavailable
				checks[name] = map[string]any{
					"status": "error",
					"error":  err.Error(),
				}
				continue
			}
			checks[name] = map[string]any{"status": "ok"}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleAuthSignIn(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/change-password" {
		s.handleChangePassword(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"userName":      session.UserName,
			"userId":        session.UserID,
			"email":         session.Email,
			"role":          session.Role,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(session))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		session := Session{}
		if token := bearerToken(r); token != "" {
			if parsed, err := s.service.SessionFromToken(r.Context(), token); err == nil {
				session = parsed
			}
		}
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), session, body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/sections" {
		s.handleListSections(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/nav" {
		s.handleNav(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/chat" {
		s.handleChat(w, r)
		return
	}

	if parts := splitPath(r.URL.Path); len(parts) >= 3 && parts[0] == "api" && parts[1] == "sections" {
		s.handleSection(w, r, parts[2], parts[3:])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleAuthSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.ChangePassword(r.Context(), session, body.CurrentPassword, body.NewPassword); err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleListSections serves the ordered navigation list. With from/direction
// query parameters it also resolves the directional jump target.
func (s *HTTPServer) handleListSections(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"sections": s.service.Sections()}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	rawDir := strings.TrimSpace(r.URL.Query().Get("direction"))
	if from != "" && rawDir != "" {
		dir, ok := nav.ParseDirection(rawDir)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "direction must be up, down, left, or right", nil)
			return
		}
		next, moved := nav.Advance(s.service.SectionOrder(), from, dir)
		payload["next"] = next
		payload["moved"] = moved
	}

	writeJSON(w, http.StatusOK, payload)
}

// handleNav resolves the active section for a reported scroll position. The
// client measures its own layout; the server owns the midpoint rule.
func (s *HTTPServer) handleNav(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Regions []struct {
			Key    string  `json:"key"`
			Top    float64 `json:"top"`
			Bottom float64 `json:"bottom"`
		} `json:"regions"`
		ScrollY        float64 `json:"scrollY"`
		ViewportHeight float64 `json:"viewportHeight"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	regions := make([]nav.Region, len(body.Regions))
	for i, region := range body.Regions {
		regions[i] = nav.Region{Key: region.Key, Top: region.Top, Bottom: region.Bottom}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active": nav.Active(regions, body.ScrollY, body.ViewportHeight),
	})
}

func (s *HTTPServer) handleSection(w http.ResponseWriter, r *http.Request, sectionKey string, rest []string) {
	session := s.optionalSession(r)
	viewer := s.service.Viewer(session, s.visitorID(w, r))
	ctx := r.Context()

	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		items, err := s.service.LoadSection(ctx, sectionKey, viewer)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return

	case len(rest) == 1 && rest[0] == "items" && r.Method == http.MethodPost:
		var body struct {
			Fields map[string]string `json:"fields"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		items, err := s.service.AddItem(ctx, sectionKey, viewer, content.Item{Fields: body.Fields})
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"items": items})
		return

	case len(rest) == 2 && rest[0] == "items" && r.Method == http.MethodPut:
		var body struct {
			Fields map[string]string `json:"fields"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		items, err := s.service.EditItem(ctx, sectionKey, viewer, rest[1], body.Fields)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return

	case len(rest) == 2 && rest[0] == "items" && r.Method == http.MethodDelete:
		outcome, items, err := s.service.DeleteItem(ctx, sectionKey, viewer, rest[1])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":         items,
			"assetOrphaned": outcome == content.DeleteOrphanedBlob,
		})
		return

	case len(rest) == 3 && rest[0] == "items" && rest[2] == "asset" && r.Method == http.MethodPost:
		s.handleAttachAsset(w, r, sectionKey, rest[1], viewer)
		return

	case len(rest) == 3 && rest[0] == "items" && rest[2] == "asset" && r.Method == http.MethodDelete:
		items, err := s.service.DetachAsset(ctx, sectionKey, viewer, rest[1])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return

	case len(rest) == 1 && rest[0] == "draft" && r.Method == http.MethodPut:
		var body struct {
			Items []content.Item `json:"items"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SaveDraft(ctx, sectionKey, viewer.ViewerID, body.Items); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleAttachAsset(w http.ResponseWriter, r *http.Request, sectionKey, itemID string, viewer authz.Context) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "multipart form required", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "file field is required", nil)
		return
	}
	defer file.Close()

	items, err := s.service.AttachAsset(r.Context(), sectionKey, viewer, itemID, header.Filename, file, header.Size)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleChat proxies one conversation to the model gateway and relays its
// event stream. Gateway failures surface as JSON with the visitor-facing
// message; nothing from the credential or raw gateway body leaks through.
func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if len(body.Messages) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "messages are required", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	out := &countingWriter{w: w}
	err := s.service.ChatStream(r.Context(), body.Messages, out)
	if err == nil {
		return
	}
	if out.n > 0 {
		// The stream already started; all we can do is drop the connection.
		log.Printf("chat relay interrupted: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	var gatewayErr *chat.GatewayError
	if errors.As(err, &gatewayErr) {
		status := http.StatusInternalServerError
		if gatewayErr.RateLimited() || gatewayErr.PaymentRequired() {
			status = gatewayErr.Status
		}
		writeError(w, status, "CHAT_GATEWAY_ERROR", gatewayErr.UserMessage(), nil)
		return
	}
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}

type countingWriter struct {
	w http.ResponseWriter
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if flusher, ok := c.w.(http.Flusher); ok {
		flusher.Flush()
	}
	return n, err
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	return session, true
}

// optionalSession resolves the bearer token when present. Content reads are
// public, so a missing or invalid token just means an anonymous viewer.
func (s *HTTPServer) optionalSession(r *http.Request) Session {
	token := bearerToken(r)
	if token == "" {
		return Session{}
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		return Session{}
	}
	return session
}

// visitorID returns the caller's draft identity, minting the cookie on first
// contact.
func (s *HTTPServer) visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(visitorCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := util.NewID("vis")
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func sessionPayload(session Session) map[string]any {
	return map[string]any{
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"userName":     session.UserName,
		"userId":       session.UserID,
		"email":        session.Email,
		"role":         session.Role,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, content.ErrValidation) {
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil
	}
	if errors.Is(err, content.ErrNotOwner) {
		return http.StatusForbidden, "FORBIDDEN", "Forbidden", nil
	}
	if errors.Is(err, content.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
