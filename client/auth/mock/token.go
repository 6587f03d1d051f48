package mock

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/viant/exchange/schema"
)

var passwordRules = []*regexp.Regexp{
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`),
}

// defaultTokenHandler handles the form encoded password login
func (s *Service) defaultTokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	username := r.PostFormValue("username")
	s.mu.Lock()
	anAccount, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok || anAccount.password != r.PostFormValue("password") {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	accessToken, err := s.createJWT(username, accessTokenType, s.AccessTokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Server error")
		return
	}
	refreshToken, err := s.createJWT(username, refreshTokenType, s.RefreshTokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, &schema.Token{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"})
}

// defaultRefreshHandler exchanges a JSON refresh credential for an access credential
func (s *Service) defaultRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request schema.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid refresh request")
		return
	}
	username, id, ok := s.parseJWT(request.RefreshToken, refreshTokenType)
	if ok && s.SingleUseRefresh {
		s.mu.Lock()
		if _, used := s.used.Get(id); used {
			ok = false
		} else {
			s.used.Put(id, true)
		}
		s.mu.Unlock()
	}
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	accessToken, err := s.createJWT(username, accessTokenType, s.AccessTokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, &schema.Token{AccessToken: accessToken, TokenType: "bearer"})
}

// defaultRegisterHandler creates an account and its vendor profile
func (s *Service) defaultRegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var credentials schema.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil || credentials.Username == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid registration request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[credentials.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if !validPassword(credentials.Password) {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long, contain at least one uppercase letter, one lowercase letter, one digit, and one special character.")
		return
	}
	writeJSON(w, http.StatusOK, s.addUser(credentials.Username, credentials.Password))
}

// authenticate resolves the bearer access credential to an account
func (s *Service) authenticate(r *http.Request) (*account, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil, false
	}
	username, _, ok := s.parseJWT(raw, accessTokenType)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	anAccount, ok := s.accounts[username]
	return anAccount, ok
}

func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	for _, rule := range passwordRules {
		if !rule.MatchString(password) {
			return false
		}
	}
	return true
}
