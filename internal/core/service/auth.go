package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// Role is the access level of an API key.
type Role string

const (
	// RoleAdmin may claim tokens and manage the allow-list.
	RoleAdmin Role = "admin"
	// RoleVerifier may only submit claims.
	RoleVerifier Role = "verifier"
)

// Permission names an action guarded by the HTTP layer.
type Permission string

const (
	PermClaim          Permission = "claim"
	PermAllowListRead  Permission = "allowlist:read"
	PermAllowListWrite Permission = "allowlist:write"
	PermStatusRead     Permission = "status:read"
	PermMetricsRead    Permission = "metrics:read"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermClaim, PermAllowListRead, PermAllowListWrite, PermStatusRead, PermMetricsRead,
	},
	RoleVerifier: {
		PermClaim, PermMetricsRead,
	},
}

// HasPermission reports whether role grants perm.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// APIKey is a configured credential.
type APIKey struct {
	KeyID      string
	Role       Role
	SecretHash string   // bcrypt hash
	Allowlist  []string // IPs or CIDRs; empty means any
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	// CacheTTL bounds how long a verified secret skips bcrypt (default: 60s).
	CacheTTL time.Duration

	// GlobalAllowlist is the global IP/CIDR allowlist (empty = no restriction).
	GlobalAllowlist []string
}

// DefaultAuthServiceConfig returns default configuration.
func DefaultAuthServiceConfig() *AuthServiceConfig {
	return &AuthServiceConfig{CacheTTL: 60 * time.Second}
}

// AuthService authenticates API keys against configured bcrypt hashes.
type AuthService struct {
	keys        map[string]*APIKey
	globalAllow []string
	cacheTTL    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	digest  [sha256.Size]byte
	expires time.Time
}

// NewAuthService validates keys and builds the service.
func NewAuthService(keys []APIKey, config *AuthServiceConfig) (*AuthService, error) {
	if config == nil {
		config = DefaultAuthServiceConfig()
	}

	s := &AuthService{
		keys:        make(map[string]*APIKey, len(keys)),
		globalAllow: config.GlobalAllowlist,
		cacheTTL:    config.CacheTTL,
		cache:       make(map[string]cacheEntry),
	}

	for i := range keys {
		k := keys[i]
		if k.KeyID == "" {
			return nil, fmt.Errorf("auth: api key %d has no key_id", i)
		}
		if _, dup := s.keys[k.KeyID]; dup {
			return nil, fmt.Errorf("auth: duplicate key_id %q", k.KeyID)
		}
		if _, ok := rolePermissions[k.Role]; !ok {
			return nil, fmt.Errorf("auth: key %q has unknown role %q", k.KeyID, k.Role)
		}
		if _, err := bcrypt.Cost([]byte(k.SecretHash)); err != nil {
			return nil, fmt.Errorf("auth: key %q secret_hash is not a bcrypt hash: %w", k.KeyID, err)
		}
		s.keys[k.KeyID] = &k
	}

	return s, nil
}

// Authenticate verifies keyID and secret and checks clientIP against the
// global and per-key allowlists.
func (s *AuthService) Authenticate(ctx context.Context, keyID, secret, clientIP string) (*APIKey, error) {
	if keyID == "" || secret == "" {
		return nil, domain.ErrAPIKeyMissing
	}

	key, ok := s.keys[keyID]
	if !ok {
		return nil, domain.ErrAPIKeyInvalid.WithDetails("unknown key id")
	}

	if err := s.checkIPAllowlist(clientIP, key.Allowlist); err != nil {
		return nil, err
	}

	digest := sha256.Sum256([]byte(secret))
	if s.cached(keyID, digest) {
		return key, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return nil, domain.ErrAPIKeyInvalid.WithDetails("invalid secret")
	}

	s.remember(keyID, digest)
	return key, nil
}

// CheckPermission checks if key's role grants perm.
func (s *AuthService) CheckPermission(key *APIKey, perm Permission) error {
	if !HasPermission(key.Role, perm) {
		return domain.ErrPermissionDenied.WithDetails(
			"role " + string(key.Role) + " does not have permission " + string(perm),
		)
	}
	return nil
}

// KeyCount returns the number of configured keys.
func (s *AuthService) KeyCount() int {
	return len(s.keys)
}

func (s *AuthService) cached(keyID string, digest [sha256.Size]byte) bool {
	if s.cacheTTL <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache[keyID]
	if !ok {
		return false
	}
	if time.Now().After(e.expires) {
		delete(s.cache, keyID)
		return false
	}
	return subtle.ConstantTimeCompare(e.digest[:], digest[:]) == 1
}

func (s *AuthService) remember(keyID string, digest [sha256.Size]byte) {
	if s.cacheTTL <= 0 {
		return
	}

	s.mu.Lock()
	s.cache[keyID] = cacheEntry{digest: digest, expires: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()
}

// checkIPAllowlist checks if the client IP is in the combined allowlist.
func (s *AuthService) checkIPAllowlist(clientIP string, keyAllowlist []string) error {
	var allowlist []string
	if len(s.globalAllow) > 0 || len(keyAllowlist) > 0 {
		allowlist = make([]string, 0, len(s.globalAllow)+len(keyAllowlist))
		allowlist = append(allowlist, s.globalAllow...)
		allowlist = append(allowlist, keyAllowlist...)
	}

	if len(allowlist) == 0 {
		return nil
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return domain.ErrIPNotAllowed.WithDetails("invalid client IP format")
	}

	for _, entry := range allowlist {
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				continue
			}
			if ipNet.Contains(ip) {
				return nil
			}
		} else if allowed := net.ParseIP(entry); allowed != nil && allowed.Equal(ip) {
			return nil
		}
	}

	return domain.ErrIPNotAllowed.WithDetails("client IP not in allowlist")
}

// HashSecret returns a bcrypt hash of secret for use in configuration.
// cost <= 0 selects bcrypt.DefaultCost.
func HashSecret(secret string, cost int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("auth: secret is empty")
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash secret: %w", err)
	}
	return string(h), nil
}
