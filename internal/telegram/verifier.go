// Package telegram verifies Telegram Mini App init-data handshakes.
//
// The payload is a URL-encoded query string signed by Telegram: the hash
// field is an HMAC-SHA256 over the remaining fields sorted and joined with
// newlines, keyed by HMAC-SHA256("WebAppData", botToken).
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHash      = errors.New("init data carries no hash")
	ErrInvalidSignature = errors.New("init data signature does not match")
	ErrExpired          = errors.New("init data is too old")
	ErrNoUser           = errors.New("init data carries no user")
)

// HMACVerifier validates init data against a bot token.
type HMACVerifier struct {
	botToken string
	maxAge   time.Duration
	// now is swapped out in tests.
	now func() time.Time
}

var _ Verifier = (*HMACVerifier)(nil)

// NewVerifier creates a verifier for the given bot token. maxAge bounds how
// old the payload's auth_date may be; zero disables the freshness check.
func NewVerifier(botToken string, maxAge time.Duration) *HMACVerifier {
	return &HMACVerifier{botToken: botToken, maxAge: maxAge, now: time.Now}
}

// Verify checks the payload signature and freshness.
func (v *HMACVerifier) Verify(initData string) error {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return fmt.Errorf("failed to parse init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return ErrMissingHash
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(v.botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(gotHash), []byte(wantHash)) {
		return ErrInvalidSignature
	}

	if v.maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse auth_date: %w", err)
		}
		if v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
			return ErrExpired
		}
	}
	return nil
}

// Parse extracts the user identity from the payload. Callers must Verify
// first; Parse does not check the signature.
func (v *HMACVerifier) Parse(initData string) (Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse init data: %w", err)
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return Identity{}, ErrNoUser
	}

	var identity Identity
	if err := json.Unmarshal([]byte(userJSON), &identity); err != nil {
		return Identity{}, fmt.Errorf("failed to decode user: %w", err)
	}
	if identity.UserID == 0 {
		return Identity{}, ErrNoUser
	}
	return identity, nil
}
