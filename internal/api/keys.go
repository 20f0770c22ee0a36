package api

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/factchecker/newscred/internal/models"
	"github.com/google/uuid"
)

// KeyPrefix marks raw API keys.
const KeyPrefix = "ncr_"

// DefaultKeyRequestsPerMinute applies when a key is created without a limit.
const DefaultKeyRequestsPerMinute = 60

// HashKey returns the stored form of a raw API key.
func HashKey(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}

// NewAPIKey generates a key record and the raw key that is shown once.
func NewAPIKey(name string, requestsPerMinute int) (string, *models.APIKey, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := KeyPrefix + base64.RawURLEncoding.EncodeToString(keyBytes)

	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultKeyRequestsPerMinute
	}

	return rawKey, &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           HashKey(rawKey),
		Name:              name,
		RequestsPerMinute: requestsPerMinute,
		CreatedAt:         time.Now().UTC(),
	}, nil
}
