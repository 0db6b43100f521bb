package auth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, hexRe, salt, "salt should be 64 hex characters")
		seen[salt] = struct{}{}
	}
	assert.Len(t, seen, 5, "salts should be unique per call")
}

func TestBcryptHasher_Hash_and_Compare(t *testing.T) {
	tests := []struct {
		name        string
		hashSalt    string
		hashPass    string
		compareSalt string
		comparePass string
		wantErr     bool
	}{
		{"matching password", "salt-a", "my-secret-password", "salt-a", "my-secret-password", false},
		{"wrong password", "salt-a", "correct", "salt-a", "wrong", true},
		{"wrong salt", "salt-a", "password", "salt-b", "password", true},
		{"password longer than 72 bytes", "s", strings.Repeat("x", 100), "s", strings.Repeat("x", 100), false},
		{"long passwords differing after 72 bytes", "s", strings.Repeat("x", 80) + "a", "s", strings.Repeat("x", 80) + "b", true},
	}

	h := NewBcryptHasher(bcrypt.MinCost)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.hashSalt, tt.hashPass)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotContains(t, hash, tt.hashPass)

			err = h.Compare(hash, tt.compareSalt, tt.comparePass)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(1000).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	h = NewBcryptHasher(0).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
