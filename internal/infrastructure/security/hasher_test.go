package security

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

func testHashers() map[string]ports.PasswordHasher {
	return map[string]ports.PasswordHasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": &Argon2idHasher{time: 1, memory: 1024, threads: 1},
	}
}

func randomPrintable(r *rand.Rand, n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(byte(0x20 + r.IntN(0x7f-0x20)))
	}
	return b.String()
}

func TestHasher_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	lengths := []int{1, 2, 8, 33, 72, 73, 128, 256}

	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			for _, n := range lengths {
				pw := randomPrintable(r, n)
				hash, err := h.Hash(pw)
				require.NoError(t, err)
				assert.NotEqual(t, pw, hash)
				assert.True(t, h.Verify(pw, hash), "length %d", n)

				other := randomPrintable(r, n)
				if other != pw {
					assert.False(t, h.Verify(other, hash), "length %d", n)
				}
				assert.False(t, h.Verify(pw+"x", hash), "length %d", n)
			}
		})
	}
}

func TestHasher_LongPasswordsDifferInLastByte(t *testing.T) {
	pw := strings.Repeat("p", 256)
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash(pw)
			require.NoError(t, err)
			assert.True(t, h.Verify(pw, hash))
			assert.False(t, h.Verify(strings.Repeat("p", 255)+"q", hash))
		})
	}
}

func TestHasher_SaltedOutputDiffers(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("p@ss1234")
			require.NoError(t, err)
			b, err := h.Hash("p@ss1234")
			require.NoError(t, err)

			assert.NotEqual(t, a, b)
			assert.True(t, h.Verify("p@ss1234", a))
			assert.True(t, h.Verify("p@ss1234", b))
		})
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			_, err := h.Hash("")
			assert.ErrorIs(t, err, domain.ErrEmptyPassword)
		})
	}
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			assert.False(t, h.Verify("secret", ""))
			assert.False(t, h.Verify("secret", "not-a-hash"))
			assert.False(t, h.Verify("secret", "$argon2id$v=19$m=x$y$z"))
			assert.False(t, h.Verify("secret", "$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaA"))
		})
	}
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher(HasherBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewHasher(HasherArgon2id, 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2idHasher{}, h)

	_, err = NewHasher("md5", 0)
	assert.Error(t, err)
}

func TestArgon2idHasher_RejectsOversizedParameters(t *testing.T) {
	h := &Argon2idHasher{time: 1, memory: 1024, threads: 1}
	encoded, err := h.Hash("secret12")
	require.NoError(t, err)
	require.True(t, h.Verify("secret12", encoded))

	parts := strings.Split(encoded, "$")
	swap := func(params string) string {
		p := append([]string(nil), parts...)
		p[3] = params
		return strings.Join(p, "$")
	}

	// Refused before any key derivation.
	assert.False(t, h.Verify("secret12", swap("m=4294967295,t=1,p=1")))
	assert.False(t, h.Verify("secret12", swap("m=1048577,t=1,p=1")))
	assert.False(t, h.Verify("secret12", swap("m=1024,t=4294967295,p=1")))
}
