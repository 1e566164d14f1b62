package shortlink

import (
	"crypto/md5"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToken(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)

	sum := md5.Sum([]byte("7-2024-03-01T12:30:00.123456789Z"))
	want := hex.EncodeToString(sum[:])[:8]

	assert.Equal(t, want, Token(7, createdAt, 8))
	assert.Len(t, Token(7, createdAt, 8), 8)
}

func TestToken_Stable(t *testing.T) {
	createdAt := time.Now()
	assert.Equal(t, Token(1, createdAt, 8), Token(1, createdAt, 8))
	assert.NotEqual(t, Token(1, createdAt, 8), Token(2, createdAt, 8))
}

func TestToken_NormalisesTimezone(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	moscow := utc.In(time.FixedZone("MSK", 3*60*60))
	assert.Equal(t, Token(3, utc, 8), Token(3, moscow, 8))
}

func TestToken_LengthBounds(t *testing.T) {
	createdAt := time.Now()
	assert.Len(t, Token(1, createdAt, 0), 32)
	assert.Len(t, Token(1, createdAt, 64), 32)
}

func TestPathAndURL(t *testing.T) {
	assert.Equal(t, "/s/abc123/", Path("/s/", "abc123"))
	assert.Equal(t, "/s/abc123/", Path("s", "abc123"))
	assert.Equal(t, "https://foodgram.example/s/abc123/", URL("https", "foodgram.example", "/s/", "abc123"))
}
