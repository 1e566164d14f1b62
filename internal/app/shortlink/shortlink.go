// Package shortlink derives stable short tokens for sharing recipes.
package shortlink

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Token is the first length hex characters of MD5("<id>-<createdAt>"), with
// createdAt in RFC 3339 with nanoseconds. The same recipe always maps to the
// same token.
func Token(id uint, createdAt time.Time, length int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d-%s", id, createdAt.UTC().Format(time.RFC3339Nano))))
	digest := hex.EncodeToString(sum[:])
	if length <= 0 || length > len(digest) {
		return digest
	}
	return digest[:length]
}

// Path joins prefix and token into "<prefix><token>/".
func Path(prefix, token string) string {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + token + "/"
}

// URL builds the absolute short link for a request served at scheme://host.
func URL(scheme, host, prefix, token string) string {
	return fmt.Sprintf("%s://%s%s", scheme, host, Path(prefix, token))
}
