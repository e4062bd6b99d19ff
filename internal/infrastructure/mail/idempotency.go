package mail

import (
	"crypto/sha256"
	"encoding/hex"
)

func idempotencyKey(to, subject, body string) string {
	sum := sha256.Sum256([]byte(to + "\x00" + subject + "\x00" + body))
	return hex.EncodeToString(sum[:16])
}
