package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// HashUserKey returns a filesystem-safe namespace for a user ID. Hashing keeps
// numeric ids from being enumerable in storage listings.
func HashUserKey(userID int64) string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(userID, 10)))
	return hex.EncodeToString(sum[:])
}
