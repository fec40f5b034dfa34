package middleware

import "github.com/gin-gonic/gin"

const idempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLen bounds client-supplied keys before they reach Redis.
const maxIdempotencyKeyLen = 128

// GetIdempotencyKey returns the client's Idempotency-Key header and whether it is usable.
// An over-long key is reported as present but invalid.
func GetIdempotencyKey(c *gin.Context) (key string, present bool, valid bool) {
	key = c.GetHeader(idempotencyKeyHeader)
	if key == "" {
		return "", false, true
	}
	return key, true, len(key) <= maxIdempotencyKeyLen
}
