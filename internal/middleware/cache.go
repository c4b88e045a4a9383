package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/topic-feed-service/internal/config"
)

// captureWriter duplicates the response body into a buffer, up to a
// limit, while still streaming it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len() < cw.limit {
		room := cw.limit - cw.buf.Len()
		if len(b) <= room {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:room])
			cw.buf.WriteByte(0) // poison: marks the body as truncated
		}
	}
	return cw.ResponseWriter.Write(b)
}

// CacheResponses returns a middleware that serves GET responses from
// Redis for the configured TTL. It is applied only to the public topic
// listing, where slightly stale data is acceptable. Only 200 responses
// with JSON bodies under the size cap are stored. Disabled gracefully
// when Redis is absent.
func CacheResponses(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			body := cw.buf.Bytes()
			truncated := len(body) > 0 && body[len(body)-1] == 0
			if cw.status == http.StatusOK && len(body) > 0 && !truncated {
				// Best effort; a failed SET only costs the next request a miss.
				_ = rdb.Set(ctx, key, body, cfg.TTL).Err()
			}
			return nil
		}
	}
}

// cacheKey hashes route and query so arbitrary client input never lands
// in the key space verbatim.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
