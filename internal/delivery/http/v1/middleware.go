package v1

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware resolves the bearer token into a user id. It never
// aborts: requests without a valid token for an existing user continue
// anonymously and are rejected, if at all, by HandleRequireUser.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		c.Next()
		return
	}

	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		h.logger.Debug().Msg("unsupported authorization header")
		c.Next()
		return
	}

	subject, err := h.tokens.Verify(token)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("rejected bearer token")
		c.Next()
		return
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		h.logger.Warn().
			Str("subject", subject).
			Msg("token subject is not a user id")
		c.Next()
		return
	}

	user, err := h.users.GetByID(c, userID)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Int64("user_id", userID).
			Msg("token subject not resolved")
		c.Next()
		return
	}

	c.Set(userIDCtxKey, user.ID)
	c.Next()
}

func (h *handlerImpl) HandleRequireUser(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		abort(c, newUnauthorizedError(errUnauthorized.Error()))
		return
	}
	c.Next()
}

// HandleRequestLog writes one event per request after the handler chain
// has finished.
func (h *handlerImpl) HandleRequestLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= 500:
		event = h.logger.Error()
	case status >= 400:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}

	if len(c.Errors) > 0 {
		event = event.Err(errors.New(c.Errors.String()))
	}
	event.
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

func userIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDCtxKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
