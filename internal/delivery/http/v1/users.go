package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type profileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	user, err := h.users.GetByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to load profile")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}
