package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type totalsResponse struct {
	CompletedCount int64 `json:"completedCount"`
	TotalCount     int64 `json:"totalCount"`
}

// statResponse is shared by the status and priority breakdowns.
type statResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type dayStatResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

func (h *handlerImpl) HandleGetTotals(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	totals, err := h.stats.Totals(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute totals")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, totalsResponse{
		CompletedCount: totals.CompletedCount,
		TotalCount:     totals.TotalCount,
	})
}

func (h *handlerImpl) HandleGetStatusStats(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	counts, err := h.stats.ByStatus(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute status stats")
		abort(c, serviceError(err))
		return
	}

	response := make([]statResponse, len(counts))
	for i, sc := range counts {
		response[i] = statResponse{Name: string(sc.Status), Count: sc.Count}
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetPriorityStats(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	counts, err := h.stats.ByPriority(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute priority stats")
		abort(c, serviceError(err))
		return
	}

	response := make([]statResponse, len(counts))
	for i, pc := range counts {
		response[i] = statResponse{Name: strconv.Itoa(pc.Priority), Count: pc.Count}
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetNewTasksStats(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	days, err := h.stats.NewTasksLastWeek(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute new task stats")
		abort(c, serviceError(err))
		return
	}

	response := make([]dayStatResponse, len(days))
	for i, d := range days {
		response[i] = dayStatResponse{Day: d.Day, Count: d.Count}
	}
	c.JSON(http.StatusOK, response)
}
