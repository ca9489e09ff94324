package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleRequireUser(c *gin.Context)
	HandleRequestLog(c *gin.Context)

	HandleGetMe(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetTotals(c *gin.Context)
	HandleGetStatusStats(c *gin.Context)
	HandleGetPriorityStats(c *gin.Context)
	HandleGetNewTasksStats(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger zerolog.Logger
	tokens TokenVerifier
	auth   services.AuthService
	users  services.UserService
	tasks  services.TaskService
	stats  services.StatsService
	pinger Pinger
}

func New(
	logger zerolog.Logger,
	tokens TokenVerifier,
	authService services.AuthService,
	userService services.UserService,
	taskService services.TaskService,
	statsService services.StatsService,
	pinger Pinger,
) Handler {
	return &handlerImpl{
		logger: logger,
		tokens: tokens,
		auth:   authService,
		users:  userService,
		tasks:  taskService,
		stats:  statsService,
		pinger: pinger,
	}
}

// RegisterRoutes mounts every endpoint on router. Routes other than
// registration, login and the health check require an authenticated user.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.Use(h.HandleAuthMiddleware)

	router.GET("/healthz", h.HandleHealth)

	authRouter := router.Group("/auth")
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/login", h.HandleLogin)

	usersRouter := router.Group("/users", h.HandleRequireUser)
	usersRouter.GET("/me", h.HandleGetMe)

	tasksRouter := router.Group("/tasks", h.HandleRequireUser)
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/stats", h.HandleGetTotals)
	tasksRouter.GET("/status/stats", h.HandleGetStatusStats)
	tasksRouter.GET("/priority/stats", h.HandleGetPriorityStats)
	tasksRouter.GET("/new-tasks/stats", h.HandleGetNewTasksStats)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
