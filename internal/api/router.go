package api

import (
	"taskagotchi/internal/middleware" // Auth and logging middleware
	"taskagotchi/internal/service"    // Services
	"taskagotchi/internal/utils"      // Token service

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
)

// Services bundles what the handlers need
type Services struct {
	Tokens  *utils.TokenService
	Users   *service.UserService
	Tasks   *service.TaskService
	Economy *service.EconomyService
	Avatars *service.AvatarService
}

// NewRouter registers every route on a new gin engine
func NewRouter(s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus scrape endpoint

	// Public routes
	r.POST("/users", RegisterHandler(s.Users))   // Registration endpoint
	r.POST("/login", LoginHandler(s.Users))      // Login endpoint
	r.GET("/tasks", ListTasksHandler(s.Tasks))   // Task listing
	r.GET("/items", ListItemsHandler(s.Economy)) // Catalog

	// Routes protected by JWT
	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(s.Tokens), middleware.ActiveUserMiddleware(s.Users))
	authed.DELETE("/users", DeleteAccountHandler(s.Users))
	authed.POST("/tasks", CreateTaskHandler(s.Tasks))
	authed.PATCH("/tasks", UpdateTaskHandler(s.Tasks))
	authed.DELETE("/tasks", DeleteTaskHandler(s.Tasks))
	authed.GET("/streak", StreakHandler(s.Tasks))
	authed.POST("/items", PurchaseHandler(s.Economy))
	authed.GET("/transactions", PurchaseHistoryHandler(s.Economy))
	authed.GET("/balance", GetBalanceHandler(s.Economy))
	authed.POST("/balance", AdjustBalanceHandler(s.Economy))
	authed.GET("/avatar", GetAvatarHandler(s.Avatars))
	authed.PATCH("/avatar", EquipHandler(s.Avatars))

	return r
}
