package routes

import (
	"github.com/gin-gonic/gin"

	"dealdesk/internal/authz"
	"dealdesk/internal/handlers"
	"dealdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	dealHandler *handlers.DealHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.POST("/logout", authHandler.Logout)

	// USERS (admin)
	users := r.Group("/users", middleware.RequireRoles(authz.RoleAdmin))
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// CLIENTS
	clients := r.Group("/clients")
	{
		clients.POST("/", clientHandler.Create)
		clients.GET("/", clientHandler.List)
		clients.GET("/:id", clientHandler.GetByID)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
	}

	// DEALS
	deals := r.Group("/deals")
	{
		deals.POST("/", dealHandler.Create)
		deals.GET("/", dealHandler.List)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
		deals.POST("/:id/status", dealHandler.UpdateStatus)
		deals.GET("/:id/transitions", dealHandler.Transitions)
		deals.GET("/:id/history", dealHandler.History)
		deals.GET("/:id/summary.pdf", dealHandler.SummaryPDF)
	}

	// DASHBOARD
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/priority-actions", dashboardHandler.PriorityActions)
		dashboard.GET("/flow", dashboardHandler.FlowBoard)
		dashboard.POST("/digest", dashboardHandler.EmailDigest)
	}

	// REPORTS (approver/legal/admin)
	reports := r.Group("/reports",
		middleware.RequireRoles(authz.RoleApprover, authz.RoleLegal, authz.RoleAdmin),
	)
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/deals/filter", reportHandler.FilterDeals)
	}

	return r
}
