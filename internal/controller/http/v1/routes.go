package v1

import "github.com/gin-gonic/gin"

// Register mounts the API under g. requireAuth guards the routes that act
// on behalf of a signed-in user.
func Register(g *gin.RouterGroup, dash *DashboardHandler, cfg *ConfigHandler, auth *AuthHandler, requireAuth gin.HandlerFunc) {
	g.GET("/charts", dash.GetChart)
	g.GET("/charts/png", dash.GetChartPNG)
	g.GET("/charts/csv", dash.GetChartCSV)
	g.POST("/charts/snapshot", dash.CreateSnapshot)
	g.GET("/summary", dash.GetSummary)
	g.POST("/refresh", dash.Refresh)
	g.GET("/alerts/latest", dash.LatestAlert)

	g.POST("/login", auth.Login)

	private := g.Group("", requireAuth)
	{
		private.POST("/logout", auth.Logout)
		private.GET("/me", auth.Me)
		private.GET("/config", cfg.GetConfig)
		private.POST("/config", cfg.UpdateConfig)
		private.GET("/config/history", cfg.GetHistory)
	}
}
