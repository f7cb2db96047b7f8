package http

// registerV1Routes sets up the v1 API structure
// Group: /api/v1/dashboard
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Dashboard endpoints - aggregates and chart series per month
	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("", s.handleV1Dashboard)
		dashboard.GET("/months", s.handleV1Months)
		dashboard.GET("/summary", s.handleV1Summary)
		dashboard.GET("/series", s.handleV1Series)
		dashboard.POST("/reload", s.handleV1Reload)
	}
}
