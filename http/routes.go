package http

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health check route
	s.echo.GET("/health", s.handleHealthCheck)

	// Student pages
	s.echo.GET("/", s.handleListStudents)
	s.echo.GET("/student-male", s.handleListMaleStudents)
	s.echo.GET("/student-detail", s.handleStudentDetail)
	s.echo.GET("/students/:id", s.handleEditStudentForm)

	// Student mutations (form posts)
	s.echo.POST("/add", s.handleCreateStudent)
	s.echo.POST("/edit", s.handleUpdateStudent)
	s.echo.POST("/delete", s.handleDeleteStudents)
}
