package api

import (
	"net/http"

	"inkwell/internal/api/middleware"
	"inkwell/internal/handlers"

	_ "inkwell/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, World!")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	authorize := middleware.NewAuthorizeMiddleware(s.engine, s.config.Session.CookieSecure)
	api := s.echo.Group("/api", authorize.Middleware())

	authHandler := handlers.NewAuthHandler(s.db, s.session, s.config.Session.CookieSecure)
	usersHandler := handlers.NewUsersHandler(s.db)
	roleHandler := handlers.NewRoleHandler(s.db)
	permissionHandler := handlers.NewPermissionHandler(s.db, s.grants, s.session)
	menuHandler := handlers.NewMenuHandler(s.db, s.grants, s.session)
	categoryHandler := handlers.NewCategoryHandler(s.db)
	blogHandler := handlers.NewBlogHandler(s.db, s.tasks)
	pageHandler := handlers.NewPageHandler(s.db)
	settingsHandler := handlers.NewSettingsHandler(s.db)
	dashboardHandler := handlers.NewDashboardHandler(s.db)
	mediaHandler := handlers.NewMediaHandler(s.db, s.media)
	astroHandler := handlers.NewAstroBlogHandler(s.db, s.config.Preview)

	api.GET("/dashboard", dashboardHandler.GetSummary)

	api.GET("/category", categoryHandler.List)
	api.POST("/category", categoryHandler.Create)
	api.PATCH("/category/:id", categoryHandler.Update)
	api.DELETE("/category/:id", categoryHandler.Delete)
	api.GET("/category/:id", categoryHandler.GetByID)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/session", authHandler.GetSession)

	api.POST("/rolepermission", roleHandler.Create)
	api.GET("/rolepermission", roleHandler.List)
	api.PUT("/rolepermission/:id", roleHandler.Delete)
	api.PATCH("/rolepermission/:id", roleHandler.Rename)

	api.POST("/media/upload", mediaHandler.Upload)
	api.GET("/media", mediaHandler.List)
	api.PATCH("/media/:id", mediaHandler.UpdateDescription)
	api.DELETE("/media/:id", mediaHandler.Delete)

	api.GET("/blog", blogHandler.List)
	api.GET("/blog/categoryblog", blogHandler.ListCategories)
	api.GET("/blog/userblog", blogHandler.ListAuthors)
	api.GET("/blog/imageblog", blogHandler.ListImages)
	api.POST("/blog/createblog", blogHandler.Create)
	api.PATCH("/blog/:id", blogHandler.Update)
	api.PUT("/blog/:id", blogHandler.Delete)
	api.DELETE("/blog/deleteMultiple", blogHandler.DeleteMultiple)
	api.GET("/blog/:id", blogHandler.GetByID)

	api.POST("/permissions", permissionHandler.Add)
	api.GET("/permissions/userpermission", permissionHandler.GetUserPermissions)
	api.GET("/permissions", permissionHandler.List)
	api.GET("/permissions/:id", permissionHandler.GetByID)
	api.PATCH("/permissions/:id", permissionHandler.UpdateGrant)
	api.DELETE("/permissions/:id", permissionHandler.Delete)

	api.GET("/menu", menuHandler.List)
	api.GET("/menu/items", menuHandler.GetItems)
	api.GET("/menu/:id", menuHandler.GetByID)
	api.POST("/menu", menuHandler.Create)
	api.PATCH("/menu/:id", menuHandler.Update)
	api.DELETE("/menu/:id", menuHandler.Delete)

	api.GET("/settings", settingsHandler.Get)
	api.PATCH("/settings", settingsHandler.Update)

	api.GET("/pages", pageHandler.List)
	api.GET("/pages/author", pageHandler.ListAuthors)
	api.POST("/pages", pageHandler.Create)
	api.DELETE("/pages/deleteMultiple", pageHandler.DeleteMultiple)
	api.GET("/pages/:id", pageHandler.GetByID)
	api.PATCH("/pages/:id", pageHandler.Update)
	api.DELETE("/pages/:id", pageHandler.Delete)

	api.POST("/users", usersHandler.Create)
	api.GET("/users", usersHandler.List)
	api.GET("/users/roles", usersHandler.ListRoles)
	api.GET("/users/:id", usersHandler.GetByID)
	api.PATCH("/users/:id", usersHandler.Update)
	api.PUT("/users/:id", usersHandler.Delete)
	api.PATCH("/users/:id/profile", usersHandler.UpdateProfile)

	api.GET("/astroblog", astroHandler.GetFeatured)
	api.GET("/astroblog/allarticle", astroHandler.GetAll)
	api.GET("/astroblog/categories", astroHandler.GetCategories)
	api.GET("/astroblog/trending", astroHandler.GetTrending)
	api.GET("/astroblog/search", astroHandler.Search)
	api.GET("/astroblog/useravatar", astroHandler.GetUserAvatars)
	api.GET("/astroblog/preview/:id", astroHandler.Preview)
	api.GET("/astroblog/category/:category", astroHandler.GetByCategory)
	api.GET("/astroblog/related/:id/:category", astroHandler.GetRelated)
	api.GET("/astroblog/:id", astroHandler.GetByID)
}
