package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/catalog"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.ConnectMongo(config.AppEnv.MongoURI)
	if err != nil {
		logrus.Fatal(err)
	}

	mdb := client.Database(config.AppEnv.MongoDBName)
	logrus.Println("MongoDB connected to:", mdb.Name())

	if err := database.EnsureCategoryIndexes(mdb); err != nil {
		logrus.Println("category index warning:", err)
	}
	if err := database.EnsureMenuItemIndexes(mdb); err != nil {
		logrus.Println("menu item index warning:", err)
	}

	pg, err := database.ConnectPostgres(config.AppEnv.PostgresURI)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Println("PostgreSQL connected")

	catalogStore := catalog.NewStore(mdb)

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Digital Diner API is running")
	})

	menu := r.Group("/api/menu")
	{
		menu.GET("", handlers.GetMenuItems(mdb))
		menu.GET("/categories", handlers.GetCategories(mdb))
		menu.GET("/category/:category", handlers.GetMenuItemsByCategory(mdb))
		menu.GET("/:id", handlers.GetMenuItemByID(mdb))
	}

	adminMenu := r.Group("/api/menu")
	adminMenu.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		adminMenu.POST("", handlers.CreateMenuItem(mdb))
		adminMenu.PUT("/:id", handlers.UpdateMenuItem(mdb))
		adminMenu.DELETE("/:id", handlers.DeleteMenuItem(mdb))

		adminMenu.POST("/categories", handlers.CreateCategory(mdb))
		adminMenu.PUT("/categories/:id", handlers.UpdateCategory(mdb))
		adminMenu.DELETE("/categories/:id", handlers.DeleteCategory(mdb, catalogStore))
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("", handlers.CreateOrder(pg, catalogStore))
		orders.GET("/email/:email", handlers.GetOrdersByEmail(pg, catalogStore))
		orders.GET("/phone/:phone", handlers.GetOrdersByPhone(pg, catalogStore))
		orders.GET("/:id", handlers.GetOrderByID(pg, catalogStore))
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", handlers.Signup(pg, config.AppEnv.JWTSecret, config.AppEnv.TokenTTL))
		auth.POST("/login", handlers.Login(pg, config.AppEnv.JWTSecret, config.AppEnv.TokenTTL))
		auth.GET("/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(pg))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logrus.Fatal(err)
	}
}
