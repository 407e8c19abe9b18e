package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

/*
GET /api/menu
- Customer-facing catalog: available items only
*/
func GetMenuItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu"
		defer handlePanic(c, route)

		if err := ensureMongoConnection(c.Request.Context(), db); err != nil {
			respondWithMessage(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu_items").Find(
			ctx,
			bson.M{"available": true},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
		)
		if err != nil {
			respondWithServerError(c, route, "Error fetching menu items", err)
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.MenuItem, 0)
		if err := cursor.All(ctx, &items); err != nil {
			respondWithServerError(c, route, "Error fetching menu items", err)
			return
		}

		logrus.Printf("[%s] returning %d items", route, len(items))
		c.JSON(http.StatusOK, items)
	}
}

/*
GET /api/menu/category/:category
*/
func GetMenuItemsByCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/category"
		defer handlePanic(c, route)

		category := strings.TrimSpace(c.Param("category"))
		if category == "" {
			respondWithMessage(c, http.StatusBadRequest, route, "category is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu_items").Find(ctx, bson.M{
			"category":  category,
			"available": true,
		})
		if err != nil {
			respondWithServerError(c, route, "Error fetching menu items by category", err)
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.MenuItem, 0)
		if err := cursor.All(ctx, &items); err != nil {
			respondWithServerError(c, route, "Error fetching menu items by category", err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

/*
GET /api/menu/:id
*/
func GetMenuItemByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var item models.MenuItem
		err = db.Collection("menu_items").FindOne(ctx, bson.M{"_id": id}).Decode(&item)
		if err == mongo.ErrNoDocuments {
			respondWithMessage(c, http.StatusNotFound, route, "Menu item not found")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error fetching menu item", err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}
