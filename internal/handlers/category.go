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

type CategoryCreateRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder *int   `json:"display_order"`
}

type CategoryUpdateRequest struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"display_order"`
}

/*
GET /api/menu/categories
- Sorted by display_order for the storefront nav
*/
func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/categories"
		defer handlePanic(c, route)

		if err := ensureMongoConnection(c.Request.Context(), db); err != nil {
			respondWithMessage(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}}),
		)
		if err != nil {
			respondWithServerError(c, route, "Error fetching categories", err)
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithServerError(c, route, "Error fetching categories", err)
			return
		}

		logrus.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

/*
POST /api/menu/categories
- Duplicate names rejected; the unique index backs this up
*/
func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/menu/categories"
		defer handlePanic(c, route)

		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithMessage(c, http.StatusBadRequest, route, "Category name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"name": name})
		if err != nil {
			respondWithServerError(c, route, "Error creating category", err)
			return
		}
		if count > 0 {
			respondWithMessage(c, http.StatusConflict, route, "category already exists")
			return
		}

		displayOrder := 0
		if req.DisplayOrder != nil {
			displayOrder = *req.DisplayOrder
		}

		now := time.Now()
		category := models.Category{
			Name:         name,
			DisplayOrder: displayOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			respondWithServerError(c, route, "Error creating category", err)
			return
		}

		category.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, category)
	}
}

/*
PUT /api/menu/categories/:id
*/
func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/menu/categories/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithMessage(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			update["name"] = name
		}
		if req.DisplayOrder != nil {
			update["display_order"] = *req.DisplayOrder
		}

		if len(update) == 0 {
			respondWithMessage(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Category
		err = db.Collection("categories").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondWithMessage(c, http.StatusNotFound, route, "Category not found")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error updating category", err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// categorySource is the slice of the catalog the delete guard reads.
type categorySource interface {
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	CountMenuItemsInCategory(ctx context.Context, category string) (int64, error)
}

/*
DELETE /api/menu/categories/:id
- Blocked while any menu item still references the category name
*/
func DeleteCategory(db *mongo.Database, source categorySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/menu/categories/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category, err := source.CategoryByID(ctx, c.Param("id"))
		if err != nil {
			respondWithServerError(c, route, "Error deleting category", err)
			return
		}
		if category == nil {
			respondWithMessage(c, http.StatusNotFound, route, "Category not found")
			return
		}

		itemsCount, err := source.CountMenuItemsInCategory(ctx, category.Name)
		if err != nil {
			respondWithServerError(c, route, "Error deleting category", err)
			return
		}
		if itemsCount > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message":    "Cannot delete category that is being used by menu items",
				"itemsCount": itemsCount,
			})
			return
		}

		if _, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithServerError(c, route, "Error deleting category", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
