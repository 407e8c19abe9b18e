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

type MenuItemCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	ImageURL    *string  `json:"image_url"`
	Ingredients []string `json:"ingredients"`
	DietaryInfo []string `json:"dietary_info"`
}

type MenuItemUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	ImageURL    *string   `json:"image_url"`
	Ingredients *[]string `json:"ingredients"`
	DietaryInfo *[]string `json:"dietary_info"`
	Available   *bool     `json:"available"`
}

/*
POST /api/menu
*/
func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/menu"
		defer handlePanic(c, route)

		var req MenuItemCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if *req.Price < 0 {
			respondWithMessage(c, http.StatusBadRequest, route, "price must not be negative")
			return
		}

		ingredients := req.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		dietaryInfo := req.DietaryInfo
		if dietaryInfo == nil {
			dietaryInfo = []string{}
		}

		now := time.Now()
		item := models.MenuItem{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       *req.Price,
			Category:    strings.TrimSpace(req.Category),
			ImageURL:    req.ImageURL,
			Ingredients: ingredients,
			DietaryInfo: dietaryInfo,
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("menu_items").InsertOne(ctx, item)
		if err != nil {
			respondWithServerError(c, route, "Error creating menu item", err)
			return
		}

		item.ID = result.InsertedID.(primitive.ObjectID)
		logrus.Println("[MENU] [INFO] menu item created:", item.Name)
		c.JSON(http.StatusCreated, item)
	}
}

/*
PUT /api/menu/:id
*/
func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/menu/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req MenuItemUpdateRequest
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
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithMessage(c, http.StatusBadRequest, route, "price must not be negative")
				return
			}
			update["price"] = *req.Price
		}
		if req.Category != nil {
			update["category"] = strings.TrimSpace(*req.Category)
		}
		if req.ImageURL != nil {
			update["image_url"] = *req.ImageURL
		}
		if req.Ingredients != nil {
			update["ingredients"] = *req.Ingredients
		}
		if req.DietaryInfo != nil {
			update["dietary_info"] = *req.DietaryInfo
		}
		if req.Available != nil {
			update["available"] = *req.Available
		}

		if len(update) == 0 {
			respondWithMessage(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.MenuItem
		err = db.Collection("menu_items").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondWithMessage(c, http.StatusNotFound, route, "Menu item not found")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error updating menu item", err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/*
DELETE /api/menu/:id
*/
func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/menu/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("menu_items").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithServerError(c, route, "Error deleting menu item", err)
			return
		}
		if result.DeletedCount == 0 {
			respondWithMessage(c, http.StatusNotFound, route, "Menu item not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
	}
}
