package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a catalog document. Category is the category name, not a
// reference; orders keep their own price snapshot so edits here never
// change order history.
type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	ImageURL    *string            `bson:"image_url" json:"image_url"`
	Ingredients []string           `bson:"ingredients" json:"ingredients"`
	DietaryInfo []string           `bson:"dietary_info" json:"dietary_info"`
	Available   bool               `bson:"available" json:"available"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MenuItemSummary is the catalog detail attached to order items on read.
type MenuItemSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
