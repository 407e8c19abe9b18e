// Package catalog wraps the document store lookups the order and category
// flows need, so their logic can be tested without a running MongoDB.
package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// MenuItemByID returns (nil, nil) when the id is malformed or the document
// does not exist; callers treat both as "not in the catalog".
func (s *Store) MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var item models.MenuItem
	err = s.db.Collection("menu_items").FindOne(ctx, bson.M{"_id": objectID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// CategoryByID follows the same not-found contract as MenuItemByID.
func (s *Store) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var category models.Category
	err = s.db.Collection("categories").FindOne(ctx, bson.M{"_id": objectID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// CountMenuItemsInCategory reports how many menu items still reference the
// category by name.
func (s *Store) CountMenuItemsInCategory(ctx context.Context, category string) (int64, error) {
	return s.db.Collection("menu_items").CountDocuments(ctx, bson.M{"category": category})
}
