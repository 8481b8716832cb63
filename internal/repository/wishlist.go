package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

// AddWishlistItem inserts the item; the unique (email, packageId) index turns
// a second insert of the same pair into ErrDuplicate.
func (s *Store) AddWishlistItem(ctx context.Context, item model.WishlistItem) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collWishlist).InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) ListWishlist(ctx context.Context, email string) ([]model.WishlistItem, error) {
	cursor, err := s.db.Collection(collWishlist).Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var items []model.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveWishlistItems deletes the given item ids, scoped to the owner's email
// so one user cannot remove another user's entries.
func (s *Store) RemoveWishlistItems(ctx context.Context, email string, ids []primitive.ObjectID) (int64, error) {
	res, err := s.db.Collection(collWishlist).DeleteMany(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$in": ids},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
