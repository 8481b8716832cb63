package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, user model.User) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collUsers).InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, mapReadErr(err)
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var user model.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, mapReadErr(err)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	cursor, err := s.db.Collection(collUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) ListGuides(ctx context.Context) ([]model.User, error) {
	cursor, err := s.db.Collection(collUsers).Find(ctx, bson.M{"role": model.RoleTourGuide})
	if err != nil {
		return nil, err
	}
	var guides []model.User
	if err := cursor.All(ctx, &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

func (s *Store) GetGuideByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var guide model.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": id, "role": model.RoleTourGuide}).Decode(&guide)
	return guide, mapReadErr(err)
}

type ProfileUpdate struct {
	Name     *string `bson:"name,omitempty"`
	PhotoURL *string `bson:"photoURL,omitempty"`
	Phone    *string `bson:"phone,omitempty"`
	Address  *string `bson:"address,omitempty"`
	Bio      *string `bson:"bio,omitempty"`
}

func (s *Store) UpdateUserProfile(ctx context.Context, email string, update ProfileUpdate) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRequestRole records a pending elevation request. Re-requesting while a
// request is pending overwrites the pending value.
func (s *Store) SetRequestRole(ctx context.Context, email string, role model.Role) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"requestRole": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveRoleRequest promotes role to the pending requestRole and clears the
// request in a single document update.
func (s *Store) ApproveRoleRequest(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": id, "requestRole": bson.M{"$exists": true}},
		bson.A{
			bson.M{"$set": bson.M{"role": "$requestRole"}},
			bson.M{"$unset": "requestRole"},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RejectRoleRequest clears the pending request and leaves role unchanged.
func (s *Store) RejectRoleRequest(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": id, "requestRole": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"requestRole": ""}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AppendGuideReview(ctx context.Context, guideID primitive.ObjectID, review model.Review) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": guideID, "role": model.RoleTourGuide},
		bson.M{"$push": bson.M{"reviews": review}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
