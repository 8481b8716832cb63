package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

// listProjection leaves image bytes out of multi-document reads; the blobs
// are only loaded for single-package and image fetches.
var listProjection = bson.M{"images.data": 0}

func (s *Store) CreatePackage(ctx context.Context, pkg model.Package) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collPackages).InsertOne(ctx, pkg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) GetPackage(ctx context.Context, id primitive.ObjectID) (model.Package, error) {
	var pkg model.Package
	err := s.db.Collection(collPackages).FindOne(ctx, bson.M{"_id": id}).Decode(&pkg)
	return pkg, mapReadErr(err)
}

func (s *Store) ListPackages(ctx context.Context) ([]model.Package, error) {
	cursor, err := s.db.Collection(collPackages).Find(ctx, bson.M{},
		options.Find().SetProjection(listProjection))
	if err != nil {
		return nil, err
	}
	var packages []model.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *Store) SamplePackages(ctx context.Context, size int) ([]model.Package, error) {
	pipeline := bson.A{
		bson.M{"$sample": bson.M{"size": size}},
		bson.M{"$project": listProjection},
	}
	cursor, err := s.db.Collection(collPackages).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var packages []model.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *Store) DeletePackage(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collPackages).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
