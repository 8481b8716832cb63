package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

func (s *Store) CreatePayment(ctx context.Context, payment model.Payment) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collPayments).InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) ListPaymentsByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	cursor, err := s.db.Collection(collPayments).Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var payments []model.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
