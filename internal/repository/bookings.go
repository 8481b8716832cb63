package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

func (s *Store) CreateBooking(ctx context.Context, booking model.Booking) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collBookings).InsertOne(ctx, booking)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) GetBooking(ctx context.Context, id primitive.ObjectID) (model.Booking, error) {
	var booking model.Booking
	err := s.db.Collection(collBookings).FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	return booking, mapReadErr(err)
}

func (s *Store) ListBookingsByTourist(ctx context.Context, email string) ([]model.Booking, error) {
	cursor, err := s.db.Collection(collBookings).Find(ctx, bson.M{"touristEmail": email})
	if err != nil {
		return nil, err
	}
	var bookings []model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) ListBookingsByGuide(ctx context.Context, guideID primitive.ObjectID) ([]model.Booking, error) {
	cursor, err := s.db.Collection(collBookings).Find(ctx, bson.M{"guideId": guideID})
	if err != nil {
		return nil, err
	}
	var bookings []model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status model.BookingStatus) error {
	res, err := s.db.Collection(collBookings).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collBookings).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
