package bookingRepo

import (
	"context"
	"fmt"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch booking %s failed: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) GetByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"bookingNumber": bookingNumber}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch booking %s failed: %w", bookingNumber, err)
	}
	return &booking, nil
}

// ListActiveForProviderDate returns PENDING/CONFIRMED bookings for the
// provider on the date, ordered by start time. This is the read side of
// the availability sweep.
func (r *MongoBookingRepo) ListActiveForProviderDate(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"status":     bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list provider bookings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode provider bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	filter := bson.M{"client.userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list user bookings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode user bookings failed: %w", err)
	}
	return bookings, nil
}

// ListConfirmedEndedBefore returns CONFIRMED bookings that ended before
// the given date plus minutes-from-midnight. ISO dates compare
// lexicographically, so string comparison is safe here.
func (r *MongoBookingRepo) ListConfirmedEndedBefore(ctx context.Context, date string, minutes int) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.BookingConfirmed,
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": date}},
			bson.M{"date": date, "end": bson.M{"$lte": minutes}},
		},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list ended bookings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode ended bookings failed: %w", err)
	}
	return bookings, nil
}
