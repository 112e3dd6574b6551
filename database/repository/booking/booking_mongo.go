package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/database"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository on MongoDB. The overlap
// predicate and the write run inside a session transaction, and writes
// for a given provider are additionally serialized through a keyed
// mutex, so a check that passed cannot be invalidated by a concurrent
// writer before the insert commits.
type MongoBookingRepo struct {
	coll  *mongo.Collection
	locks *providerLocks
}

// NewMongoBookingRepo returns a repository backed by the bookings collection.
func NewMongoBookingRepo() *MongoBookingRepo {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("bookings")
	return &MongoBookingRepo{
		coll:  coll,
		locks: newProviderLocks(),
	}
}

// activeOverlapFilter matches PENDING/CONFIRMED bookings for the
// provider on the date whose half-open interval overlaps [start, end).
func activeOverlapFilter(providerID, date string, start, end int, excludeID string) bson.M {
	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"status":     bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// InsertIfNoOverlap persists the booking unless an overlapping active
// booking exists for the same provider.
func (r *MongoBookingRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	lock := r.locks.forProvider(booking.ProviderID)
	lock.Lock()
	defer lock.Unlock()

	op := func() error {
		return r.runInTransaction(ctx, func(sc mongo.SessionContext) error {
			filter := activeOverlapFilter(booking.ProviderID, booking.Date, booking.Start, booking.End, "")
			n, err := r.coll.CountDocuments(sc, filter)
			if err != nil {
				return fmt.Errorf("overlap check failed: %w", err)
			}
			if n > 0 {
				return ErrSlotTaken
			}
			if _, err := r.coll.InsertOne(sc, booking); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return ErrDuplicateNumber
				}
				return fmt.Errorf("insert booking failed: %w", err)
			}
			return nil
		})
	}
	return retryOnce(op)
}

// RescheduleIfNoOverlap moves a booking to a new interval, excluding its
// own row from the conflict check. The update filter re-checks the
// active status and the reschedule cap, so a racing cancel or a racing
// reschedule at the cap cannot slip past a stale snapshot. Counter
// increment and reminder reset are part of the same atomic update.
func (r *MongoBookingRepo) RescheduleIfNoOverlap(ctx context.Context, bookingID, newDate string, newStart, newEnd, maxCount int) (*models.Booking, error) {
	current, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	lock := r.locks.forProvider(current.ProviderID)
	lock.Lock()
	defer lock.Unlock()

	var updated models.Booking
	op := func() error {
		return r.runInTransaction(ctx, func(sc mongo.SessionContext) error {
			filter := activeOverlapFilter(current.ProviderID, newDate, newStart, newEnd, bookingID)
			n, err := r.coll.CountDocuments(sc, filter)
			if err != nil {
				return fmt.Errorf("overlap check failed: %w", err)
			}
			if n > 0 {
				return ErrSlotTaken
			}

			update := bson.M{
				"$set": bson.M{
					"date":         newDate,
					"start":        newStart,
					"end":          newEnd,
					"reminderSent": false,
					"updatedAt":    time.Now(),
				},
				"$inc": bson.M{"rescheduleCount": 1},
			}
			cond := bson.M{
				"id":              bookingID,
				"status":          bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
				"rescheduleCount": bson.M{"$lt": maxCount},
			}
			res := r.coll.FindOneAndUpdate(sc, cond, update, afterUpdate())
			if err := res.Decode(&updated); err != nil {
				if err == mongo.ErrNoDocuments {
					return r.classifyMissedWrite(sc, bookingID, maxCount)
				}
				return fmt.Errorf("reschedule update failed: %w", err)
			}
			return nil
		})
	}
	if err := retryOnce(op); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus sets the booking's status and, for cancellations, the
// reason. The filter pins the status the caller validated against, so a
// transition racing another committed transition cannot overwrite it;
// terminal states in particular stay terminal.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason string) (*models.Booking, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if reason != "" {
		set["cancellationReason"] = reason
	}

	var updated models.Booking
	op := func() error {
		res := r.coll.FindOneAndUpdate(ctx, bson.M{"id": bookingID, "status": from}, bson.M{"$set": set}, afterUpdate())
		if err := res.Decode(&updated); err != nil {
			if err == mongo.ErrNoDocuments {
				if _, getErr := r.GetByID(ctx, bookingID); getErr != nil {
					return getErr
				}
				return ErrStatusConflict
			}
			return fmt.Errorf("status update failed: %w", err)
		}
		return nil
	}
	if err := retryOnce(op); err != nil {
		return nil, err
	}
	return &updated, nil
}

// classifyMissedWrite decides why a conditional reschedule matched
// nothing: the booking is gone, no longer active, or at the cap.
func (r *MongoBookingRepo) classifyMissedWrite(ctx context.Context, bookingID string, maxCount int) error {
	fresh, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !fresh.Status.Active() {
		return ErrStatusConflict
	}
	if fresh.RescheduleCount >= maxCount {
		return ErrRescheduleLimit
	}
	return ErrStatusConflict
}

// runInTransaction executes fn inside a MongoDB session transaction.
func (r *MongoBookingRepo) runInTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// retryOnce retries op a single time on transient (network/timeout)
// failures. Domain outcomes (ErrSlotTaken, ErrNotFound, duplicates)
// propagate immediately.
func retryOnce(op func() error) error {
	err := op()
	if err == nil || !isTransient(err) {
		return err
	}
	return op()
}

func isTransient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
