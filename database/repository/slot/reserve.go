// File: database/repository/slot/reserve.go
package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barberbook/models"
)

// futureFilter matches slots whose start is strictly after now.
func futureFilter(now time.Time) bson.M {
	today := now.Format("2006-01-02")
	minutes := now.Hour()*60 + now.Minute()
	return bson.M{"$or": bson.A{
		bson.M{"date": bson.M{"$gt": today}},
		bson.M{"date": today, "start": bson.M{"$gt": minutes}},
	}}
}

// Reserve atomically claims a free, future slot for a customer. Under
// concurrent attempts on the same slot exactly one caller gets the document
// back; the rest get ErrSlotTaken.
func (r *mongoSlotRepo) Reserve(ctx context.Context, slotID, customerID string, now time.Time) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       slotID,
		"isBooked": false,
		"$and":     bson.A{futureFilter(now)},
	}
	update := bson.M{"$set": bson.M{"isBooked": true, "bookedBy": customerID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to reserve slot: %w", err)
	}
	return &slot, nil
}

// Release frees a slot after cancellation or reschedule.
func (r *mongoSlotRepo) Release(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"isBooked": false}, "$unset": bson.M{"bookedBy": ""}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reassign moves a reservation from oldSlotID to newSlotID in one
// transaction: either both the release and the new reservation commit, or
// neither does.
func (r *mongoSlotRepo) Reassign(ctx context.Context, oldSlotID, newSlotID, customerID string, now time.Time) (*models.Slot, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var reserved models.Slot

	txnFn := func(sc mongo.SessionContext) error {
		reserveFilter := bson.M{
			"id":       newSlotID,
			"isBooked": false,
			"$and":     bson.A{futureFilter(now)},
		}
		update := bson.M{"$set": bson.M{"isBooked": true, "bookedBy": customerID}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := r.coll.FindOneAndUpdate(sc, reserveFilter, update, opts).Decode(&reserved); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrSlotTaken
			}
			return fmt.Errorf("reserve target slot failed: %w", err)
		}

		releaseUpdate := bson.M{"$set": bson.M{"isBooked": false}, "$unset": bson.M{"bookedBy": ""}}
		res, err := r.coll.UpdateOne(sc, bson.M{"id": oldSlotID, "isBooked": true}, releaseUpdate)
		if err != nil {
			return fmt.Errorf("release old slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reschedule transaction failed: %w", err)
	}

	return &reserved, nil
}
