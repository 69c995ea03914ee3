// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barberbook/models"
)

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.Slot) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	created := make([]models.Slot, len(slots))
	now := time.Now().UTC()
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		created[i] = slot
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *mongoSlotRepo) DeleteByID(ctx context.Context, barberID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID, "barberId": barberID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if slot.IsBooked {
		return ErrSlotBooked
	}

	// isBooked is re-checked in the filter so a racing reservation wins.
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "barberId": barberID, "isBooked": false})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSlotBooked
	}
	return nil
}

func (r *mongoSlotRepo) DeleteMany(ctx context.Context, barberID, date string, start, end *int, unbookedOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"barberId": barberID, "date": date}
	if start != nil {
		filter["start"] = bson.M{"$gte": *start}
	}
	if end != nil {
		filter["end"] = bson.M{"$lte": *end}
	}

	if !unbookedOnly {
		booked, err := r.coll.CountDocuments(ctx, mergeFilter(filter, bson.M{"isBooked": true}))
		if err != nil {
			return 0, err
		}
		if booked > 0 {
			return 0, ErrSlotBooked
		}
	}

	res, err := r.coll.DeleteMany(ctx, mergeFilter(filter, bson.M{"isBooked": false}))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func mergeFilter(base, extra bson.M) bson.M {
	out := bson.M{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
