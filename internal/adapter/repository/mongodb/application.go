package mongodb

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	domain "kamikaya-backend/internal/domain/application"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "loan_applications"

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}

type ApplicationRepository struct {
	coll    *mongo.Collection
	lastSeq atomic.Int64
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the indexes backing the list and filter queries.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: newestFirst},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}},
	})
	return err
}

// nextSeq hands out strictly increasing insertion sequence numbers.
func (r *ApplicationRepository) nextSeq() int64 {
	for {
		last := r.lastSeq.Load()
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if r.lastSeq.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.LoanApplication) error {
	if a.Seq == 0 {
		a.Seq = r.nextSeq()
	}
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	var out domain.LoanApplication
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func filterDoc(f domain.Filter) bson.M {
	q := bson.M{}
	if f.Status != nil {
		q["status"] = *f.Status
	}
	return q
}

func (r *ApplicationRepository) List(ctx context.Context, f domain.Filter, skip, limit int) ([]domain.LoanApplication, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.LoanApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, f domain.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, filterDoc(f))
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, s domain.Status, updatedAt time.Time, ifUpdatedAt *time.Time) error {
	filter := bson.M{"_id": id}
	if ifUpdatedAt != nil {
		filter["updated_at"] = *ifUpdatedAt
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"status": s, "updated_at": updatedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if ifUpdatedAt == nil {
		return domain.ErrNotFound
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func countIf(status domain.Status) bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$status", string(status)}}}, 1, 0,
	}}}}}
}

func (r *ApplicationRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "pending", Value: countIf(domain.StatusPending)},
			{Key: "under_review", Value: countIf(domain.StatusUnderReview)},
			{Key: "approved", Value: countIf(domain.StatusApproved)},
			{Key: "rejected", Value: countIf(domain.StatusRejected)},
			{Key: "total_loan_amount", Value: bson.D{{Key: "$sum", Value: "$loan_amount"}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out domain.Stats
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return nil, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return &out, nil
}
