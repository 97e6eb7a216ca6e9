package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	daresCollection       = "dares"
	submissionsCollection = "submissions"
)

// MongoStore keeps dares and submissions as documents.
type MongoStore struct {
	client      *mongo.Client
	dares       *mongo.Collection
	submissions *mongo.Collection
}

// OpenMongo connects to uri, selects database and ensures the unique
// sequence indexes exist.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:      client,
		dares:       db.Collection(daresCollection),
		submissions: db.Collection(submissionsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.dares.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dareNumber", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to index dares: %w", err)
	}
	if _, err := s.submissions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submissionNumber", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "dareNumber", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to index submissions: %w", err)
	}
	return nil
}

// lastNumber returns the highest value of field in coll, 0 when empty.
func lastNumber(ctx context.Context, coll *mongo.Collection, field string) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.D{{Key: field, Value: 1}})

	var doc bson.M
	err := coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	switch v := doc[field].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected %s type %T", field, v)
	}
}

func (s *MongoStore) CreateDare(ctx context.Context, d *Dare) error {
	if err := d.Validate(); err != nil {
		return err
	}
	last, err := lastNumber(ctx, s.dares, "dareNumber")
	if err != nil {
		return fmt.Errorf("failed to read last dare number: %w", err)
	}
	d.DareNumber = last + 1
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
	if _, err := s.dares.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert dare: %w", err)
	}
	return nil
}

func (s *MongoStore) DareByNumber(ctx context.Context, number int64) (*Dare, error) {
	var d Dare
	err := s.dares.FindOne(ctx, bson.D{{Key: "dareNumber", Value: number}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dare %d: %w", number, err)
	}
	return &d, nil
}

func (s *MongoStore) CreateSubmission(ctx context.Context, sub *Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	last, err := lastNumber(ctx, s.submissions, "submissionNumber")
	if err != nil {
		return fmt.Errorf("failed to read last submission number: %w", err)
	}
	sub.SubmissionNumber = last + 1
	if sub.Timestamp.IsZero() {
		sub.Timestamp = time.Now().UTC()
	}
	if _, err := s.submissions.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (s *MongoStore) SubmissionsForDare(ctx context.Context, dareNumber int64) ([]Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submissionNumber", Value: 1}})
	cur, err := s.submissions.Find(ctx, bson.D{{Key: "dareNumber", Value: dareNumber}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for dare %d: %w", dareNumber, err)
	}
	var subs []Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return subs, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
