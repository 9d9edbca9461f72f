package store

import (
	"SecondBrain/internal/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const documentsCollection = "documents"

// MongoDocumentStore is a DocumentStore backed by MongoDB.
type MongoDocumentStore struct {
	collection *mongo.Collection
}

// NewMongoDocumentStore creates a new MongoDocumentStore.
func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{collection: db.Collection(documentsCollection)}
}

// Create inserts a new document record.
func (s *MongoDocumentStore) Create(ctx context.Context, doc *models.DocumentRecord) error {
	_, err := s.collection.InsertOne(ctx, doc)
	return err
}

// GetByID retrieves a document by id, scoped to its owner.
func (s *MongoDocumentStore) GetByID(ctx context.Context, userID, id string) (*models.DocumentRecord, error) {
	var doc models.DocumentRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// MarkProcessed records a successful processing run.
func (s *MongoDocumentStore) MarkProcessed(ctx context.Context, id, memoryID, preview string) error {
	update := bson.M{"$set": bson.M{
		"status":          models.DocumentProcessed,
		"memory_id":       memoryID,
		"content_preview": preview,
		"updated_at":      time.Now().UTC(),
	}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// MarkFailed records a failed processing run.
func (s *MongoDocumentStore) MarkFailed(ctx context.Context, id, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":     models.DocumentFailed,
		"error":      reason,
		"updated_at": time.Now().UTC(),
	}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

var _ DocumentStore = (*MongoDocumentStore)(nil)
