package store

import (
	"SecondBrain/internal/models"
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	memoriesCollection  = "memories"
	knowledgeCollection = "entity_knowledge"
)

// MongoMemoryStore is a MemoryStore backed by a MongoDB collection.
type MongoMemoryStore struct {
	collection *mongo.Collection
}

// NewMongoMemoryStore creates a new MongoMemoryStore.
func NewMongoMemoryStore(db *mongo.Database) *MongoMemoryStore {
	return &MongoMemoryStore{collection: db.Collection(memoriesCollection)}
}

// Insert stores a new memory record.
func (s *MongoMemoryStore) Insert(ctx context.Context, record *models.MemoryRecord) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// GetByID retrieves a memory record by id, scoped to its owner.
func (s *MongoMemoryStore) GetByID(ctx context.Context, userID, id string) (*models.MemoryRecord, error) {
	var record models.MemoryRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Search runs a $text search over record content, ordered by text score.
func (s *MongoMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]*models.MemoryRecord, error) {
	filter := bson.M{
		"user_id": userID,
		"$text":   bson.M{"$search": query},
	}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.MemoryRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MongoKnowledgeStore is a KnowledgeStore backed by a MongoDB collection.
type MongoKnowledgeStore struct {
	collection *mongo.Collection
}

// NewMongoKnowledgeStore creates a new MongoKnowledgeStore.
func NewMongoKnowledgeStore(db *mongo.Database) *MongoKnowledgeStore {
	return &MongoKnowledgeStore{collection: db.Collection(knowledgeCollection)}
}

// AddMention performs an atomic increment-or-insert against the
// (user_id, entity_name, entity_type) key. Together with the unique compound
// index this guarantees a single knowledge record per key even when two
// writers race on a brand-new entity.
func (s *MongoKnowledgeStore) AddMention(ctx context.Context, userID string, entity models.ExtractedEntity, mention models.Mention) error {
	now := time.Now().UTC()
	filter := bson.M{
		"user_id":     userID,
		"entity_name": entity.Name,
		"entity_type": entity.Type,
	}
	update := bson.M{
		"$push": bson.M{"mentions": mention},
		"$inc":  bson.M{"mention_count": 1},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"created_at": now,
		},
	}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByName looks up knowledge by case-insensitive substring match on the
// entity name. The query is quoted so metacharacters match literally. With
// multiple matches the store's natural first document wins.
func (s *MongoKnowledgeStore) FindByName(ctx context.Context, userID, name string) (*models.EntityKnowledge, error) {
	filter := bson.M{
		"user_id":     userID,
		"entity_name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"},
	}
	var knowledge models.EntityKnowledge
	err := s.collection.FindOne(ctx, filter).Decode(&knowledge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &knowledge, nil
}

// List returns the user's knowledge records sorted by mention count
// descending, optionally filtered by entity type.
func (s *MongoKnowledgeStore) List(ctx context.Context, userID string, entityType models.EntityType, limit int) ([]*models.EntityKnowledge, error) {
	filter := bson.M{"user_id": userID}
	if entityType != "" {
		filter["entity_type"] = entityType
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "mention_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.EntityKnowledge
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the indexes the stores rely on: the text index
// backing memory search and the unique compound index enforcing one knowledge
// record per (user, name, type).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(memoriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "content", Value: "text"}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(knowledgeCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "entity_name", Value: 1},
				{Key: "entity_type", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "mention_count", Value: -1}}},
	})
	return err
}

var (
	_ MemoryStore    = (*MongoMemoryStore)(nil)
	_ KnowledgeStore = (*MongoKnowledgeStore)(nil)
)
