package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/annel0/arpg-engine/internal/save"
)

// MongoConfig contains connection settings for MongoDB save repository.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // e.g. arpg
	Collection string // e.g. saves
	Timeout    time.Duration
}

// saveDocument документ слота; level/money/saved_at дублируют blob для List
type saveDocument struct {
	Slot    string    `bson:"_id"`
	Level   int       `bson:"level"`
	Money   int       `bson:"money"`
	SavedAt time.Time `bson:"saved_at"`
	Blob    []byte    `bson:"blob"`
}

// MongoSaveRepository implements SaveRepository on MongoDB backend.
type MongoSaveRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	codec      *Codec
	timeout    time.Duration
}

// NewMongoSaveRepository establishes connection and returns repository.
func NewMongoSaveRepository(cfg MongoConfig, codec *Codec) (*MongoSaveRepository, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "arpg"
	}
	if cfg.Collection == "" {
		cfg.Collection = "saves"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MongoDB: %w", err)
	}
	// ping
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("не удалось проверить соединение с MongoDB: %w", err)
	}

	return &MongoSaveRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		codec:      codec,
		timeout:    cfg.Timeout,
	}, nil
}

// Save записывает слот (upsert)
func (m *MongoSaveRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	blob, err := m.codec.Encode(d)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	doc := saveDocument{Slot: slot, Level: d.Level, Money: d.Money, SavedAt: d.SavedAt, Blob: blob}
	_, err = m.collection.ReplaceOne(ctx, bson.M{"_id": slot}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ошибка записи слота %s в MongoDB: %w", slot, err)
	}
	return nil
}

// Load читает слот
func (m *MongoSaveRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	if err := ValidateSlot(slot); err != nil {
		return save.SaveData{}, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	var doc saveDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return save.SaveData{}, false, nil
	}
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("ошибка чтения слота %s из MongoDB: %w", slot, err)
	}
	d, err := m.codec.Decode(doc.Blob)
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("слот %s: %w", slot, err)
	}
	return d, true, nil
}

// Delete удаляет слот
func (m *MongoSaveRepository) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": slot}); err != nil {
		return fmt.Errorf("ошибка удаления слота %s из MongoDB: %w", slot, err)
	}
	return nil
}

// List читает сводку слотов без распаковки blob
func (m *MongoSaveRepository) List(ctx context.Context) ([]SlotInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"blob": 0})
	cur, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка слотов из MongoDB: %w", err)
	}
	defer cur.Close(ctx)

	infos := []SlotInfo{}
	for cur.Next(ctx) {
		var doc saveDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		infos = append(infos, SlotInfo{Slot: doc.Slot, Level: doc.Level, Money: doc.Money, SavedAt: doc.SavedAt})
	}
	return infos, cur.Err()
}

// Close отключает клиента
func (m *MongoSaveRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// drop удаляет коллекцию (для тестов)
func (m *MongoSaveRepository) drop(ctx context.Context) error {
	return m.collection.Drop(ctx)
}
