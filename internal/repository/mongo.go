package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/andrewsflike/officemessenger/internal/config"
	"github.com/andrewsflike/officemessenger/internal/domain"
)

const (
	broadcastCollection = "messages"
	directCollection    = "private_messages"
)

// MongoMessageRepository implements MessageRepository on MongoDB.
type MongoMessageRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoMessageRepository connects to MongoDB and verifies the connection
// with a ping before returning.
func NewMongoMessageRepository(ctx context.Context, cfg config.MongoConfig) (*MongoMessageRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoMessageRepository{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

type broadcastDoc struct {
	ID        string    `bson:"_id"`
	Author    string    `bson:"user"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

type directDoc struct {
	ID         string    `bson:"_id"`
	FromUserID string    `bson:"from_user_id"`
	ToUserID   string    `bson:"to_user_id"`
	Text       string    `bson:"text"`
	Timestamp  time.Time `bson:"timestamp"`
}

func (r *MongoMessageRepository) SaveBroadcast(ctx context.Context, msg *domain.BroadcastMessage) error {
	doc := broadcastDoc{
		ID:        msg.ID,
		Author:    msg.Author,
		Text:      msg.Text,
		Timestamp: msg.Timestamp.Time,
	}
	if _, err := r.db.Collection(broadcastCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert broadcast: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *MongoMessageRepository) ListBroadcasts(ctx context.Context) ([]domain.BroadcastMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.db.Collection(broadcastCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list broadcasts: %v", domain.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var messages []domain.BroadcastMessage
	for cur.Next(ctx) {
		var doc broadcastDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode broadcast: %v", domain.ErrStoreUnavailable, err)
		}
		messages = append(messages, domain.BroadcastMessage{
			ID:        doc.ID,
			Author:    doc.Author,
			Text:      doc.Text,
			Timestamp: domain.NewTimestamp(doc.Timestamp),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate broadcasts: %v", domain.ErrStoreUnavailable, err)
	}
	return messages, nil
}

func (r *MongoMessageRepository) SaveDirect(ctx context.Context, msg *domain.DirectMessage) error {
	doc := directDoc{
		ID:         msg.ID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Text:       msg.Text,
		Timestamp:  msg.Timestamp.Time,
	}
	if _, err := r.db.Collection(directCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert direct: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *MongoMessageRepository) ListDirectBetween(ctx context.Context, a, b string) ([]domain.DirectMessage, error) {
	filter := bson.M{"$or": []bson.M{
		{"from_user_id": a, "to_user_id": b},
		{"from_user_id": b, "to_user_id": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cur, err := r.db.Collection(directCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list directs: %v", domain.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var messages []domain.DirectMessage
	for cur.Next(ctx) {
		var doc directDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode direct: %v", domain.ErrStoreUnavailable, err)
		}
		messages = append(messages, domain.DirectMessage{
			ID:         doc.ID,
			FromUserID: doc.FromUserID,
			ToUserID:   doc.ToUserID,
			Text:       doc.Text,
			Timestamp:  domain.NewTimestamp(doc.Timestamp),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate directs: %v", domain.ErrStoreUnavailable, err)
	}
	return messages, nil
}

func (r *MongoMessageRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
