package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"tsumego/internal/bootstrap"
	appErrors "tsumego/internal/errors"
)

const recordKeyPrefix = "record:"

type recordDocument struct {
	ID      string    `bson:"_id"`
	SGF     string    `bson:"sgf"`
	Updated time.Time `bson:"updated"`
}

// RecordRepository keeps open records in Redis with an expiry and archives
// every save in Mongo, so an expired record can be reopened.
type RecordRepository struct {
	cfg   *bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewRecordRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *RecordRepository {
	return &RecordRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func recordKey(id string) string {
	return recordKeyPrefix + id
}

func (r *RecordRepository) SaveRecord(ctx context.Context, id string, sgfText string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.redis.Set(ctx, recordKey(id), sgfText, r.cfg.RecordTTL).Err(); err != nil {
		return fmt.Errorf("failed to save record to redis: %w", err)
	}

	doc := recordDocument{ID: id, SGF: sgfText, Updated: time.Now()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.mongo.Collection("records").ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		r.log.Errorf("failed to archive record %s: %v", id, err)
	}
	return nil
}

func (r *RecordRepository) LoadRecord(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sgfText, err := r.redis.Get(ctx, recordKey(id)).Result()
	if err == nil {
		return sgfText, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to load record from redis: %w", err)
	}

	var doc recordDocument
	err = r.mongo.Collection("records").FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", appErrors.ErrRecordNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to load record from mongo: %w", err)
	}

	if err = r.redis.Set(ctx, recordKey(id), doc.SGF, r.cfg.RecordTTL).Err(); err != nil {
		r.log.Warnw("failed to warm record cache", "id", id, "error", err)
	}
	return doc.SGF, nil
}

func (r *RecordRepository) DeleteRecord(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.redis.Del(ctx, recordKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete record from redis: %w", err)
	}
	if _, err := r.mongo.Collection("records").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete record from mongo: %w", err)
	}
	return nil
}
