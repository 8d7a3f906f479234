package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"tsumego/internal/adapters"
	"tsumego/internal/domain/comment"
)

type CommentStorage struct {
	log   *zap.SugaredLogger
	mongo *adapters.AdapterMongo
}

func NewCommentStorage(log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo) *CommentStorage {
	return &CommentStorage{
		log:   log,
		mongo: mongoAdapter,
	}
}

func (c *CommentStorage) AddComment(ctx context.Context, cm comment.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.mongo.Database.Collection("comments").InsertOne(ctx, cm); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	c.log.Infof("comment %s added to task %d at %q", cm.ID, cm.TaskNumber, cm.Path)
	return nil
}

// GetCommentsByTask returns the live comments of a problem, oldest first.
func (c *CommentStorage) GetCommentsByTask(ctx context.Context, taskNumber int) ([]comment.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"task_number": taskNumber, "alive": true}
	opts := options.Find().SetSort(bson.D{{Key: "entered", Value: 1}})
	cursor, err := c.mongo.Database.Collection("comments").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []comment.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
