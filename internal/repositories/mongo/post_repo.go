package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PostRepository interface {
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

type postRepo struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepository {
	return &postRepo{col: db.Collection("posts")}
}

func (r *postRepo) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
