package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"warbler/internal/apperrors"
	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
)

type PostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{posts: db.Collection(PostsCollection)}
}

func (r *PostRepository) Insert(ctx context.Context, p *entity.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.posts.InsertOne(ctx, p); err != nil {
		return apperrors.External("mongodb", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, ownerID, postID string) (*entity.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		// Malformed ids cannot reference any post.
		return nil, apperrors.ErrNotFound
	}
	p := &entity.Post{}
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid, "owner_id": ownerID}).Decode(p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.External("mongodb", err)
	}
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": p.ID, "owner_id": p.OwnerID},
		bson.M{"$set": bson.M{"text": p.Text, "image_path": p.ImagePath}},
	)
	if err != nil {
		return apperrors.External("mongodb", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, ownerID, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return apperrors.ErrNotFound
	}
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid, "owner_id": ownerID})
	if err != nil {
		return apperrors.External("mongodb", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]*entity.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

func (r *PostRepository) SearchTextPrefix(ctx context.Context, ownerID, prefix string) ([]*entity.Post, error) {
	filter := bson.M{
		"owner_id": ownerID,
		"text": bson.M{
			"$gte": prefix,
			"$lt":  prefix + prefixRangeSentinel,
		},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "text", Value: 1}}))
}

func (r *PostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Post, error) {
	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.External("mongodb", err)
	}
	defer cur.Close(ctx)

	out := []*entity.Post{}
	for cur.Next(ctx) {
		p := &entity.Post{}
		if err := cur.Decode(p); err != nil {
			return nil, apperrors.External("mongodb", err)
		}
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, apperrors.External("mongodb", err)
	}
	return out, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
