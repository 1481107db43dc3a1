package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"warbler/internal/apperrors"
	"warbler/internal/domain/entity"
	"warbler/internal/domain/repository"
)

// prefixRangeSentinel is the high Unicode code point closing the prefix
// range, so [prefix, prefix+sentinel) matches every string starting with
// prefix under the store's lexicographic ordering.
const prefixRangeSentinel = "\uf8ff"

type UserRepository struct {
	client *mongo.Client
	users  *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *UserRepository {
	return &UserRepository{client: client, users: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.UserProfile) error {
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Followings == nil {
		u.Followings = []string{}
	}
	if _, err := r.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateUsername
		}
		return apperrors.External("mongodb", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.UserProfile, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.UserProfile, error) {
	u := &entity.UserProfile{}
	if err := r.users.FindOne(ctx, filter).Decode(u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.External("mongodb", err)
	}
	return u, nil
}

func (r *UserRepository) SetProfileImagePath(ctx context.Context, id, path string) error {
	res, err := r.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{"profile_image_path": path}})
	if err != nil {
		return apperrors.External("mongodb", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SearchByUsernamePrefix(ctx context.Context, prefix string) ([]*entity.UserProfile, error) {
	filter := bson.M{}
	if prefix != "" {
		filter["username"] = bson.M{
			"$gte": prefix,
			"$lt":  prefix + prefixRangeSentinel,
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.External("mongodb", err)
	}
	defer cur.Close(ctx)

	out := []*entity.UserProfile{}
	for cur.Next(ctx) {
		u := &entity.UserProfile{}
		if err := cur.Decode(u); err != nil {
			return nil, apperrors.External("mongodb", err)
		}
		out = append(out, u)
	}
	if err := cur.Err(); err != nil {
		return nil, apperrors.External("mongodb", err)
	}
	return out, nil
}

// AddFollow unions the edge into both profiles inside one transaction, so a
// torn state where A follows B but B does not list A cannot persist.
func (r *UserRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, "$addToSet")
}

func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, "$pull")
}

func (r *UserRepository) updateEdge(ctx context.Context, followerID, followeeID, op string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return apperrors.External("mongodb", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.users.UpdateByID(sc, followerID, bson.M{op: bson.M{"followings": followeeID}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, apperrors.ErrNotFound
		}
		res, err = r.users.UpdateByID(sc, followeeID, bson.M{op: bson.M{"followers": followerID}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, apperrors.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.External("mongodb", err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
