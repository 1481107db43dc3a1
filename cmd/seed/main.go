// Seeds demo profiles and posts for local development and prints a signed
// identity token per user so the app can be exercised without the external
// identity provider.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"warbler/config"
	"warbler/internal/domain/entity"
	"warbler/internal/infrastructure/mongodb"
	"warbler/pkg/identity"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := db.Collection(mongodb.UsersCollection)
	posts := db.Collection(mongodb.PostsCollection)

	profiles := []entity.UserProfile{
		{ID: "seed-alice", Username: "alice", Email: "alice@example.com", Followers: []string{}, Followings: []string{"seed-bob"}},
		{ID: "seed-bob", Username: "bob", Email: "bob@example.com", Followers: []string{"seed-alice"}, Followings: []string{}},
	}
	for _, p := range profiles {
		_, err := users.UpdateByID(ctx, p.ID,
			bson.M{"$setOnInsert": p},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("failed to seed profile %s: %v", p.Username, err)
		}
	}

	now := time.Now().UTC()
	demo := []entity.Post{
		{OwnerID: "seed-alice", Text: "hello", AuthorUsername: "alice", AuthorEmail: "alice@example.com", CreatedAt: now.Add(-2 * time.Hour)},
		{OwnerID: "seed-bob", Text: "hi", AuthorUsername: "bob", AuthorEmail: "bob@example.com", CreatedAt: now.Add(-1 * time.Hour)},
	}
	for _, p := range demo {
		n, err := posts.CountDocuments(ctx, bson.M{"owner_id": p.OwnerID, "text": p.Text})
		if err != nil {
			log.Fatalf("failed to check seed post: %v", err)
		}
		if n > 0 {
			continue
		}
		if _, err := posts.InsertOne(ctx, p); err != nil {
			log.Fatalf("failed to seed post: %v", err)
		}
	}

	verifier := identity.NewJWTVerifier(cfg.TokenSecret)
	for _, p := range profiles {
		token, exp, err := verifier.GenerateToken(p.ID, p.Email, 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to mint token for %s: %v", p.Username, err)
		}
		fmt.Printf("seeded %-6s id=%s token (valid until %s):\n%s\n\n", p.Username, p.ID, exp.Format(time.RFC3339), token)
	}
}
