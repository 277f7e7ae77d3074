package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"autoreel/internal/models"
	"autoreel/shared/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store persists managed videos in a MongoDB collection.
type Store struct {
	client *mongo.Client
	videos *mongo.Collection
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("MongoDB URI is required (set MONGODB_URI or mongo.uri)")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client: client,
		videos: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// InsertVideo adds a managed video. Upload date, status and platform
// get their defaults when the caller left them unset.
func (s *Store) InsertVideo(ctx context.Context, video models.ManagedVideo) (primitive.ObjectID, error) {
	if video.UploadDate.IsZero() {
		video.UploadDate = time.Now().UTC()
	}
	if video.Status == "" {
		video.Status = models.StatusUploaded
	}
	if video.Platform == "" {
		video.Platform = models.PlatformYouTube
	}

	result, err := s.videos.InsertOne(ctx, video)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert managed video: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}

	log.Printf("Stored managed video %q (%s)", video.Title, id.Hex())
	return id, nil
}

// ListVideos returns every managed video, most recently uploaded first.
func (s *Store) ListVideos(ctx context.Context) ([]models.ManagedVideo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}})

	cursor, err := s.videos.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed videos: %w", err)
	}
	defer cursor.Close(ctx)

	var videos []models.ManagedVideo
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode managed videos: %w", err)
	}

	return videos, nil
}

// UpdateStats refreshes the engagement counters for one managed video.
func (s *Store) UpdateStats(ctx context.Context, id primitive.ObjectID, views, likes, comments int64) error {
	update := bson.M{"$set": bson.M{
		"views":    views,
		"likes":    likes,
		"comments": comments,
	}}

	result, err := s.videos.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("managed video %s not found", id.Hex())
	}

	return nil
}

// ComputeInsights totals the counters over every managed video. The
// average engagement rate is taken over the totals and is zero when no
// video has views yet.
func ComputeInsights(videos []models.ManagedVideo) models.VideoInsights {
	insights := models.VideoInsights{TotalVideos: len(videos)}

	for i := range videos {
		insights.TotalViews += videos[i].Views
		insights.TotalLikes += videos[i].Likes
		insights.TotalComments += videos[i].Comments
	}

	if insights.TotalViews > 0 {
		insights.AverageEngagementRate = float64(insights.TotalLikes+insights.TotalComments) / float64(insights.TotalViews)
	}

	return insights
}
