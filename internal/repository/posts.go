package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

// Stories

func (s *Store) CreateStory(ctx context.Context, story model.Story) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collStories).InsertOne(ctx, story)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) GetStory(ctx context.Context, id primitive.ObjectID) (model.Story, error) {
	var story model.Story
	err := s.db.Collection(collStories).FindOne(ctx, bson.M{"_id": id}).Decode(&story)
	return story, mapReadErr(err)
}

func (s *Store) ListStories(ctx context.Context) ([]model.Story, error) {
	cursor, err := s.db.Collection(collStories).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var stories []model.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

type StoryUpdate struct {
	Title   *string   `bson:"title,omitempty"`
	Content *string   `bson:"content,omitempty"`
	Images  *[]string `bson:"images,omitempty"`
}

func (s *Store) UpdateStory(ctx context.Context, id primitive.ObjectID, update StoryUpdate) error {
	res, err := s.db.Collection(collStories).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteStory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collStories).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Community posts

func (s *Store) CreateCommunityPost(ctx context.Context, post model.CommunityPost) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collCommunity).InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) ListCommunityPosts(ctx context.Context) ([]model.CommunityPost, error) {
	cursor, err := s.db.Collection(collCommunity).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var posts []model.CommunityPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Blog posts

func (s *Store) CreateBlogPost(ctx context.Context, post model.BlogPost) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collBlogs).InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Store) GetBlogPost(ctx context.Context, id primitive.ObjectID) (model.BlogPost, error) {
	var post model.BlogPost
	err := s.db.Collection(collBlogs).FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	return post, mapReadErr(err)
}

func (s *Store) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	cursor, err := s.db.Collection(collBlogs).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var posts []model.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type BlogUpdate struct {
	Title    *string `bson:"title,omitempty"`
	Content  *string `bson:"content,omitempty"`
	CoverURL *string `bson:"coverURL,omitempty"`
}

func (s *Store) UpdateBlogPost(ctx context.Context, id primitive.ObjectID, update BlogUpdate) error {
	res, err := s.db.Collection(collBlogs).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBlogPost(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(collBlogs).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
