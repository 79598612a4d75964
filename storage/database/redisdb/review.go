package redisdb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core/review"
)

type reviewRepository struct {
	coll collection
}

var _ review.Repository = (*reviewRepository)(nil)

func NewReviewRepository(client *redis.Client) review.Repository {
	return &reviewRepository{coll: newCollection(client, "reviews")}
}

func (repo *reviewRepository) CreateReview(ctx context.Context, r review.Review) (review.Review, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := repo.coll.set(ctx, r.ID, r); err != nil {
		return review.Review{}, err
	}
	return r, nil
}

func (repo *reviewRepository) QueryAllReviews(ctx context.Context) ([]review.Review, error) {
	var reviews []review.Review
	err := repo.coll.each(ctx, func(raw string) error {
		var r review.Review
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return errors.Wrap(err, "unmarshalling review")
		}
		reviews = append(reviews, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].SubmittedAt.After(reviews[j].SubmittedAt) })
	return reviews, nil
}

func (repo *reviewRepository) GetReviewByID(ctx context.Context, id string) (review.Review, error) {
	var r review.Review
	found, err := repo.coll.get(ctx, id, &r)
	if err != nil {
		return review.Review{}, err
	}
	if !found {
		return review.Review{}, review.ErrNotFound
	}
	return r, nil
}

func (repo *reviewRepository) UpdateReview(ctx context.Context, r review.Review) (review.Review, error) {
	if _, err := repo.GetReviewByID(ctx, r.ID); err != nil {
		return review.Review{}, err
	}
	if err := repo.coll.set(ctx, r.ID, r); err != nil {
		return review.Review{}, err
	}
	return r, nil
}

func (repo *reviewRepository) DeleteReview(ctx context.Context, id string) error {
	if _, err := repo.GetReviewByID(ctx, id); err != nil {
		return err
	}
	return repo.coll.delete(ctx, id)
}
