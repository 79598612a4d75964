package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/alyusr/institute/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil)

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) CreateReview(_ context.Context, r review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reviewRepository) QueryAllReviews(_ context.Context) ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reviews := make([]review.Review, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		reviews = append(reviews, *r)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].SubmittedAt.After(reviews[j].SubmittedAt) })
	return reviews, nil
}

func (repo *reviewRepository) GetReviewByID(_ context.Context, id string) (review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) UpdateReview(_ context.Context, r review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return review.Review{}, review.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reviewRepository) DeleteReview(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return review.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
