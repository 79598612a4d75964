package inmemdb

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/alyusr/institute/core/form"
)

type formRepository struct {
	db *formTable
}

var _ form.Repository = (*formRepository)(nil)

func NewFormRepository(db *DB) form.Repository {
	return &formRepository{db: db.form}
}

func (repo *formRepository) collection(t form.Type) map[string]*form.Submission {
	coll, ok := repo.db.table[t]
	if !ok {
		coll = make(map[string]*form.Submission)
		repo.db.table[t] = coll
	}
	return coll
}

func (repo *formRepository) AppendSubmission(_ context.Context, sub form.Submission) (form.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.collection(sub.Type)[sub.ID] = &sub
	return sub, nil
}

func (repo *formRepository) QuerySubmissions(_ context.Context, t form.Type) ([]form.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	coll := repo.db.table[t]
	subs := make([]form.Submission, 0, len(coll))
	for _, sub := range coll {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *formRepository) GetSubmission(_ context.Context, t form.Type, id string) (form.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[t][id]; ok {
		return *sub, nil
	}
	return form.Submission{}, form.ErrSubmissionNotFound
}

func (repo *formRepository) UpdateSubmission(_ context.Context, sub form.Submission) (form.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sub.Type][sub.ID]; !ok {
		return form.Submission{}, form.ErrSubmissionNotFound
	}
	repo.db.table[sub.Type][sub.ID] = &sub
	return sub, nil
}

func (repo *formRepository) NewsletterEmailExists(_ context.Context, email string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.table[form.TypeNewsletter] {
		var payload form.Newsletter
		if err := json.Unmarshal(sub.Data, &payload); err != nil {
			continue
		}
		if strings.EqualFold(payload.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
