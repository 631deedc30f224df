package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

type fakeReviewStore struct {
	created []model.Review
	lastVis scope.Visibility
}

func (f *fakeReviewStore) List(_ context.Context, vis scope.Visibility, _ uint64) ([]model.Review, error) {
	f.lastVis = vis
	return []model.Review{}, nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id uint64, vis scope.Visibility, _ uint64) (model.Review, error) {
	f.lastVis = vis
	return model.Review{ID: id}, nil
}

func (f *fakeReviewStore) Create(_ context.Context, v *model.Review) error {
	v.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *v)
	return nil
}

func (f *fakeReviewStore) Update(_ context.Context, v *model.Review, vis scope.Visibility, _ uint64) error {
	f.lastVis = vis
	return nil
}

func (f *fakeReviewStore) Delete(_ context.Context, _ uint64, vis scope.Visibility, _ uint64) error {
	f.lastVis = vis
	return nil
}

func (f *fakeReviewStore) Stats(_ context.Context, vis scope.Visibility, _ uint64) (model.ReviewStats, error) {
	f.lastVis = vis
	return model.ReviewStats{}, nil
}

func TestReviewCreateValidatesRating(t *testing.T) {
	store := &fakeReviewStore{}
	finder := &fakeClientFinder{byUser: map[uint64]model.Client{2: {ID: 11}}}
	h := NewReviewHandler(store, finder)

	for _, rating := range []string{"0", "6", "-1"} {
		rec, c := clientCtx(http.MethodPost, "/api/reviews/",
			`{"service":1,"rating":`+rating+`,"comment":"meh"}`, 2, false)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %s", rating)
	}
	assert.Empty(t, store.created)

	rec, c := clientCtx(http.MethodPost, "/api/reviews/", `{"service":1,"rating":5,"comment":"great"}`, 2, false)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, uint64(11), store.created[0].ClientID, "review binds to the caller's client profile")
}

func TestReviewCreateWithoutClientProfile(t *testing.T) {
	h := NewReviewHandler(&fakeReviewStore{}, &fakeClientFinder{byUser: map[uint64]model.Client{}})
	rec, c := clientCtx(http.MethodPost, "/api/reviews/", `{"service":1,"rating":4}`, 2, false)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Client profile not found for current user")
}

func TestReviewListScoping(t *testing.T) {
	store := &fakeReviewStore{}
	h := NewReviewHandler(store, &fakeClientFinder{})

	_, c := clientCtx(http.MethodGet, "/api/reviews/", "", 2, false)
	require.NoError(t, h.List(c))
	assert.Equal(t, scope.OwnViaClient, store.lastVis)

	_, c = clientCtx(http.MethodGet, "/api/reviews/", "", 1, true)
	require.NoError(t, h.List(c))
	assert.Equal(t, scope.All, store.lastVis)
}
