package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// ReviewRepo persists service reviews. Visibility mirrors
// appointments: transitive through the owning client unless the
// caller sees everything.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// List returns reviews visible to the caller.
func (r *ReviewRepo) List(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.Review, error) {
	q := "SELECT id,client_id,service_id,rating,comment,created_at FROM reviews ORDER BY created_at"
	args := []any{}
	if vis != scope.All {
		q = `SELECT v.id,v.client_id,v.service_id,v.rating,v.comment,v.created_at
		 FROM reviews v JOIN clients c ON c.id=v.client_id
		 WHERE c.user_id=? ORDER BY v.created_at`
		args = append(args, userID)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Review{}
	for rows.Next() {
		var v model.Review
		if err := rows.Scan(&v.ID, &v.ClientID, &v.ServiceID, &v.Rating, &v.Comment, &v.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// GetByID fetches one review within the caller's scope.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) (model.Review, error) {
	q := "SELECT id,client_id,service_id,rating,comment,created_at FROM reviews WHERE id=? LIMIT 1"
	args := []any{id}
	if vis != scope.All {
		q = `SELECT v.id,v.client_id,v.service_id,v.rating,v.comment,v.created_at
		 FROM reviews v JOIN clients c ON c.id=v.client_id
		 WHERE v.id=? AND c.user_id=? LIMIT 1`
		args = append(args, userID)
	}
	var v model.Review
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(
		&v.ID, &v.ClientID, &v.ServiceID, &v.Rating, &v.Comment, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrNotFound
	}
	return v, err
}

// Create inserts a review with a server-assigned creation time.
func (r *ReviewRepo) Create(ctx context.Context, v *model.Review) error {
	v.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (client_id,service_id,rating,comment,created_at) VALUES (?,?,?,?,?)",
		v.ClientID, v.ServiceID, v.Rating, v.Comment, v.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// Update rewrites rating and comment of a visible review. The owning
// client and creation time are immutable.
func (r *ReviewRepo) Update(ctx context.Context, v *model.Review, vis scope.Visibility, userID uint64) error {
	existing, err := r.GetByID(ctx, v.ID, vis, userID)
	if err != nil {
		return err
	}
	v.ClientID = existing.ClientID
	v.CreatedAt = existing.CreatedAt
	_, err = r.DB.ExecContext(ctx,
		"UPDATE reviews SET service_id=?,rating=?,comment=? WHERE id=?",
		v.ServiceID, v.Rating, v.Comment, v.ID)
	return err
}

// Delete removes a visible review.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) error {
	if _, err := r.GetByID(ctx, id, vis, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	return err
}

// Stats aggregates the caller's visible reviews.
func (r *ReviewRepo) Stats(ctx context.Context, vis scope.Visibility, userID uint64) (model.ReviewStats, error) {
	join, args := "", []any{}
	if vis != scope.All {
		join = " JOIN clients c ON c.id=v.client_id AND c.user_id=?"
		args = append(args, userID)
	}

	var st model.ReviewStats
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(v.rating),
		        COALESCE(SUM(v.rating=5),0), COALESCE(SUM(v.rating=1),0)
		 FROM reviews v`+join,
		args...).Scan(&st.TotalReviews, &avg, &st.FiveStarReviews, &st.OneStarReviews)
	if err != nil {
		return st, err
	}
	if st.TotalReviews == 0 {
		return st, nil
	}
	if avg.Valid {
		st.AvgRating = &avg.Float64
	}

	var most string
	err = r.DB.QueryRowContext(ctx,
		`SELECT s.name FROM reviews v`+join+`
		 JOIN services s ON s.id=v.service_id
		 GROUP BY s.id, s.name ORDER BY COUNT(*) DESC, s.id LIMIT 1`,
		args...).Scan(&most)
	if err == nil {
		st.MostReviewedService = &most
	} else if err != sql.ErrNoRows {
		return st, err
	}
	return st, nil
}
