package repository

import (
	"context"
	"database/sql"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

// ServiceRepo persists catalog services. The catalog is shared data;
// no scoping applies.
type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// List returns the full service catalog.
func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,price,duration_min,picture FROM services ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Service{}
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.DurationMin, &s.Picture); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetByID fetches one service.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,price,duration_min,picture FROM services WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.Price, &s.DurationMin, &s.Picture)
	if err == sql.ErrNoRows {
		return model.Service{}, ErrNotFound
	}
	return s, err
}

// Create inserts a service and sets its ID.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO services (name,price,duration_min,picture) VALUES (?,?,?,?)",
		s.Name, s.Price, s.DurationMin, s.Picture)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of a service.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE services SET name=?,price=?,duration_min=?,picture=? WHERE id=?",
		s.Name, s.Price, s.DurationMin, s.Picture, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a service. FK constraints from clients, appointments
// or reviews surface here as driver errors for the handler to report.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM services WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the whole catalog in one query.
func (r *ServiceRepo) Stats(ctx context.Context) (model.ServiceStats, error) {
	var st model.ServiceStats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(price),0), COALESCE(MAX(price),0), COALESCE(MIN(price),0),
		        COALESCE(AVG(duration_min),0), COALESCE(SUM(price),0)
		 FROM services`).Scan(
		&st.TotalServices, &st.AvgPrice, &st.MaxPrice, &st.MinPrice,
		&st.AvgDuration, &st.TotalRevenue)
	return st, err
}
