package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// AppointmentRepo persists bookings. Visibility is transitive
// through the client profile: the scope.Visibility argument decides
// whether queries are filtered to the caller's clients or left open.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// List returns appointments visible to the caller.
func (r *AppointmentRepo) List(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.Appointment, error) {
	q := "SELECT id,client_id,service_id,master_id,starts_at FROM appointments ORDER BY starts_at"
	args := []any{}
	if vis != scope.All {
		q = `SELECT a.id,a.client_id,a.service_id,a.master_id,a.starts_at
		 FROM appointments a JOIN clients c ON c.id=a.client_id
		 WHERE c.user_id=? ORDER BY a.starts_at`
		args = append(args, userID)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.ServiceID, &a.MasterID, &a.StartsAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// GetByID fetches one appointment within the caller's scope.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) (model.Appointment, error) {
	q := "SELECT id,client_id,service_id,master_id,starts_at FROM appointments WHERE id=? LIMIT 1"
	args := []any{id}
	if vis != scope.All {
		q = `SELECT a.id,a.client_id,a.service_id,a.master_id,a.starts_at
		 FROM appointments a JOIN clients c ON c.id=a.client_id
		 WHERE a.id=? AND c.user_id=? LIMIT 1`
		args = append(args, userID)
	}
	var a model.Appointment
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(
		&a.ID, &a.ClientID, &a.ServiceID, &a.MasterID, &a.StartsAt)
	if err == sql.ErrNoRows {
		return model.Appointment{}, ErrNotFound
	}
	return a, err
}

// Create inserts an appointment and sets its ID. The owning client
// must already be resolved by the caller (create-time binding).
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO appointments (client_id,service_id,master_id,starts_at) VALUES (?,?,?,?)",
		a.ClientID, a.ServiceID, a.MasterID, a.StartsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// Update rewrites service, master and start time of a visible
// appointment. The owning client is never reassigned.
func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment, vis scope.Visibility, userID uint64) error {
	if _, err := r.GetByID(ctx, a.ID, vis, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE appointments SET service_id=?,master_id=?,starts_at=? WHERE id=?",
		a.ServiceID, a.MasterID, a.StartsAt, a.ID)
	return err
}

// Delete removes a visible appointment.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) error {
	if _, err := r.GetByID(ctx, id, vis, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM appointments WHERE id=?", id)
	return err
}

// Stats aggregates the caller's visible appointments. now is passed
// in so the "today"/"this month" windows are testable.
func (r *AppointmentRepo) Stats(ctx context.Context, vis scope.Visibility, userID uint64, now time.Time) (model.AppointmentStats, error) {
	join, args := "", []any{}
	if vis != scope.All {
		join = " JOIN clients c ON c.id=a.client_id AND c.user_id=?"
		args = append(args, userID)
	}

	var st model.AppointmentStats
	today := now.UTC().Format("2006-01-02")
	month := now.UTC().Format("2006-01")
	// Placeholder order in the query text: the two date comparisons in
	// the select list come before the join's user_id.
	countArgs := append([]any{today, month}, args...)
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(DATE(a.starts_at)=?),0),
		        COALESCE(SUM(DATE_FORMAT(a.starts_at,'%Y-%m')=?),0)
		 FROM appointments a`+join,
		countArgs...).Scan(&st.TotalAppointments, &st.AppointmentsToday, &st.AppointmentsThisMonth)
	if err != nil {
		return st, err
	}
	if st.TotalAppointments == 0 {
		return st, nil
	}

	var popular string
	err = r.DB.QueryRowContext(ctx,
		`SELECT s.name FROM appointments a`+join+`
		 JOIN services s ON s.id=a.service_id
		 GROUP BY s.id, s.name ORDER BY COUNT(*) DESC, s.id LIMIT 1`,
		args...).Scan(&popular)
	if err == nil {
		st.MostPopularService = &popular
	} else if err != sql.ErrNoRows {
		return st, err
	}

	var busiest string
	err = r.DB.QueryRowContext(ctx,
		`SELECT DATE(a.starts_at) AS d FROM appointments a`+join+`
		 GROUP BY d ORDER BY COUNT(*) DESC, d LIMIT 1`,
		args...).Scan(&busiest)
	if err == nil {
		st.BusiestDay = &busiest
	} else if err != sql.ErrNoRows {
		return st, err
	}
	return st, nil
}

// ListDetailed returns visible appointments with joined display
// names, shaped for the spreadsheet export.
func (r *AppointmentRepo) ListDetailed(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.AppointmentDetail, error) {
	q := `SELECT a.id,a.client_id,a.service_id,a.master_id,a.starts_at,c.name,s.name,m.name
	 FROM appointments a
	 JOIN clients c ON c.id=a.client_id
	 JOIN services s ON s.id=a.service_id
	 JOIN masters m ON m.id=a.master_id`
	args := []any{}
	if vis != scope.All {
		q += " WHERE c.user_id=?"
		args = append(args, userID)
	}
	q += " ORDER BY a.starts_at"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.AppointmentDetail{}
	for rows.Next() {
		var d model.AppointmentDetail
		if err := rows.Scan(&d.ID, &d.ClientID, &d.ServiceID, &d.MasterID, &d.StartsAt,
			&d.ClientName, &d.ServiceName, &d.MasterName); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
