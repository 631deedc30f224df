package repository

import (
	"context"
	"database/sql"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

// ClientRepo persists client profiles. All read paths are scoped to
// the owning user: client visibility is direct ownership for every
// caller, superusers included.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

const clientCols = "id,user_id,name,phone,email,service_id,picture"

func scanClient(row interface{ Scan(...any) error }) (model.Client, error) {
	var cl model.Client
	err := row.Scan(&cl.ID, &cl.UserID, &cl.Name, &cl.Phone, &cl.Email, &cl.ServiceID, &cl.Picture)
	return cl, err
}

// ListByUser returns the clients linked to the given user.
func (r *ClientRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Client, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE user_id=? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Client{}
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cl)
	}
	return items, rows.Err()
}

// GetByIDForUser fetches one client, enforcing ownership.
func (r *ClientRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Client, error) {
	cl, err := scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE id=? AND user_id=? LIMIT 1", id, userID))
	if err == sql.ErrNoRows {
		return model.Client{}, ErrNotFound
	}
	return cl, err
}

// FirstByUser returns the user's first client profile, used to bind
// appointments and reviews to their owning client at create time.
func (r *ClientRepo) FirstByUser(ctx context.Context, userID uint64) (model.Client, error) {
	cl, err := scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE user_id=? ORDER BY id LIMIT 1", userID))
	if err == sql.ErrNoRows {
		return model.Client{}, ErrNoClientProfile
	}
	return cl, err
}

// Create inserts a client bound to the owning user and sets its ID.
func (r *ClientRepo) Create(ctx context.Context, cl *model.Client) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO clients (user_id,name,phone,email,service_id,picture) VALUES (?,?,?,?,?,?)",
		cl.UserID, cl.Name, cl.Phone, cl.Email, cl.ServiceID, cl.Picture)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cl.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of an owned client.
func (r *ClientRepo) Update(ctx context.Context, cl *model.Client, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE clients SET name=?,phone=?,email=?,service_id=?,picture=? WHERE id=? AND user_id=?",
		cl.Name, cl.Phone, cl.Email, cl.ServiceID, cl.Picture, cl.ID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such row" from "row unchanged".
		if _, err := r.GetByIDForUser(ctx, cl.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an owned client.
func (r *ClientRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM clients WHERE id=? AND user_id=?", id, userID)
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

// Stats aggregates the user's clients: totals, email coverage, the
// most popular default service and the appointment load per client.
func (r *ClientRepo) Stats(ctx context.Context, userID uint64) (model.ClientStats, error) {
	var st model.ClientStats
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(email<>''),0) FROM clients WHERE user_id=?",
		userID).Scan(&st.TotalClients, &st.ClientsWithEmail)
	if err != nil {
		return st, err
	}
	if st.TotalClients == 0 {
		return st, nil
	}

	var popular string
	err = r.DB.QueryRowContext(ctx,
		`SELECT s.name FROM clients c JOIN services s ON s.id=c.service_id
		 WHERE c.user_id=? GROUP BY s.id, s.name ORDER BY COUNT(*) DESC, s.id LIMIT 1`,
		userID).Scan(&popular)
	if err == nil {
		st.MostPopularService = &popular
	} else if err != sql.ErrNoRows {
		return st, err
	}

	var appts int
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments a JOIN clients c ON c.id=a.client_id WHERE c.user_id=?`,
		userID).Scan(&appts)
	if err != nil {
		return st, err
	}
	perClient := float64(appts) / float64(st.TotalClients)
	st.AppointmentsPerClient = &perClient
	return st, nil
}
