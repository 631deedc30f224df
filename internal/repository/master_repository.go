package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

// MasterRepo persists staff members and their M2M service links in
// the 'master_services' table. Masters are shared catalog data.
type MasterRepo struct{ DB *sql.DB }

func NewMasterRepo(db *sql.DB) *MasterRepo { return &MasterRepo{DB: db} }

// List returns all masters with their linked service ids.
func (r *MasterRepo) List(ctx context.Context) ([]model.Master, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,specialization FROM masters ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Master{}
	for rows.Next() {
		var m model.Master
		if err := rows.Scan(&m.ID, &m.Name, &m.Specialization); err != nil {
			return nil, err
		}
		m.ServiceIDs = []uint64{}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	// Attach service links in a second pass instead of a row-exploding join.
	idx := make(map[uint64]int, len(items))
	for i, m := range items {
		idx[m.ID] = i
	}
	links, err := r.DB.QueryContext(ctx,
		"SELECT master_id,service_id FROM master_services ORDER BY master_id,service_id")
	if err != nil {
		return nil, err
	}
	defer links.Close()
	for links.Next() {
		var mid, sid uint64
		if err := links.Scan(&mid, &sid); err != nil {
			return nil, err
		}
		if i, ok := idx[mid]; ok {
			items[i].ServiceIDs = append(items[i].ServiceIDs, sid)
		}
	}
	return items, links.Err()
}

// GetByID fetches one master with service links.
func (r *MasterRepo) GetByID(ctx context.Context, id uint64) (model.Master, error) {
	var m model.Master
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,specialization FROM masters WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Name, &m.Specialization)
	if err == sql.ErrNoRows {
		return model.Master{}, ErrNotFound
	}
	if err != nil {
		return model.Master{}, err
	}
	m.ServiceIDs = []uint64{}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT service_id FROM master_services WHERE master_id=? ORDER BY service_id", id)
	if err != nil {
		return model.Master{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return model.Master{}, err
		}
		m.ServiceIDs = append(m.ServiceIDs, sid)
	}
	return m, rows.Err()
}

// Create inserts a master and its service links in one transaction.
func (r *MasterRepo) Create(ctx context.Context, m *model.Master) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO masters (name,specialization) VALUES (?,?)",
		m.Name, m.Specialization)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if err := replaceServiceLinks(ctx, tx, m.ID, m.ServiceIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites a master and replaces its service links atomically.
func (r *MasterRepo) Update(ctx context.Context, m *model.Master) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE masters SET name=?,specialization=? WHERE id=?",
		m.Name, m.Specialization, m.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists uint64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM masters WHERE id=? LIMIT 1", m.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM master_services WHERE master_id=?", m.ID); err != nil {
		return err
	}
	if err := replaceServiceLinks(ctx, tx, m.ID, m.ServiceIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a master; link rows go with it via ON DELETE CASCADE.
func (r *MasterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM masters WHERE id=?", id)
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

func replaceServiceLinks(ctx context.Context, tx *sql.Tx, masterID uint64, serviceIDs []uint64) error {
	for _, sid := range serviceIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO master_services (master_id,service_id) VALUES (?,?)",
			masterID, sid); err != nil {
			return fmt.Errorf("link service %d: %w", sid, err)
		}
	}
	return nil
}

// Stats aggregates the roster: size, average catalog coverage, the
// dominant specialization and the master with the most appointments.
func (r *MasterRepo) Stats(ctx context.Context) (model.MasterStats, error) {
	var st model.MasterStats
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM masters").Scan(&st.TotalMasters); err != nil {
		return st, err
	}
	if st.TotalMasters == 0 {
		return st, nil
	}

	var avg float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(cnt) FROM (
		   SELECT COUNT(ms.service_id) AS cnt
		   FROM masters m LEFT JOIN master_services ms ON ms.master_id=m.id
		   GROUP BY m.id) t`).Scan(&avg)
	if err != nil {
		return st, err
	}
	st.AvgServicesPerMaster = &avg

	var spec string
	err = r.DB.QueryRowContext(ctx,
		`SELECT specialization FROM masters
		 GROUP BY specialization ORDER BY COUNT(*) DESC, specialization LIMIT 1`).Scan(&spec)
	if err == nil {
		st.MostCommonSpecialization = &spec
	} else if err != sql.ErrNoRows {
		return st, err
	}

	var busiest string
	err = r.DB.QueryRowContext(ctx,
		`SELECT m.name FROM masters m LEFT JOIN appointments a ON a.master_id=m.id
		 GROUP BY m.id, m.name ORDER BY COUNT(a.id) DESC, m.id LIMIT 1`).Scan(&busiest)
	if err == nil {
		st.BusiestMaster = &busiest
	} else if err != sql.ErrNoRows {
		return st, err
	}
	return st, nil
}

// ListWithServiceNames returns one row per master with a comma-joined
// list of service names, shaped for the spreadsheet export.
func (r *MasterRepo) ListWithServiceNames(ctx context.Context) ([]model.Master, map[uint64]string, error) {
	masters, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ms.master_id, GROUP_CONCAT(s.name ORDER BY s.id SEPARATOR ', ')
		 FROM master_services ms JOIN services s ON s.id=ms.service_id
		 GROUP BY ms.master_id`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	names := make(map[uint64]string, len(masters))
	for rows.Next() {
		var mid uint64
		var joined string
		if err := rows.Scan(&mid, &joined); err != nil {
			return nil, nil, err
		}
		names[mid] = joined
	}
	return masters, names, rows.Err()
}
