package model

// Service is a catalog entry from the `services` table. Catalog data
// is shared: every authenticated caller sees the full collection.
type Service struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`
	Picture     *string `json:"picture"`
}

// Master is a staff member from the `masters` table. ServiceIDs holds
// the M2M links from `master_services`.
type Master struct {
	ID             uint64   `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	ServiceIDs     []uint64 `json:"services"`
}

// ServiceStats aggregates the service catalog.
type ServiceStats struct {
	TotalServices int     `json:"total_services"`
	AvgPrice      float64 `json:"avg_price"`
	MaxPrice      float64 `json:"max_price"`
	MinPrice      float64 `json:"min_price"`
	AvgDuration   float64 `json:"avg_duration"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// MasterStats aggregates the staff roster.
type MasterStats struct {
	TotalMasters             int      `json:"total_masters"`
	AvgServicesPerMaster     *float64 `json:"avg_services_per_master"`
	MostCommonSpecialization *string  `json:"most_common_specialization"`
	BusiestMaster            *string  `json:"busiest_master"`
}
