package model

type SportCount struct {
	Sport Sport `json:"sport"`
	Count int   `json:"count"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	TotalUsers       int          `json:"total_users"`
	ActiveUsers      int          `json:"active_users"`
	NewUsersToday    int          `json:"new_users_today"`
	NewUsersThisWeek int          `json:"new_users_this_week"`
	UsersBySport     []SportCount `json:"users_by_sport"`
	UsersByCity      []CityCount  `json:"users_by_city"`
}
