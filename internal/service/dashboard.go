package service

import "crm-service/internal/model"

type DashboardCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
}

// Aggregate counts customers per status. It is a pure projection and is
// recomputed from the current snapshot on every call.
func Aggregate(customers []model.Customer) DashboardCounts {
	counts := DashboardCounts{Total: len(customers)}
	for _, c := range customers {
		switch c.Status {
		case model.CustomerStatusPending:
			counts.Pending++
		case model.CustomerStatusAssigned:
			counts.Assigned++
		case model.CustomerStatusCompleted:
			counts.Completed++
		}
	}
	return counts
}
