package repository

import (
	"time"

	"crm-service/internal/model"
)

func SeedDrivers() []model.Driver {
	return []model.Driver{
		{ID: "d1", Name: "John Smith", AvatarRef: "https://picsum.photos/seed/d1/200", Status: model.DriverStatusAvailable, Rating: 4.8},
		{ID: "d2", Name: "Sarah Connor", AvatarRef: "https://picsum.photos/seed/d2/200", Status: model.DriverStatusBusy, Rating: 4.9},
		{ID: "d3", Name: "Mike Ross", AvatarRef: "https://picsum.photos/seed/d3/200", Status: model.DriverStatusAvailable, Rating: 4.5},
		{ID: "d4", Name: "Jessica Pearson", AvatarRef: "https://picsum.photos/seed/d4/200", Status: model.DriverStatusOffline, Rating: 5.0},
		{ID: "d5", Name: "Louis Litt", AvatarRef: "https://picsum.photos/seed/d5/200", Status: model.DriverStatusAvailable, Rating: 4.2},
	}
}

// SeedCustomers returns the two starting records, dated relative to now.
func SeedCustomers(now time.Time) []model.Customer {
	d1, d2 := "d1", "d2"
	return []model.Customer{
		{
			ID:               "c1",
			Name:             "Alice Johnson",
			Company:          "TechFlow Inc.",
			AddressName:      "Downtown Innovation Hub",
			Location:         model.Coordinate{X: 45, Y: 30},
			AssignedDriverID: &d1,
			Status:           model.CustomerStatusAssigned,
			AddedVia:         model.AddedViaManual,
			CreatedAt:        now.Add(-24 * time.Hour),
		},
		{
			ID:               "c2",
			Name:             "Bob Williams",
			Company:          "Logistics Pro",
			AddressName:      "North Industrial Park",
			Location:         model.Coordinate{X: 12, Y: 88},
			AssignedDriverID: &d2,
			Status:           model.CustomerStatusCompleted,
			AddedVia:         model.AddedViaManual,
			CreatedAt:        now.Add(-48 * time.Hour),
		},
	}
}
