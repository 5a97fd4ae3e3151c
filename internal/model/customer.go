package model

import "time"

type CustomerStatus string

const (
	CustomerStatusPending   CustomerStatus = "pending"
	CustomerStatusAssigned  CustomerStatus = "assigned"
	CustomerStatusCompleted CustomerStatus = "completed"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusPending, CustomerStatusAssigned, CustomerStatusCompleted:
		return true
	}
	return false
}

// AddedVia records where a customer record came from. Set once at creation.
type AddedVia string

const (
	AddedViaManual AddedVia = "manual"
	AddedViaRPA    AddedVia = "rpa"
)

func (a AddedVia) Valid() bool {
	return a == AddedViaManual || a == AddedViaRPA
}

type Customer struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Company          string         `json:"company"`
	AddressName      string         `json:"address_name"`
	Location         Coordinate     `json:"location"`
	AssignedDriverID *string        `json:"assigned_driver_id"`
	Status           CustomerStatus `json:"status"`
	AddedVia         AddedVia       `json:"added_via"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Clone returns a copy that shares no pointers with c.
func (c Customer) Clone() Customer {
	if c.AssignedDriverID != nil {
		id := *c.AssignedDriverID
		c.AssignedDriverID = &id
	}
	return c
}

func (c Customer) IsAssignedTo(driverID string) bool {
	return c.AssignedDriverID != nil && *c.AssignedDriverID == driverID
}
