package model

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusBusy      DriverStatus = "busy"
	DriverStatusOffline   DriverStatus = "offline"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusAvailable, DriverStatusBusy, DriverStatusOffline:
		return true
	}
	return false
}

// Driver is read-only reference data loaded once at startup.
type Driver struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	AvatarRef string       `json:"avatar_ref"`
	Status    DriverStatus `json:"status"`
	Rating    float64      `json:"rating"`
}
