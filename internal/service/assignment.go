package service

import (
	"strings"

	"crm-service/internal/model"
)

// DeriveStatus is the only way a new customer gets its status: a driver
// means assigned, no driver means pending. It never yields completed.
func DeriveStatus(assignedDriverID *string) model.CustomerStatus {
	if assignedDriverID != nil && strings.TrimSpace(*assignedDriverID) != "" {
		return model.CustomerStatusAssigned
	}
	return model.CustomerStatusPending
}

// normalizeDriverID turns blank ids into nil.
func normalizeDriverID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
