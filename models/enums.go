package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type FreeIssueType string

const (
	FreeIssueTypeFlat     FreeIssueType = "Flat"
	FreeIssueTypeMultiple FreeIssueType = "Multiple"
)

func (t FreeIssueType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *FreeIssueType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = FreeIssueType(v)
	case []byte:
		*t = FreeIssueType(v)
	default:
		return fmt.Errorf("unsupported free issue type value: %v", value)
	}
	return nil
}

// convert input to enum type
func (t *FreeIssueType) UnmarshalJSON(data []byte) error {
	str := unquote(data)
	switch str {
	case "Flat":
		*t = FreeIssueTypeFlat
	case "Multiple":
		*t = FreeIssueTypeMultiple
	default:
		return errors.New("invalid free issue type")
	}
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("unsupported invoice status value: %v", value)
	}
	return nil
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	str := unquote(data)
	switch str {
	case "pending":
		*s = InvoiceStatusPending
	case "paid":
		*s = InvoiceStatusPaid
	case "cancelled":
		*s = InvoiceStatusCancelled
	default:
		return errors.New("invalid invoice status")
	}
	return nil
}

// CanTransitionTo encodes the invoice lifecycle: pending may become paid or
// cancelled; paid and cancelled are terminal.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if s != InvoiceStatusPending {
		return false
	}
	return next == InvoiceStatusPaid || next == InvoiceStatusCancelled
}

type UserRole string

const (
	UserRoleAdmin       UserRole = "admin"
	UserRoleDistributor UserRole = "distributor"
)

func (r UserRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(v)
	default:
		return fmt.Errorf("unsupported user role value: %v", value)
	}
	return nil
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	str := unquote(data)
	switch str {
	case "admin":
		*r = UserRoleAdmin
	case "distributor":
		*r = UserRoleDistributor
	default:
		return errors.New("invalid user role")
	}
	return nil
}

func unquote(data []byte) string {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
