package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

type (
	// Service is one entry of the service catalog. UsageCount counts how
	// many bookings referenced the service at creation time.
	Service struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		UsageCount int     `json:"usageCount"`
	}

	// Client is one entry of the client roster. Only the first name is
	// required.
	Client struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}

	// Record is a single appointment. It carries no identity of its own:
	// records are addressed by the composite Key below.
	Record struct {
		Date      string `json:"date"` // YYYY-MM-DD
		ClientID  string `json:"clientId"`
		ServiceID string `json:"serviceId"`
		Time      string `json:"time,omitempty"` // HH:MM, empty when unset
		Comment   string `json:"comment"`
	}

	// Key addresses a record. Two records with equal keys are
	// indistinguishable: an edit or delete of one affects both.
	Key struct {
		Date      string
		ClientID  string
		ServiceID string
		Time      string
	}

	// Collections is the full persisted state: the three documents the
	// store knows about.
	Collections struct {
		Records  []Record
		Services []Service
		Clients  []Client
	}
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrValidation)
	ErrInvalidPrice    = fmt.Errorf("%w: price must be a finite non-negative number", ErrValidation)
	ErrEmptyFirstName  = fmt.Errorf("%w: empty first name", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidTime     = fmt.Errorf("%w: time must be HH:MM", ErrValidation)
	ErrNothingSelected = fmt.Errorf("%w: nothing selected", ErrValidation)

	// ErrSelectClientService mirrors the alert shown when a booking is
	// attempted without a client or a service.
	ErrSelectClientService = fmt.Errorf("%w: select a client and a service", ErrValidation)
)

func (s Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) || s.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return ErrEmptyFirstName
	}
	return nil
}

func (r Record) Validate() error {
	if !ValidDate(r.Date) {
		return ErrInvalidDate
	}
	if r.Time != "" && !ValidTime(r.Time) {
		return ErrInvalidTime
	}
	return nil
}

// Key returns the composite key addressing this record.
func (r Record) Key() Key {
	return Key{Date: r.Date, ClientID: r.ClientID, ServiceID: r.ServiceID, Time: r.Time}
}

// Matches reports whether the record is addressed by k.
func (r Record) Matches(k Key) bool {
	return r.Key() == k
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTime reports whether s is a wall-clock time in HH:MM form.
func ValidTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// YearMonth returns the YYYY-MM prefix of a date, or "" when the date is
// too short to carry one.
func YearMonth(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// Year returns the YYYY prefix of a date, or "" when absent.
func Year(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// MissingService is the sentinel returned when a record references a
// service that no longer exists.
func MissingService() Service {
	return Service{Name: "—", Price: 0}
}

// MissingClient is the client-side sentinel.
func MissingClient() Client {
	return Client{FirstName: "—", LastName: "", Phone: ""}
}

// FullName joins first and last name the way the roster displays it,
// falling back to the sentinel dash for a fully empty name.
func (c Client) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return "—"
	}
	return name
}
