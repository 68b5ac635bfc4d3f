// Package patient holds the patient records that delivery tasks refer to.
package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient exists for the requested id.
var ErrNotFound = errors.New("patient not found")

// Patient is a person in the facility awaiting medicine deliveries.
type Patient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Room     string `json:"room"`
	Medicine string `json:"medicine"`
}

// New creates a patient record with a fresh identifier.
func New(name, room, medicine string) *Patient {
	return &Patient{
		ID:       uuid.NewString(),
		Name:     name,
		Room:     room,
		Medicine: medicine,
	}
}

// Repository is the persistence interface for patients.
// The task lifecycle only ever reads from it; patient data is mutated
// exclusively through the patient REST endpoints.
type Repository interface {
	CreatePatient(ctx context.Context, p *Patient) error
	GetPatient(ctx context.Context, id string) (*Patient, error)
	ListPatients(ctx context.Context) ([]*Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) error
	DeletePatient(ctx context.Context, id string) error
}
