// Package drawing defines the persisted drawing record and the document
// stores that hold it.
package drawing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"plan-sketcher/internal/shape"
)

// ErrInvalid is returned for a drawing that cannot be stored.
var ErrInvalid = errors.New("invalid drawing")

// Drawing is a named, saved shape collection.
type Drawing struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"`
	Shapes    shape.List `json:"shapes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Input is the body of a create request.
type Input struct {
	Name   string     `json:"name"`
	Shapes shape.List `json:"shapes"`
}

// Validate checks that the input can be stored.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	for i, s := range in.Shapes {
		if s == nil {
			return fmt.Errorf("%w: shape %d is empty", ErrInvalid, i)
		}
	}
	return nil
}

// Store persists drawings.
type Store interface {
	// Create stores a new drawing and returns it with the store-assigned
	// id and timestamps.
	Create(ctx context.Context, in Input) (Drawing, error)

	// List returns every stored drawing, oldest first.
	List(ctx context.Context) ([]Drawing, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}

// newRecord stamps an input with a fresh id and timestamps.
func newRecord(in Input, now time.Time) Drawing {
	shapes := in.Shapes
	if shapes == nil {
		shapes = shape.List{}
	}
	return Drawing{
		ID:        primitive.NewObjectID().Hex(),
		Name:      in.Name,
		Shapes:    shapes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
