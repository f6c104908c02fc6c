package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientData    = errors.New("insufficient history to fit a demand model")
	ErrModelFit            = errors.New("demand model could not be fitted")
	ErrUndefinedElasticity = errors.New("elasticity is undefined at zero quantity")
	ErrInvalidPrice        = errors.New("current price must be positive")
	ErrInvalidConfig       = errors.New("invalid optimizer configuration")
	ErrInvalidProductID    = errors.New("product id is required")
	ErrMissingLag          = errors.New("latest period has no lag price")
)

// NotFoundError reports a product without any history.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no price history for product %q", e.ProductID)
}

func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientDataError reports how many usable rows were found for a product.
type InsufficientDataError struct {
	ProductID string
	Rows      int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("product %q has %d usable history rows, need at least %d", e.ProductID, e.Rows, e.Required)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// ModelFitError is a numerical failure of the least squares solve.
type ModelFitError struct {
	ProductID string
	Reason    string
}

func (e *ModelFitError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("model fit failed: %s", e.Reason)
	}
	return fmt.Sprintf("model fit failed for product %q: %s", e.ProductID, e.Reason)
}

func (e *ModelFitError) Unwrap() error { return ErrModelFit }

// UndefinedElasticityError is returned when the operating point has zero quantity.
type UndefinedElasticityError struct {
	ProductID    string
	CurrentPrice float64
}

func (e *UndefinedElasticityError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("elasticity undefined: zero quantity at price %.4f", e.CurrentPrice)
	}
	return fmt.Sprintf("elasticity undefined for product %q: zero quantity at price %.4f", e.ProductID, e.CurrentPrice)
}

func (e *UndefinedElasticityError) Unwrap() error { return ErrUndefinedElasticity }

// MissingLagError is returned when the latest period has no lag price and no
// earlier period to take it from.
type MissingLagError struct {
	ProductID string
	Year      int
	Month     int
}

func (e *MissingLagError) Error() string {
	return fmt.Sprintf("product %q: period %02d-%04d has no lag price and no previous period", e.ProductID, e.Month, e.Year)
}

func (e *MissingLagError) Unwrap() error { return ErrMissingLag }

// Error kinds exposed to API clients.
const (
	KindNotFound            = "not_found"
	KindInsufficientData    = "insufficient_data"
	KindModelFit            = "model_fit"
	KindUndefinedElasticity = "undefined_elasticity"
	KindInvalidHistory      = "invalid_history"
	KindInvalidArgument     = "invalid_argument"
	KindInternal            = "internal"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, ErrModelFit):
		return KindModelFit
	case errors.Is(err, ErrUndefinedElasticity):
		return KindUndefinedElasticity
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrMissingLag):
		return KindInvalidHistory
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidProductID):
		return KindInvalidArgument
	default:
		return KindInternal
	}
}
