package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// CreateOwnerRequest represents a request to register a card owner.
type CreateOwnerRequest struct {
	Name string `json:"name"`
}

// Validate checks the request fields.
func (r *CreateOwnerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// CreateLocationRequest represents a request to create a branch.
type CreateLocationRequest struct {
	Name string `json:"name"`
}

// Validate checks the request fields.
func (r *CreateLocationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	)
}

// CreateCardRequest represents a request to issue a gift card.
type CreateCardRequest struct {
	OwnerID    *string    `json:"owner_id,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	ExternalID string     `json:"external_id"`
}

// Validate checks the request fields.
func (r *CreateCardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ExternalID, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.OwnerID, validation.NilOrNotEmpty),
	)
}

// ToUseCaseInput converts to use case input.
func (r *CreateCardRequest) ToUseCaseInput() usecase.CreateCardInput {
	return usecase.CreateCardInput{
		OwnerID:    r.OwnerID,
		ExpiresAt:  r.ExpiresAt,
		Active:     r.Active,
		ExternalID: r.ExternalID,
	}
}

// ChangeExternalIDRequest replaces the printed identifier of a card.
type ChangeExternalIDRequest struct {
	ExternalID string `json:"external_id"`
}

// Validate checks the request fields.
func (r *ChangeExternalIDRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ExternalID, validation.Required, validation.Length(1, 64)),
	)
}

// MutationRequest is the body of credit, debit and adjustment requests.
// Amount is a decimal string so no precision is lost in transit.
type MutationRequest struct {
	Description *string `json:"description,omitempty"`
	LocationID  *string `json:"location_id,omitempty"`
	Amount      string  `json:"amount"`
}

// Validate checks the request fields.
func (r *MutationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(decimalString)),
		validation.Field(&r.LocationID, validation.NilOrNotEmpty),
	)
}

// ToUseCaseInput converts to use case input for the given card.
func (r *MutationRequest) ToUseCaseInput(cardID string, actorID *string) (usecase.MutationInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return usecase.MutationInput{}, fmt.Errorf("%w: %q", domain.ErrMalformedAmount, r.Amount)
	}

	return usecase.MutationInput{
		Description: r.Description,
		ActorID:     actorID,
		LocationID:  r.LocationID,
		CardID:      cardID,
		Amount:      amount,
	}, nil
}

func decimalString(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return errors.New("must be a decimal number")
	}
	return nil
}
