package client

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/soundmint/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a JSON field name to the rule it failed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

func validateStruct(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(FieldErrors, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// LoginForm is the body of POST /auth/login.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (f LoginForm) Validate() error { return validateStruct(f) }

// RegisterForm is the body of POST /auth/register.
type RegisterForm struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	ReferralCode string `json:"referralCode,omitempty" validate:"omitempty,alphanum,max=16"`
}

func (f RegisterForm) Validate() error { return validateStruct(f) }

// ReviewForm is the body of PATCH /artists/applications/:id.
type ReviewForm struct {
	Status     domain.ApplicationStatus `json:"status" validate:"required,oneof=Approved Rejected"`
	ReviewerID uint                     `json:"reviewerId" validate:"required,min=1"`
	ArtistName *string                  `json:"artistName,omitempty" validate:"omitempty,min=1,max=100"`
	Bio        *string                  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	CountryID  *uint                    `json:"countryId,omitempty" validate:"omitempty,min=1"`
}

func (f ReviewForm) Validate() error { return validateStruct(f) }

// PurchaseForm records an on-chain purchase.
type PurchaseForm struct {
	TxSignature string `json:"txSignature" validate:"required,max=128"`
}

func (f PurchaseForm) Validate() error { return validateStruct(f) }
