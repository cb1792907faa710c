package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
)

// Validator checks configuration structs against their validate tags. Besides the stock rules
// it knows request_policy and source_policy, which accept any name the policy registry resolves.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	policies := policy.NewRegistry(nil)

	_ = v.RegisterValidation("request_policy", func(fl validator.FieldLevel) bool {
		_, err := policies.RequestPolicy(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("source_policy", func(fl validator.FieldLevel) bool {
		_, err := policies.SourcePolicy(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		problems = append(problems, describe(e))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(problems, "\n  "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "request_policy":
		return fmt.Sprintf("%s: unknown request policy '%v' (want fifo, ready or sjf)", e.Namespace(), e.Value())
	case "source_policy":
		return fmt.Sprintf("%s: unknown source policy '%v' (want qlen, simplelat or recursivelat)", e.Namespace(), e.Value())
	}
	return fmt.Sprintf("%s failed '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value())
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
