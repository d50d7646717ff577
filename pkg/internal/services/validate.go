package services

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterStructValidation(validateChannelRequest, ChannelRequest{})
}

func ValidateStruct(data any) error {
	if err := validate.Struct(data); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func validateChannelRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(ChannelRequest)
	if req.IsPrivate && len(req.AllowedUsers) == 0 {
		sl.ReportError(req.AllowedUsers, "AllowedUsers", "allowed_users", "required_if_private", "")
	}
}
