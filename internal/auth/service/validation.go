package service

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type loginCredentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func validateLoginInput(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	if err := validate.Struct(loginCredentials{Email: email, Password: password}); err != nil {
		return ErrInvalidEmail
	}

	return nil
}
