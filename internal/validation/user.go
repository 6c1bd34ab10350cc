package validation

import (
	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=80"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CheckRegisterInput validates a registration payload.
func CheckRegisterInput(in *RegisterInput) Errors {
	return check(in, userMessage)
}

// CheckLoginInput validates a login payload.
func CheckLoginInput(in *LoginInput) Errors {
	return check(in, userMessage)
}

func userMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "max" {
			return "Maksymalnie 80 znaków"
		}
		return "Imię lub nazwa jest wymagane"
	case "email":
		return "Podaj poprawny adres e-mail"
	case "password":
		return "Hasło musi mieć co najmniej 8 znaków"
	}
	return "Nieprawidłowa wartość pola " + fe.Field()
}
