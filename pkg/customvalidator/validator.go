package customvalidator

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("image_url", isValidImageURL); err != nil {
		return err
	}
	if err := v.RegisterValidation("latitude", isLatitude); err != nil {
		return err
	}
	if err := v.RegisterValidation("longitude", isLongitude); err != nil {
		return err
	}
	return nil
}

// Ссылка на фото-доказательство приходит уже загруженной в хранилище,
// здесь проверяется только синтаксис URL.
func isValidImageURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isLatitude(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v >= -90 && v <= 90
}

func isLongitude(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v >= -180 && v <= 180
}
