package usecase

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"social-chat-api/apperror"
)

// validateRequest turns validator failures into a client facing validation error.
func validateRequest(validate *validator.Validate, request interface{}) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return &apperror.Error{
			Kind:    apperror.KindValidation,
			Message: fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()),
			Err:     err,
		}
	}
	return apperror.Internal("failed to validate request", err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
