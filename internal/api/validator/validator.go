package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"skillbox/internal/models"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Report json field names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("user_role", validateUserRole); err != nil {
		return nil
	}
	if err := v.RegisterValidation("request_status", validateRequestStatus); err != nil {
		return nil
	}
	if err := v.RegisterValidation("decision_status", validateDecisionStatus); err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidUserRole(models.UserRole(fl.Field().String()))
}

func validateRequestStatus(fl playgroundvalidator.FieldLevel) bool {
	s := models.RequestStatus(fl.Field().String())
	return s == models.RequestStatusPending || s.Terminal()
}

// decision_status only admits terminal states; "pending" is not a decision.
func validateDecisionStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.RequestStatus(fl.Field().String()).Terminal()
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"fullName" validate:"required"`
	Organization string `json:"organization" validate:"required"`
	Role         string `json:"role" validate:"omitempty,user_role"`
	PartnerType  string `json:"partnerType"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AccessRequestSubmission struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
	Reason   string `json:"reason" validate:"required"`
}

type AccessRequestDecision struct {
	Status     string `json:"status" validate:"required,decision_status"`
	AdminNotes string `json:"adminNotes"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}

type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

type ScheduleExecutionRequest struct {
	CourseID          string `json:"courseId" validate:"required,uuid"`
	ExecutionDate     string `json:"executionDate" validate:"required"`
	Location          string `json:"location" validate:"required"`
	ExpectedAttendees int    `json:"expectedAttendees" validate:"min=0"`
	Notes             string `json:"notes"`
}
