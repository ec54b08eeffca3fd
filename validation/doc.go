// Package validation provides input validation for reducekit documents.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report an
// *errors.AppError whose Details["fields"] lists every failing field.
//
// # Struct Tag Validation
//
//	type User struct {
//	    Name  string   `json:"name" validate:"required"`
//	    Roles []string `json:"roles" validate:"unique,dive,required"`
//	}
//	err := validation.Validate(user)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("role", env.Role)
//	err := v.Validate()
package validation
