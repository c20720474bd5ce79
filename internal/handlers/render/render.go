package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

// Envelope is the shape every endpoint answers with.
// Data carries the payload on success and an explicit null on errors,
// Fields carries per-field messages when validation fails.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON renders a successful response with the given payload
func JSON(w http.ResponseWriter, message string, data any) {
	jsonWithStatus(w, Envelope{Success: true, Message: message, Data: data}, http.StatusOK)
}

// JSONWithStatus is JSON with an explicit success status code (201 and friends)
func JSONWithStatus(w http.ResponseWriter, message string, data any, code int) {
	jsonWithStatus(w, Envelope{Success: true, Message: message, Data: data}, code)
}

// Error renders a failed response with the given message and status code
func Error(w http.ResponseWriter, message string, code int) {
	jsonWithStatus(w, Envelope{Success: false, Message: message}, code)
}

// DecodeError renders a failure caused by an unparsable request body
func DecodeError(w http.ResponseWriter, err error) {
	response := Envelope{Success: false}

	// Try to provide more specific error message based on error type
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", err.Field)
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// ValidationErrors renders per-field validation messages
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := Envelope{
		Success: false,
		Message: "Request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "email":
			message = "Must be a valid email address"
		case "uuid":
			message = "Must be a valid UUID"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// jsonWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
