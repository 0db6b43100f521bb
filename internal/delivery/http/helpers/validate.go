package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	return decodeAndValidate(w, r, dest, false)
}

// DecodeOptionalAndValidate is DecodeAndValidate for bodies whose fields are all
// optional: a missing body leaves dest at its zero value.
func DecodeOptionalAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	return decodeAndValidate(w, r, dest, true)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dest any, optional bool) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil && !(optional && errors.Is(err, io.EOF)) {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// ValidationMessages flattens an ozzo-validation result into sorted "field: message"
// lines so request DTOs can satisfy Validator with validation.ValidateStruct.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, fe.Error()))
	}
	sort.Strings(msgs)
	return msgs
}
