package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidToolCode        = errors.New("invalid tool code")
	ErrInvalidRentalDayCount  = errors.New("invalid rental day count")
	ErrInvalidDiscountPercent = errors.New("invalid discount percent")
	ErrInvalidDateFormat      = errors.New("invalid checkout date format")
)

// InputError collects every validation failure of a checkout request
type InputError struct {
	fields map[string][]string
	causes []error
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

// IsInputError returns the InputError wrapped by err, or nil
func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field string, cause error, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
	ie.causes = append(ie.causes, cause)
}

func (ie *InputError) Error() string {
	return strings.Join(ie.Messages(), "; ")
}

// Unwrap makes errors.Is match any of the sentinel causes
func (ie *InputError) Unwrap() []error {
	return ie.causes
}

// Fields returns a copy of field name -> messages
func (ie *InputError) Fields() map[string][]string {
	fields := make(map[string][]string, len(ie.fields))
	for field, msgs := range ie.fields {
		fields[field] = append([]string(nil), msgs...)
	}
	return fields
}

// Messages returns all messages, ordered by field check order
func (ie *InputError) Messages() []string {
	msgs := make([]string, 0, len(ie.causes))
	for _, field := range ie.orderedFields() {
		msgs = append(msgs, ie.fields[field]...)
	}
	return msgs
}

var fieldOrder = map[string]int{
	fieldRentalDays:      0,
	fieldDiscountPercent: 1,
	fieldCheckoutDate:    2,
	fieldToolCode:        3,
}

func (ie *InputError) orderedFields() []string {
	fields := make([]string, 0, len(ie.fields))
	for field := range ie.fields {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fieldOrder[fields[i]] < fieldOrder[fields[j]]
	})
	return fields
}
