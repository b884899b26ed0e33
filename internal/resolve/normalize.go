package resolve

import "github.com/aidanlsb/cmdforge/internal/catalog"

// Normalize coerces one raw input to the argument's type. A nil raw value
// means the argument was not supplied.
//
// Checkboxes are true or absent. Empty text and select values are absent
// unless the argument is optional and declares a default. Numbers are
// parsed and range checked without clamping.
func Normalize(a *catalog.Argument, raw any) (Value, *ValidationError) {
	v := Value{Type: a.Type}

	switch a.Type {
	case catalog.ArgTypeCheckbox:
		if raw == nil {
			raw = a.Default
		}
		v.Bool = coerceBool(raw)
		v.Present = v.Bool

	case catalog.ArgTypeNumber:
		n, defined, ok := coerceNumber(raw)
		if !ok {
			err := errInvalidNumber(a.ID, raw)
			return v, &err
		}
		if !defined && !a.Required {
			n, defined, ok = coerceNumber(a.Default)
			if !ok {
				defined = false
			}
		}
		if !defined {
			return v, nil
		}
		v.Number = n
		v.Present = true
		if (a.Min != nil && n < *a.Min) || (a.Max != nil && n > *a.Max) {
			err := errOutOfRange(a, n)
			return v, &err
		}

	case catalog.ArgTypeSelect:
		s := textOrDefault(a, raw)
		if s != "" && !a.HasOption(s) {
			err := errInvalidOption(a, s)
			return v, &err
		}
		v.Text = s
		v.Present = s != ""

	default:
		v.Text = textOrDefault(a, raw)
		v.Present = v.Text != ""
	}

	return v, nil
}

func textOrDefault(a *catalog.Argument, raw any) string {
	s := coerceString(raw)
	if s == "" && !a.Required {
		s = coerceString(a.Default)
	}
	return s
}
