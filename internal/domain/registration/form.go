package registration

// dependents lists fields whose verdict must be recomputed when the key
// field changes
var dependents = map[Field][]Field{
	FieldPassword: {FieldConfirmPassword},
	FieldRole:     TrainerFields,
}

// FormState is a caller-owned, in-progress registration form. It records
// the latest value and verdict of each field the user has touched. It is
// not safe for concurrent use.
type FormState struct {
	validator *Validator
	values    Values
	verdicts  map[Field]Verdict
}

// NewFormState creates an empty form
func NewFormState(v *Validator) *FormState {
	return &FormState{
		validator: v,
		values:    Values{},
		verdicts:  make(map[Field]Verdict),
	}
}

// Set stores a new value and returns its verdict. Phone input is sanitized
// first. Fields that depend on this one and were already checked are
// re-checked against the new value.
func (f *FormState) Set(field Field, value string) Verdict {
	if field == FieldPhone {
		value = SanitizePhone(value)
	}
	f.values[field] = value
	verdict := f.check(field)

	for _, dep := range dependents[field] {
		if _, seen := f.verdicts[dep]; seen {
			f.check(dep)
		}
	}
	return verdict
}

// Blur re-checks a field when it loses focus
func (f *FormState) Blur(field Field) Verdict {
	return f.check(field)
}

func (f *FormState) check(field Field) Verdict {
	v := f.validator.Check(field, f.values[field], f.values)
	f.verdicts[field] = v
	return v
}

// Value returns the stored value of a field
func (f *FormState) Value(field Field) string {
	return f.values[field]
}

// Verdict returns the last verdict of a field, if it has been checked
func (f *FormState) Verdict(field Field) (Verdict, bool) {
	v, ok := f.verdicts[field]
	return v, ok
}

// Verdicts returns a copy of every recorded verdict
func (f *FormState) Verdicts() map[Field]Verdict {
	out := make(map[Field]Verdict, len(f.verdicts))
	for k, v := range f.verdicts {
		out[k] = v
	}
	return out
}

// ValidateAll checks every field and records the verdicts
func (f *FormState) ValidateAll() Result {
	res := f.validator.Validate(f.values)
	for field, v := range res.Verdicts {
		f.verdicts[field] = v
	}
	return res
}

// Registration validates the whole form and returns the typed registration
func (f *FormState) Registration() (Registration, error) {
	if err := f.ValidateAll().Err(); err != nil {
		return nil, err
	}
	return Parse(f.values.Clone())
}
