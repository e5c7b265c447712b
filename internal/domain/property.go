package domain

// FieldKey names one structured fact a property can answer without the model.
// The key's text is also the label searched for in guest messages.
type FieldKey string

const (
	FieldWifi            FieldKey = "wifi"
	FieldCheckIn         FieldKey = "check in"
	FieldCheckout        FieldKey = "checkout"
	FieldRecommendations FieldKey = "recommendations"
)

// Field ties a key to its storage column / JSON attribute name.
type Field struct {
	Key    FieldKey
	Column string
}

// Fields is the closed, ordered set of structured fields shared by the
// matcher, the MySQL schema and the registration payload. Order matters:
// when a query mentions several labels the earliest entry wins.
var Fields = []Field{
	{Key: FieldWifi, Column: "wifi"},
	{Key: FieldCheckIn, Column: "check_in"},
	{Key: FieldCheckout, Column: "checkout"},
	{Key: FieldRecommendations, Column: "recommendations"},
}

// Label is the lower-case text searched for in guest messages.
func (k FieldKey) Label() string { return string(k) }

// Property is one registered rental, keyed by the phone number guests text.
// Values are opaque text; nothing here parses times or credentials.
type Property struct {
	Phone  string              `json:"phone_number"`
	Values map[FieldKey]string `json:"values"`
}

// Value returns the stored text for k, or "" when unset.
func (p Property) Value(k FieldKey) string {
	return p.Values[k]
}

// PropertyFromColumns builds a Property from a flat
// {"phone_number": ..., <column>: value} object; unknown keys are ignored.
func PropertyFromColumns(m map[string]string) Property {
	p := Property{Phone: m["phone_number"], Values: make(map[FieldKey]string, len(Fields))}
	for _, f := range Fields {
		if v, ok := m[f.Column]; ok {
			p.Values[f.Key] = v
		}
	}
	return p
}

// Columns is the inverse of PropertyFromColumns.
func (p Property) Columns() map[string]string {
	out := map[string]string{"phone_number": p.Phone}
	for _, f := range Fields {
		out[f.Column] = p.Value(f.Key)
	}
	return out
}
