package typespec

import "gopkg.in/yaml.v3"

// Annotation wraps a Spec so it can live in YAML documents. The YAML form is
// the annotation expression string accepted by Parse; marshaling renders the
// specification back via String. A declarative signature schema uses it for
// parameter and return types.
type Annotation struct {
	Spec Spec
}

var (
	_ yaml.Unmarshaler = (*Annotation)(nil)
	_ yaml.Marshaler   = Annotation{}
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Annotation) UnmarshalYAML(node *yaml.Node) error {
	var expr string
	if err := node.Decode(&expr); err != nil {
		return err
	}

	spec, err := Parse(expr)
	if err != nil {
		return err
	}

	a.Spec = spec

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Annotation) MarshalYAML() (any, error) {
	if a.Spec == nil {
		return "any", nil
	}

	return a.Spec.String(), nil
}
