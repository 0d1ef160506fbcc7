package signature

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/amp-labs/typecheck/typespec"
)

// schema is the YAML form of a signature:
//
//	params:
//	  - name: name
//	    type: str
//	  - name: count
//	    type: int
//	    default: 1
//	  - name: tags
//	    type: str
//	    variadic: true
//	returns: str
//
// The "type" field holds an annotation expression (see typespec.Parse);
// omitting it leaves the slot unconstrained.
type schema struct {
	Params []schemaParam `yaml:"params"`

	Returns *typespec.Annotation `yaml:"returns"`
}

type schemaParam struct {
	Name     string               `yaml:"name"`
	Type     *typespec.Annotation `yaml:"type"`
	Default  *yaml.Node           `yaml:"default"`
	Variadic bool                 `yaml:"variadic"`
}

// FromYAML loads a signature from its declarative YAML form. The result
// goes through the same definition validation as the builder, so a schema
// with duplicate names or misplaced defaults fails with every problem
// reported.
func FromYAML(data []byte) (*Signature, error) {
	var s schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding signature schema: %w", err)
	}

	b := New()

	for _, p := range s.Params {
		var spec typespec.Spec
		if p.Type != nil {
			spec = p.Type.Spec
		}

		switch {
		case p.Variadic:
			b.Variadic(p.Name, spec)

		case p.Default != nil:
			var def any
			if err := p.Default.Decode(&def); err != nil {
				return nil, fmt.Errorf("decoding default for %q: %w", p.Name, err)
			}

			b.ParamDefault(p.Name, spec, def)

		default:
			b.Param(p.Name, spec)
		}
	}

	if s.Returns != nil {
		b.Returns(s.Returns.Spec)
	}

	return b.Build()
}
