// internal/form/definition.go
//
// Contact form – YAML render-surface definition.
//
// Context
//   The render surface (labels, input types, placeholders, option lists,
//   textarea size, and post-submit actions) is declared in YAML.  A default
//   document is embedded in the binary; operators may point
//   form.definition at an override file.  Field names are fixed by this
//   package, so the loader rejects documents that rename, drop, or repeat a
//   field, or that offer options the State would refuse.
//
// Workflow
//   •  Structs mirror the YAML schema: Definition → FieldDef / OptionDef /
//      ActionDef.
//   •  ParseDefinition decodes bytes and validates structural rules.
//   •  LoadDefinition reads a file; DefaultDefinition parses the embedded one.
//
//------------------------------------------------------------------------------

package form

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed contact.yaml
var defaultYAML []byte

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Definition is the parsed render surface.
type Definition struct {
	ID            string      `yaml:"id"`
	Title         string      `yaml:"title"`          // Heading above the form.
	ErrorsHeading string      `yaml:"errors_heading"` // Lead-in for the error block.
	SubmitLabel   string      `yaml:"submit_label"`
	Fields        []FieldDef  `yaml:"fields"`  // Render order.
	Actions       []ActionDef `yaml:"actions"` // Sinks for accepted snapshots.
}

// FieldDef describes one input control.
type FieldDef struct {
	Name        Field       `yaml:"name"`
	Label       string      `yaml:"label"`
	Type        string      `yaml:"type"` // text, email, select, radio, textarea, checkbox
	Placeholder string      `yaml:"placeholder"`
	Class       string      `yaml:"class"`      // Extra class hook, optional.
	EnabledBy   Field       `yaml:"enabled_by"` // Disabled while this field is empty.
	Options     []OptionDef `yaml:"options"`
	Rows        int         `yaml:"rows"`
	Cols        int         `yaml:"cols"`
}

// OptionDef is one select or radio choice.  Label defaults to Value.
type OptionDef struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Text returns the display text of the option.
func (o OptionDef) Text() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// ActionDef configures a sink for accepted snapshots ("log", "stdout").
type ActionDef struct {
	Type string `yaml:"type"`
}

// Field returns the definition for f, or nil.
func (d *Definition) Field(f Field) *FieldDef {
	for i := range d.Fields {
		if d.Fields[i].Name == f {
			return &d.Fields[i]
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// DefaultDefinition returns the embedded definition.
func DefaultDefinition() *Definition {
	d, err := ParseDefinition(defaultYAML, "embedded contact.yaml")
	if err != nil {
		panic(err) // embedded document is covered by tests
	}
	return d
}

// LoadDefinition reads and validates the YAML file at path.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseDefinition(raw, path)
}

// ParseDefinition decodes raw YAML.  source names the document in errors.
func ParseDefinition(raw []byte, source string) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", source, err)
	}
	if err := validateDefinition(&d, source); err != nil {
		return nil, err
	}
	if d.SubmitLabel == "" {
		d.SubmitLabel = "Submit"
	}
	return &d, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var fieldTypes = map[Field]string{
	FieldName:         "text",
	FieldEmail:        "email",
	FieldPhone:        "text",
	FieldPhoneType:    "select",
	FieldRole:         "radio",
	FieldBio:          "textarea",
	FieldEmailUpdates: "checkbox",
}

// validateDefinition enforces rules YAML tags cannot express.
func validateDefinition(d *Definition, path string) error {
	if d.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}

	seen := make(map[Field]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if err := validateField(f, path); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", path, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for _, name := range Fields {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("form %s: missing field '%s'", path, name)
		}
	}

	for _, ac := range d.Actions {
		if ac.Type == "" {
			return fmt.Errorf("form %s: action missing 'type'", path)
		}
	}
	return nil
}

// validateField confirms the field is known, typed as the State expects, and
// offers only options the State accepts.
func validateField(f *FieldDef, path string) error {
	want, ok := fieldTypes[f.Name]
	if !ok {
		return fmt.Errorf("form %s: unknown field '%s'", path, f.Name)
	}
	if f.Type == "" {
		return fmt.Errorf("form %s: field '%s' missing 'type'", path, f.Name)
	}
	if f.Type != want {
		return fmt.Errorf("form %s: field '%s' must have type %q, not %q", path, f.Name, want, f.Type)
	}
	if f.Rows < 0 || f.Cols < 0 {
		return fmt.Errorf("form %s: field '%s' rows/cols cannot be negative", path, f.Name)
	}
	if f.EnabledBy != "" {
		if _, ok := fieldTypes[f.EnabledBy]; !ok {
			return fmt.Errorf("form %s: field '%s' enabled_by unknown field '%s'", path, f.Name, f.EnabledBy)
		}
	}

	switch f.Name {
	case FieldPhoneType:
		for _, o := range f.Options {
			if o.Value == "" || !validPhoneType(PhoneType(o.Value)) {
				return fmt.Errorf("form %s: field '%s' invalid option %q", path, f.Name, o.Value)
			}
		}
	case FieldRole:
		for _, o := range f.Options {
			if o.Value == "" || !validRole(Role(o.Value)) {
				return fmt.Errorf("form %s: field '%s' invalid option %q", path, f.Name, o.Value)
			}
		}
	default:
		if len(f.Options) > 0 {
			return fmt.Errorf("form %s: field '%s' does not take options", path, f.Name)
		}
	}
	if (f.Type == "select" || f.Type == "radio") && len(f.Options) == 0 {
		return fmt.Errorf("form %s: field '%s' needs at least one option", path, f.Name)
	}
	return nil
}
