// internal/form/definition.go
//
// Adept – Forms subsystem: YAML definition loader.
//
// Context
//   Besides forms wired in Go (see components/auth), a form can be declared
//   in YAML.  A definition names the form, lists its fields, and for each
//   field picks an input kind, mutators, bound options, and validators with
//   their messages.  At start-up every “*.yaml” under
//   “<base>/components/<comp>/forms/” is parsed and kept in an in-memory
//   registry.  Build turns a definition into a Binding on a session's store.
//   Optional actions (actions.go) run after a valid submission.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → ValidatorDef.
//   •  LoadFormDef parses and validates one file.
//   •  RegisterForms walks base directories in precedence order; the first
//      definition of an ID wins.
//   •  GetFormDef and All offer read-only access.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/adept-forms/internal/store"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID      string      `yaml:"id"`      // URL-safe identifier, e.g. “contact”.
	Title   string      `yaml:"title"`   // Page heading, optional.
	Submit  string      `yaml:"submit"`  // Submit button label, optional.
	Fields  []FieldDef  `yaml:"fields"`  // Declaration order is render order.
	Actions []ActionDef `yaml:"actions"` // Run after a valid submit.
}

// FieldDef describes one bound input.
type FieldDef struct {
	Name         string          `yaml:"name"`          // Submission key.  Required.
	Label        string          `yaml:"label"`         // Human-readable label.  Required.
	Kind         Kind            `yaml:"kind"`          // text, notempty, or password.
	Type         string          `yaml:"type"`          // HTML input type for text kinds.
	Placeholder  string          `yaml:"placeholder"`   // Optional placeholder text.
	AutoComplete string          `yaml:"autocomplete"`  // Optional autocomplete hint.
	Initial      string          `yaml:"initial"`       // Starting value.
	NoHelperText bool            `yaml:"no_helper"`     // Hide the helper line.
	Mutators     []string        `yaml:"mutators"`      // Names from MutatorByName.
	Options      ValidateOptions `yaml:"options"`       // Bounds shared by validators.
	Validators   []ValidatorDef  `yaml:"validators"`    // Checked in order.
}

// ValidatorDef pairs a rule with its message.
type ValidatorDef struct {
	Rule    string `yaml:"rule"`    // notempty, length, diapason, afterdot, pattern.
	Message string `yaml:"message"` // Shown when the rule fails.
	Pattern string `yaml:"pattern"` // Regex for the pattern rule.
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a registered definition by ID.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// All returns every registered definition sorted by ID.
func All() []*FormDef {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*FormDef, 0, len(registry))
	for _, fd := range registry {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Register validates fd and inserts or replaces it.
func Register(fd *FormDef) error {
	if err := validateFormDef(fd, "<memory>"); err != nil {
		return err
	}
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef parses one YAML file.  It never touches the registry.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// ParseFormDef parses YAML bytes; source names the origin in errors.
func ParseFormDef(raw []byte, source string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", source, err)
	}
	if err := validateFormDef(&fd, source); err != nil {
		return nil, err
	}
	return &fd, nil
}

// FormFiles lists every “*.yaml” under <base>/components whose parent
// directory is “forms”, base by base in the given order.  Missing
// directories are skipped.
func FormFiles(baseDirs []string) ([]string, error) {
	var out []string
	for _, base := range baseDirs {
		root := filepath.Join(base, "components")
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
				return nil
			}
			if filepath.Base(filepath.Dir(path)) == "forms" {
				out = append(out, path)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return out, nil
}

// FindFormDefs parses every file FormFiles finds.  Dirs are ordered by
// precedence, highest first; the first definition of an ID wins.
func FindFormDefs(baseDirs []string) ([]*FormDef, error) {
	if len(baseDirs) == 0 {
		return nil, errors.New("FindFormDefs: no base directories provided")
	}
	files, err := FormFiles(baseDirs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []*FormDef
	for _, path := range files {
		fd, err := LoadFormDef(path)
		if err != nil {
			return nil, err // fail fast so issues surface loudly.
		}
		if !seen[fd.ID] {
			seen[fd.ID] = true
			out = append(out, fd)
		}
	}
	return out, nil
}

// RegisterForms loads definitions via FindFormDefs and registers them.  It
// returns the number registered.
func RegisterForms(baseDirs []string) (int, error) {
	defs, err := FindFormDefs(baseDirs)
	if err != nil {
		return 0, err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, fd := range defs {
		registry[fd.ID] = fd
	}
	return len(defs), nil
}

// -----------------------------------------------------------------------------
// Build
// -----------------------------------------------------------------------------

// Build binds the definition to st.  Non-empty initial values are run through
// their field's pipeline, so a bad initial value makes the form invalid
// before anyone touches it.
func (fd *FormDef) Build(st *store.Store) (*Binding[string], error) {
	specs := make([]FieldSpec[string], 0, len(fd.Fields))
	initial := make(FormState[string], len(fd.Fields))

	for i := range fd.Fields {
		f := &fd.Fields[i]
		spec, err := f.spec()
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", fd.ID, err)
		}
		specs = append(specs, spec)

		field := DefaultInputField
		if f.Initial != "" {
			h := spec.Props.ErrorHandling
			if spec.Kind == KindNotEmpty {
				h = h.withHelper(NotEmpty)
			}
			field.Value, field.Error = h.Apply(f.Initial, "")
		}
		initial[f.Name] = field
	}

	return Bind(st, CreateSliceOptions(fd.ID, initial), specs...)
}

// spec compiles the YAML field into a FieldSpec.
func (f *FieldDef) spec() (FieldSpec[string], error) {
	h := ErrorHandling{ValidateOptions: f.Options}

	for _, name := range f.Mutators {
		m, ok := MutatorByName(name)
		if !ok {
			return FieldSpec[string]{}, fmt.Errorf("field '%s': unknown mutator %q", f.Name, name)
		}
		h.Mutators = append(h.Mutators, m)
	}
	for _, v := range f.Validators {
		helper, err := v.helper()
		if err != nil {
			return FieldSpec[string]{}, fmt.Errorf("field '%s': %w", f.Name, err)
		}
		h.ValidateHelpers = append(h.ValidateHelpers, helper)
	}

	return FieldSpec[string]{
		Name: f.Name,
		Kind: f.Kind,
		Props: TextInputProps{
			Label:         f.Label,
			Placeholder:   f.Placeholder,
			Type:          f.Type,
			AutoComplete:  f.AutoComplete,
			NoHelperText:  f.NoHelperText,
			ErrorHandling: h,
		},
	}, nil
}

func (v ValidatorDef) helper() (ValidateHelper, error) {
	switch v.Rule {
	case "notempty":
		h := NotEmpty
		if v.Message != "" {
			h.ErrorText = v.Message
		}
		return h, nil
	case "length":
		return Length(v.Message), nil
	case "diapason":
		return Diapason(v.Message), nil
	case "afterdot":
		return AfterDot(v.Message), nil
	case "pattern":
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return ValidateHelper{}, fmt.Errorf("invalid regex pattern: %v", err)
		}
		return Matches(re, v.Message), nil
	default:
		return ValidateHelper{}, fmt.Errorf("unknown validator rule %q", v.Rule)
	}
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules YAML tags cannot express.
func validateFormDef(fd *FormDef, path string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}
	if !idPattern.MatchString(fd.ID) {
		return fmt.Errorf("form definition %s: id %q must match %s", path, fd.ID, idPattern)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", path)
	}

	names := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, path); err != nil {
			return err
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", path, f.Name)
		}
		names[f.Name] = struct{}{}
	}
	for _, ac := range fd.Actions {
		if err := validateAction(ac); err != nil {
			return fmt.Errorf("form %s: %w", path, err)
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, path string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", path)
	}
	if strings.HasPrefix(f.Name, "_") || f.Name == "csrf_token" {
		return fmt.Errorf("form %s: field name '%s' is reserved", path, f.Name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", path, f.Name)
	}
	switch f.Kind {
	case "":
		f.Kind = KindText
	case KindText, KindNotEmpty, KindPassword:
	default:
		return fmt.Errorf("form %s: field '%s' has unknown kind %q", path, f.Name, f.Kind)
	}

	o := f.Options
	if (o.MinLength != nil && *o.MinLength < 0) || (o.MaxLength != nil && *o.MaxLength < 0) {
		return fmt.Errorf("form %s: field '%s' min_length/max_length cannot be negative", path, f.Name)
	}
	if o.MinLength != nil && o.MaxLength != nil && *o.MinLength > *o.MaxLength {
		return fmt.Errorf("form %s: field '%s' min_length greater than max_length", path, f.Name)
	}
	if o.MaxAfterDot != nil && *o.MaxAfterDot < 0 {
		return fmt.Errorf("form %s: field '%s' max_after_dot cannot be negative", path, f.Name)
	}

	// Compile once here so Build never fails on a registered definition.
	if _, err := f.spec(); err != nil {
		return fmt.Errorf("form %s: %w", path, err)
	}
	return nil
}
