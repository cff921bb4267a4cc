package drugtable

import (
	"errors"
	"fmt"
	"io"

	"github.com/giygas/antipsychotic-switch/drugtable/entities"
	"gopkg.in/yaml.v3"
)

// yamlDrug mirrors entities.Drug with every metric optional, so a missing
// defined_daily_dose can be told apart from a zero one
type yamlDrug struct {
	Name                 string   `yaml:"name"`
	Generation           string   `yaml:"generation"`
	DefinedDailyDose     *float64 `yaml:"defined_daily_dose"`
	EffectiveDose95      *float64 `yaml:"effective_dose_95"`
	MinimumEffectiveDose *float64 `yaml:"minimum_effective_dose"`
	HalfLife             string   `yaml:"half_life"`
	CYP450Enzymes        string   `yaml:"cyp450_enzymes"`
}

// YAMLSource reads a table file of the form:
//
//	drugs:
//	  - name: Haloperidol
//	    generation: first generation
//	    defined_daily_dose: 0.8
//	    effective_dose_95: 0.42
//	    minimum_effective_dose: 0.53
type YAMLSource struct {
	Path string
}

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{Path: path}
}

func (s *YAMLSource) Name() string {
	return s.Path
}

func (s *YAMLSource) Load() (*Table, error) {
	r, err := openTableFile(s.Path)
	if err != nil {
		return nil, err
	}
	return parseYAML(s.Path, r)
}

// parseYAML builds a table from a YAML document. Row numbers in errors are
// the line of the offending list entry.
func parseYAML(source string, r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &RowError{Reason: "file is empty"}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	list, err := drugsNode(&doc)
	if err != nil {
		return nil, err
	}

	b := newBuilder(source)
	for _, item := range list.Content {
		var yd yamlDrug
		if err := item.Decode(&yd); err != nil {
			return nil, &RowError{Row: item.Line, Reason: err.Error()}
		}

		if yd.DefinedDailyDose == nil {
			return nil, &RowError{
				Row:    item.Line,
				Drug:   NormalizeName(yd.Name),
				Reason: fmt.Sprintf("missing required value %s", entities.DefinedDailyDose),
			}
		}

		drug := entities.Drug{
			Name:                 yd.Name,
			Generation:           yd.Generation,
			DefinedDailyDose:     *yd.DefinedDailyDose,
			EffectiveDose95:      yd.EffectiveDose95,
			MinimumEffectiveDose: yd.MinimumEffectiveDose,
			HalfLife:             yd.HalfLife,
			CYP450Enzymes:        yd.CYP450Enzymes,
		}

		if err := b.add(item.Line, drug); err != nil {
			return nil, err
		}
	}

	return b.build()
}

// drugsNode finds the sequence under the top level drugs key
func drugsNode(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &RowError{Reason: "file is empty"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &RowError{Row: root.Line, Reason: "top level must be a mapping with a drugs key"}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != "drugs" {
			continue
		}
		if value.Kind != yaml.SequenceNode {
			return nil, &RowError{Row: value.Line, Reason: "drugs must be a list"}
		}
		return value, nil
	}

	return nil, &RowError{Row: root.Line, Reason: "missing drugs key"}
}
