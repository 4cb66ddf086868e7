package careplan

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

type wateringTemplate struct {
	Frequency string `yaml:"frequency"`
	Method    string `yaml:"method"`
	Amount    string `yaml:"amount"`
	Tip       string `yaml:"tip"`
}

type treatmentTemplate struct {
	Organic  []string `yaml:"organic"`
	Chemical []string `yaml:"chemical"`
	Cultural []string `yaml:"cultural"`
}

// Template is one disease's care recommendation block as shipped in the
// embedded catalogue.
type Template struct {
	ImmediateActions []string          `yaml:"immediate_actions"`
	Treatment        treatmentTemplate `yaml:"treatment"`
	Prevention       []string          `yaml:"prevention"`
	Watering         wateringTemplate  `yaml:"watering"`
	Notes            []string          `yaml:"notes"`
	Tips             []string          `yaml:"tips"`
}

type templateFile struct {
	Diseases map[string]Template `yaml:"diseases"`
	Default  Template            `yaml:"default"`
}

// loadTemplates parses the embedded catalogue and checks that every known
// disease label has a template.
func loadTemplates() (map[domain.Disease]Template, Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(templatesYAML, &f); err != nil {
		return nil, Template{}, fmt.Errorf("careplan: parse embedded templates: %w", err)
	}
	out := make(map[domain.Disease]Template, len(f.Diseases))
	for name, tpl := range f.Diseases {
		d := domain.Disease(name)
		if !d.Valid() {
			return nil, Template{}, fmt.Errorf("careplan: template for unknown disease %q", name)
		}
		out[d] = tpl
	}
	for _, d := range domain.DiseaseOrder {
		if _, ok := out[d]; !ok {
			return nil, Template{}, fmt.Errorf("careplan: missing template for disease %q", d)
		}
	}
	if len(f.Default.ImmediateActions) == 0 {
		return nil, Template{}, fmt.Errorf("careplan: default template is empty")
	}
	return out, f.Default, nil
}
