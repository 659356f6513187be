package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the closed sets of known taxonomic rank names used to split
// flattened taxonomy strings. The data lives outside the matching logic so a
// new vendor's ranks can be added without touching the parser.
type Vocabulary struct {
	Phyla   []string `yaml:"phyla"`
	Classes []string `yaml:"classes"`
	Orders  []string `yaml:"orders"`

	phyla   map[string]struct{}
	classes map[string]struct{}
	orders  map[string]struct{}
}

// defaultPhyla covers the phyla observed across gut-microbiome report vendors.
var defaultPhyla = []string{
	"Firmicutes", "Bacteroidetes", "Proteobacteria", "Actinobacteria",
	"Verrucomicrobia", "Fusobacteria", "Euryarchaeota", "Cyanobacteria",
	"Tenericutes", "Lentisphaerae", "Synergistetes", "Spirochaetes",
	"Elusimicrobia",
}

var defaultClasses = []string{
	"Clostridia", "Bacilli", "Bacteroidia", "Negativicutes", "Erysipelotrichia",
	"Gammaproteobacteria", "Betaproteobacteria", "Deltaproteobacteria",
	"Alphaproteobacteria", "Epsilonproteobacteria", "Actinomycetia",
	"Coriobacteriia", "Verrucomicrobiae", "Fusobacteriia", "Methanobacteria",
	"Mollicutes", "Lentisphaeria", "Synergistia",
}

var defaultOrders = []string{
	"Clostridiales", "Lactobacillales", "Bacillales", "Bacteroidales",
	"Enterobacterales", "Bifidobacteriales", "Coriobacteriales",
	"Selenomonadales", "Veillonellales", "Erysipelotrichales",
	"Verrucomicrobiales", "Fusobacteriales", "Methanobacteriales",
	"Burkholderiales", "Desulfovibrionales", "Campylobacterales",
	"Actinomycetales", "Pseudomonadales", "Aeromonadales", "Pasteurellales",
}

// DefaultVocabulary returns the built-in rank vocabularies.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		Phyla:   defaultPhyla,
		Classes: defaultClasses,
		Orders:  defaultOrders,
	}
	v.index()
	return v
}

// LoadVocabulary reads a YAML vocabulary file and merges it over the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func LoadVocabulary(path string) (*Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	v.Phyla = append(v.Phyla, override.Phyla...)
	v.Classes = append(v.Classes, override.Classes...)
	v.Orders = append(v.Orders, override.Orders...)
	v.index()
	return v, nil
}

func (v *Vocabulary) index() {
	v.phyla = toSet(v.Phyla)
	v.classes = toSet(v.Classes)
	v.orders = toSet(v.Orders)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsPhylum reports whether name is a known phylum.
func (v *Vocabulary) IsPhylum(name string) bool {
	_, ok := v.phyla[name]
	return ok
}

// IsClass reports whether name is a known class.
func (v *Vocabulary) IsClass(name string) bool {
	_, ok := v.classes[name]
	return ok
}

// IsOrder reports whether name is a known order.
func (v *Vocabulary) IsOrder(name string) bool {
	_, ok := v.orders[name]
	return ok
}
