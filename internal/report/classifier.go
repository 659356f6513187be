package report

import "regexp"

// classifierPatterns is the fixed, ordered set of content-type detectors.
// A page may match any number of them; order only controls the order of the
// returned tags, not exclusivity.
var classifierPatterns = []struct {
	Type    ContentType
	Pattern *regexp.Regexp
}{
	{TypePatientInfo, regexp.MustCompile(`(?i)(paciente|data\s+de\s+nascimento|m[ée]dico\s+solicitante|protocolo)`)},
	{TypeFunctionalTests, regexp.MustCompile(`(?i)(testes?\s+funciona(l|is)|ph\s+fecal|consist[êe]ncia|sangue\s+oculto|gordura\s+fecal)`)},
	{TypeBiomarkers, regexp.MustCompile(`(?i)(calprotectina|zonulina|elastase|lactoferrina|alfa-?1-?antitripsina|iga\s+secretora)`)},
	{TypeMicrobiotaOverview, regexp.MustCompile(`(?i)([íi]ndice\s+de\s+disbiose|diversidade|shannon|firmicutes\s*/\s*bacteroidetes)`)},
	{TypeBacterialTaxonomy, regexp.MustCompile(`\b(Bacteria|Archaea)\s+\p{Lu}\p{Ll}+`)},
	{TypeFungalAnalysis, regexp.MustCompile(`(?i)(an[áa]lise\s+de\s+fungos|leveduras|candida|saccharomyces|micobiota)`)},
	{TypeResultsTable, regexp.MustCompile(`(?i)(resultado\s+unidade|valor(es)?\s+de\s+refer[êe]ncia|intervalo\s+de\s+refer[êe]ncia)`)},
}

// Classify tags a page's raw text with every content type whose pattern
// matches. Multi-label: a page can carry several tags. Pages matching nothing
// get {unknown}.
func Classify(rawText string) []ContentType {
	var types []ContentType
	for _, cp := range classifierPatterns {
		if cp.Pattern.MatchString(rawText) {
			types = append(types, cp.Type)
		}
	}
	if len(types) == 0 {
		types = []ContentType{TypeUnknown}
	}
	return types
}

// hasType reports whether a detected-type set contains t.
func hasType(types []ContentType, t ContentType) bool {
	for _, dt := range types {
		if dt == t {
			return true
		}
	}
	return false
}
