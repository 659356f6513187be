package report

import (
	"regexp"
	"strings"
)

// Section extractors are pure functions over one page's raw text. A field
// that fails to match is simply omitted from the result; partial extraction
// is always valid.

// referenceWindow is how far past a biomarker match to look for its
// reference-range annotation.
const referenceWindow = 200

var patientInfoPatterns = []struct {
	Key     string
	Pattern *regexp.Regexp
}{
	{"name", regexp.MustCompile(`(?i)(?:paciente|nome)\s*:\s*([\p{L}][\p{L} .'\-]{1,60}?)(?:\s+(?:data|idade|sexo|m[ée]dico|protocolo)\b|$)`)},
	{"birth_date", regexp.MustCompile(`(?i)data\s+de\s+nascimento\s*:\s*(\d{2}/\d{2}/\d{4})`)},
	{"collection_date", regexp.MustCompile(`(?i)data\s+d[ae]\s+coleta\s*:\s*(\d{2}/\d{2}/\d{4})`)},
	{"physician", regexp.MustCompile(`(?i)m[ée]dico(?:\s+solicitante)?\s*:\s*([\p{L}][\p{L} .'\-]{1,60}?)(?:\s+(?:data|protocolo|crm)\b|$)`)},
	{"protocol", regexp.MustCompile(`(?i)protocolo\s*:?\s*([A-Z0-9\-]{4,20})`)},
}

// ExtractPatientInfo pulls labeled patient header fields from the page text.
func ExtractPatientInfo(text string) map[string]string {
	result := make(map[string]string)
	for _, p := range patientInfoPatterns {
		if m := p.Pattern.FindStringSubmatch(text); m != nil {
			result[p.Key] = trimField(m[1])
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

var functionalTestPatterns = []struct {
	Key     string
	Pattern *regexp.Regexp
	Numeric bool
}{
	{"fecal_ph", regexp.MustCompile(`(?i)ph\s+fecal\s*:?\s*(\d+(?:[.,]\d+)?)`), true},
	{"consistency", regexp.MustCompile(`(?i)consist[êe]ncia\s*:?\s*([\p{L}]+)`), false},
	{"occult_blood", regexp.MustCompile(`(?i)sangue\s+oculto\s*:?\s*(positivo|negativo)`), false},
	{"fecal_fat", regexp.MustCompile(`(?i)gordura\s+fecal\s*:?\s*(ausente|presente|\d+(?:[.,]\d+)?)`), true},
	{"starch_digestion", regexp.MustCompile(`(?i)amido\s*:?\s*(normal|alterado|aumentado)`), false},
	{"muscle_fibers", regexp.MustCompile(`(?i)fibras\s+musculares\s*:?\s*(normal|alterado|aumentadas?)`), false},
}

// ExtractFunctionalTests pulls functional stool test results from the page.
func ExtractFunctionalTests(text string) map[string]string {
	result := make(map[string]string)
	for _, p := range functionalTestPatterns {
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := trimField(m[1])
		if p.Numeric {
			value = normalizeDecimalString(value)
		}
		result[p.Key] = value
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

var biomarkerPatterns = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"calprotectin", regexp.MustCompile(`(?i)calprotectina\s*:?\s*(\d+(?:[.,]\d+)?)\s*([µμ]g/g|mg/kg|mg/g)?`)},
	{"zonulin", regexp.MustCompile(`(?i)zonulina\s*:?\s*(\d+(?:[.,]\d+)?)\s*(ng/m[lL]|[µμ]g/g)?`)},
	{"elastase", regexp.MustCompile(`(?i)elastase(?:\s+pancre[áa]tica)?\s*:?\s*(\d+(?:[.,]\d+)?)\s*([µμ]g/g)?`)},
	{"lactoferrin", regexp.MustCompile(`(?i)lactoferrina\s*:?\s*(\d+(?:[.,]\d+)?)\s*([µμ]g/g|mg/kg)?`)},
	{"alpha1_antitrypsin", regexp.MustCompile(`(?i)alfa-?1-?antitripsina\s*:?\s*(\d+(?:[.,]\d+)?)\s*(mg/d[lL]|mg/g)?`)},
	{"secretory_iga", regexp.MustCompile(`(?i)iga\s+secretora\s*:?\s*(\d+(?:[.,]\d+)?)\s*(mg/d[lL]|[µμ]g/m[lL])?`)},
}

var referencePattern = regexp.MustCompile(`(?i)normal\s*:\s*([^)]+)`)

// ExtractBiomarkers pulls named biomarker measurements from the page.
// The reference range is resolved by scanning a fixed window of text after
// each biomarker's match for a "Normal: ..." annotation.
func ExtractBiomarkers(text string) map[string]Biomarker {
	result := make(map[string]Biomarker)
	for _, p := range biomarkerPatterns {
		loc := p.Pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		m := extractSubmatches(text, loc)
		marker := Biomarker{
			Value: normalizeDecimalString(m[1]),
			Unit:  m[2],
		}

		end := loc[1]
		windowEnd := end + referenceWindow
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		if ref := referencePattern.FindStringSubmatch(text[end:windowEnd]); ref != nil {
			marker.Reference = trimField(ref[1])
		}

		result[p.Name] = marker
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

var microbiotaPatterns = []struct {
	Key     string
	Pattern *regexp.Regexp
}{
	{"dysbiosis_index", regexp.MustCompile(`(?i)[íi]ndice\s+de\s+disbiose\s*:?\s*(\d+(?:[.,]\d+)?)`)},
	{"shannon_diversity", regexp.MustCompile(`(?i)(?:diversidade(?:\s+de)?\s+shannon|shannon)\s*:?\s*(\d+[.,]\d+)`)},
	{"firmicutes_bacteroidetes_ratio", regexp.MustCompile(`(?i)firmicutes\s*/\s*bacteroidetes\s*:?\s*(\d+(?:[.,]\d+)?)`)},
	{"total_bacteria", regexp.MustCompile(`(?i)total\s+de\s+bact[ée]rias\s*:?\s*(\d+(?:[.,]\d+)?(?:\s*x\s*10\^?\d+)?)`)},
}

// ExtractMicrobiotaOverview pulls summary microbiome indices from the page.
func ExtractMicrobiotaOverview(text string) map[string]string {
	result := make(map[string]string)
	for _, p := range microbiotaPatterns {
		if m := p.Pattern.FindStringSubmatch(text); m != nil {
			result[p.Key] = normalizeDecimalString(m[1])
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// ExtractSections runs every extractor whose content type was detected on the
// page and collects the results.
func ExtractSections(text string, detected []ContentType, vocab *Vocabulary) Sections {
	var s Sections
	if hasType(detected, TypePatientInfo) {
		s.PatientInfo = ExtractPatientInfo(text)
	}
	if hasType(detected, TypeFunctionalTests) {
		s.FunctionalTests = ExtractFunctionalTests(text)
	}
	if hasType(detected, TypeBiomarkers) {
		s.Biomarkers = ExtractBiomarkers(text)
	}
	if hasType(detected, TypeMicrobiotaOverview) {
		s.MicrobiotaOverview = ExtractMicrobiotaOverview(text)
	}
	if hasType(detected, TypeBacterialTaxonomy) {
		s.BacterialTaxonomy = ParseBacterial(text, vocab)
	}
	if hasType(detected, TypeFungalAnalysis) {
		s.FungalAnalysis = ParseFungal(text)
	}
	return s
}

func extractSubmatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		start, end := loc[2*i], loc[2*i+1]
		if start >= 0 {
			m[i] = text[start:end]
		}
	}
	return m
}

var innerSpaceRe = regexp.MustCompile(`\s+`)

func trimField(s string) string {
	return innerSpaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
