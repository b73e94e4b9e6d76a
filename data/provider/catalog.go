package provider

import (
	"sort"
	"strings"
)

type MoleculeInfo struct {
	Name            string
	TherapeuticArea string
	Brand           string
}

var molecules = []MoleculeInfo{
	{Name: "Metformin", TherapeuticArea: "Diabetes", Brand: "Glucophage"},
	{Name: "Lisinopril", TherapeuticArea: "Cardiovascular", Brand: "Prinivil"},
	{Name: "Atorvastatin", TherapeuticArea: "Cardiovascular", Brand: "Lipitor"},
	{Name: "Omeprazole", TherapeuticArea: "Gastroenterology", Brand: "Prilosec"},
	{Name: "Amlodipine", TherapeuticArea: "Cardiovascular", Brand: "Norvasc"},
	{Name: "Sertraline", TherapeuticArea: "Psychiatry", Brand: "Zoloft"},
	{Name: "Albuterol", TherapeuticArea: "Respiratory", Brand: "Ventolin"},
	{Name: "Ibuprofen", TherapeuticArea: "Pain Management", Brand: "Advil"},
	{Name: "Levothyroxine", TherapeuticArea: "Endocrinology", Brand: "Synthroid"},
	{Name: "Losartan", TherapeuticArea: "Cardiovascular", Brand: "Cozaar"},
}

var manufacturers = []string{
	"Pfizer", "Merck", "AstraZeneca", "Novartis", "Johnson & Johnson",
	"Roche", "Sanofi", "GlaxoSmithKline", "Eli Lilly", "Bristol Myers Squibb",
	"Amgen", "Gilead", "Abbvie", "Regeneron", "Moderna",
	"Allergan", "Teva", "Mylan", "Sandoz", "Hospira",
}

var sponsors = []string{
	"Academic Medical Center", "Innovative Therapeutics", "BigPharma Corp",
	"Clinical Research Institute", "University Hospital", "National Cancer Institute",
	"Veterans Affairs", "Mayo Clinic", "Stanford University", "Harvard Medical School",
	"Memorial Sloan Kettering", "Cleveland Clinic", "Johns Hopkins", "Dana-Farber",
}

var indications = []string{
	"Type 2 Diabetes", "Hypertension", "Heart Failure", "Atrial Fibrillation",
	"Breast Cancer", "Colorectal Cancer", "Lung Cancer", "Melanoma",
	"Crohn's Disease", "Ulcerative Colitis", "Rheumatoid Arthritis", "Psoriasis",
	"COPD", "Asthma", "Pneumonia", "COVID-19",
}

// Molecules returns the catalogued molecules sorted by name.
func Molecules() []MoleculeInfo {
	out := append([]MoleculeInfo(nil), molecules...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupMolecule resolves a molecule by exact (case-insensitive) name, then by fuzzy match.
func LookupMolecule(name string) (MoleculeInfo, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MoleculeInfo{}, false
	}
	for _, m := range molecules {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	for _, m := range molecules {
		if FuzzyMatch(m.Name, name, DefaultFuzzyThreshold) {
			return m, true
		}
	}
	return MoleculeInfo{}, false
}

// DetectMolecule returns the first catalogued molecule mentioned in text.
func DetectMolecule(text string) (MoleculeInfo, bool) {
	lowered := strings.ToLower(text)
	best := -1
	var found MoleculeInfo
	for _, m := range molecules {
		idx := strings.Index(lowered, strings.ToLower(m.Name))
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			found = m
		}
	}
	return found, best >= 0
}

func moleculeInfo(name string) MoleculeInfo {
	if m, ok := LookupMolecule(name); ok {
		m.Name = name
		return m
	}
	return MoleculeInfo{Name: name, TherapeuticArea: "Multi-indication", Brand: name}
}
