package diagnosis

import "github.com/verdantlabs/leafsense-backend/internal/domain"

// CatalogueEntry is the static metadata attached to every prediction for a
// label. The catalogue is fixed at compile time; unknown labels never enter
// the pipeline.
type CatalogueEntry struct {
	BaseSeverity domain.Severity
	Description  string
	CommonCauses []string
}

var catalogue = map[domain.Disease]CatalogueEntry{
	domain.DiseaseHealthy: {
		BaseSeverity: domain.SeverityNone,
		Description:  "Plant appears healthy with no visible signs of disease",
	},
	domain.DiseaseLeafSpot: {
		BaseSeverity: domain.SeverityModerate,
		Description:  "Circular or irregular brown/black spots on leaves",
		CommonCauses: []string{"Fungal infection", "Bacterial infection", "Poor air circulation"},
	},
	domain.DiseasePowderyMildew: {
		BaseSeverity: domain.SeverityModerate,
		Description:  "White powdery coating on leaves and stems",
		CommonCauses: []string{"Fungal infection", "High humidity", "Poor air flow"},
	},
	domain.DiseaseRust: {
		BaseSeverity: domain.SeverityModerate,
		Description:  "Rust-colored pustules on leaf underside",
		CommonCauses: []string{"Fungal infection", "High humidity", "Wet conditions"},
	},
	domain.DiseaseBlight: {
		BaseSeverity: domain.SeveritySevere,
		Description:  "Large dark patches on leaves causing rapid leaf death",
		CommonCauses: []string{"Fungal infection", "Bacterial infection", "Wet weather"},
	},
	domain.DiseaseYellowing: {
		BaseSeverity: domain.SeverityMild,
		Description:  "Leaves turning yellow, often starting from older leaves",
		CommonCauses: []string{"Nutrient deficiency", "Poor drainage", "Overwatering"},
	},
	domain.DiseaseWilting: {
		BaseSeverity: domain.SeveritySevere,
		Description:  "Plants drooping and losing turgor despite moisture",
		CommonCauses: []string{"Underwatering", "Root rot", "Wilt diseases"},
	},
	domain.DiseasePestDamage: {
		BaseSeverity: domain.SeverityModerate,
		Description:  "Holes, discoloration, or abnormal leaf damage",
		CommonCauses: []string{"Insect infestation", "Mites", "Aphids"},
	},
}

// Lookup returns the catalogue entry for a label.
func Lookup(d domain.Disease) (CatalogueEntry, bool) {
	entry, ok := catalogue[d]
	return entry, ok
}
