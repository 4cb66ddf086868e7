package steps

import (
	"fmt"
	"strings"
)

// IdentifyPrompt asks for plant identification and diagnosis in one shot.
// The schema here must stay in sync with IdentifyResult.
const IdentifyPrompt = `You are an expert plant pathologist and botanist.
Analyze this plant image carefully.

1. IDENTIFY the plant species (common name and scientific name).
2. DIAGNOSE any disease, pest, or health issue visible.
3. List all SYMPTOMS you can see in the image.

Respond ONLY with valid JSON (no markdown, no code blocks):
{
  "plant_info": {
    "common_name": "e.g. Tomato",
    "scientific_name": "e.g. Solanum lycopersicum",
    "family": "e.g. Solanaceae",
    "plant_type": "herb/shrub/tree/vine/succulent/grass/flower/vegetable/fruit",
    "origin": "Native region",
    "description": "1-2 sentence description of this plant",
    "ideal_conditions": {
      "sunlight": "Full sun / Partial shade / Shade",
      "temperature": "e.g. 18-30C",
      "humidity": "Low / Medium / High",
      "soil": "e.g. Well-drained loamy soil"
    },
    "general_care": {
      "watering": "Watering needs",
      "fertilizing": "Fertilizer schedule",
      "pruning": "Pruning advice",
      "common_issues": ["Issue 1", "Issue 2"]
    }
  },
  "is_healthy": false,
  "disease_name": "Exact disease name or 'Healthy'",
  "disease_type": "fungal/bacterial/viral/pest/nutrient_deficiency/environmental/healthy",
  "confidence": 85,
  "severity": "mild/moderate/severe/none",
  "health_score": 45,
  "symptoms_observed": ["symptom 1", "symptom 2", "symptom 3"]
}

IMPORTANT:
- Be SPECIFIC about the disease - use real pathological names (e.g. "Early Blight", "Powdery Mildew", "Bacterial Leaf Spot")
- List ALL visible symptoms clearly
- If healthy, set health_score above 80 and disease_name to "Healthy"
`

// EnrichPrompt asks for detailed, searchable treatment information for a
// diagnosed disease.
func EnrichPrompt(plantName, diseaseName string, symptoms []string) string {
	symptomText := "general decline"
	if len(symptoms) > 0 {
		symptomText = strings.Join(symptoms, ", ")
	}
	return fmt.Sprintf(`Search the internet for comprehensive information about the plant disease described below.
Find REAL, up-to-date treatment solutions, specific product names, and scientific information.

Plant: %s
Disease: %s
Symptoms observed: %s

Search for and provide ALL of the following in valid JSON format (no markdown, no code blocks):
{
  "description": "Detailed 3-5 sentence description of this disease - what causes it, how it spreads, and how it affects the plant. Include the scientific name of the pathogen if applicable.",
  "causes": [
    "Primary cause (e.g. specific pathogen name and conditions that favor it)",
    "Secondary contributing factor",
    "Environmental factor that promotes this disease"
  ],
  "immediate_actions": [
    "Step 1: Most urgent action with specific instructions",
    "Step 2: Second priority action",
    "Step 3: Additional immediate step"
  ],
  "treatment": {
    "organic": [
      "Specific organic treatment with exact dosage and application frequency (e.g. 'Neem oil spray - mix 2 tsp per liter of water, apply every 7 days')",
      "Another organic remedy with method"
    ],
    "chemical": [
      "Specific fungicide/pesticide product NAME with application instructions (e.g. 'Chlorothalonil (Daconil) - apply at 2 tsp per gallon every 7-10 days')",
      "Alternative chemical treatment with dosage"
    ],
    "cultural": [
      "Specific watering adjustment",
      "Environmental change needed",
      "Pruning or maintenance step"
    ]
  },
  "prevention": [
    "Specific prevention measure for this disease on this plant",
    "Long-term care practice",
    "Environmental condition to maintain"
  ],
  "watering_advice": {
    "frequency": "Specific watering schedule for this plant when dealing with this disease",
    "method": "Best watering method (e.g. drip irrigation at soil level)",
    "amount": "How much water"
  },
  "recovery_timeline": {
    "first_improvement": "When to expect first improvement (e.g. '5-7 days with fungicide treatment')",
    "significant_recovery": "When major recovery happens",
    "full_recovery": "Expected full recovery time"
  },
  "risk_if_untreated": "What will happen if this condition is not treated - be specific about progression"
}

IMPORTANT: Search the internet for the LATEST and most ACCURATE treatment information.
Include specific product names, dosages, and frequencies that are commonly available.
Give REAL, practical advice a home gardener can follow immediately.`, plantName, diseaseName, symptomText)
}
