package logic

// Keyword vocabularies the engine matches diagnosis text against. Order
// matters only for readability; matching is any-substring.

var fungalDiseases = []string{
	"powdery mildew",
	"leaf spot",
	"rust",
	"blight",
	"anthracnose",
	"damping off",
	"root rot",
	"mildew",
}

var bacterialDiseases = []string{
	"bacterial leaf spot",
	"bacterial blight",
	"crown gall",
	"bacterial wilt",
	"fire blight",
}

var viralDiseases = []string{
	"mosaic virus",
	"leaf curl virus",
	"viral infection",
	"virus disease",
}

var environmentalStresses = []string{
	"water stress",
	"drought stress",
	"overwatering",
	"nutrient deficiency",
	"nitrogen deficiency",
	"phosphorus deficiency",
	"potassium deficiency",
	"chlorosis",
	"yellowing",
	"sunburn",
	"cold damage",
	"heat stress",
}

var waterIndicators = []string{"drought", "water", "dry", "wilt", "overwater"}

var nutrientIndicators = []string{
	"nutrient", "nitrogen", "phosphorus", "potassium",
	"deficiency", "chlorosis", "yellowing", "pale",
}

var diseaseIndicators = []string{
	"disease", "infection", "fungal", "bacterial", "viral",
	"blight", "rust", "mildew", "spot", "rot",
}
