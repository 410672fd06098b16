package diagnosis

import "strings"

// DiseaseInfo is the display form of a classifier label.
type DiseaseInfo struct {
	Name     string
	Severity string
}

// diseaseLabels maps PlantVillage labels to common names.
var diseaseLabels = map[string]DiseaseInfo{
	"Apple___Apple_scab":                                 {"Apple Scab", "moderate"},
	"Apple___Black_rot":                                  {"Apple Black Rot", "high"},
	"Apple___Cedar_apple_rust":                           {"Cedar Apple Rust", "moderate"},
	"Apple___healthy":                                    {"Healthy Apple Plant", "none"},
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot": {"Corn Gray Leaf Spot", "moderate"},
	"Corn_(maize)___Common_rust_":                        {"Corn Common Rust", "moderate"},
	"Corn_(maize)___Northern_Leaf_Blight":                {"Corn Northern Leaf Blight", "high"},
	"Corn_(maize)___healthy":                             {"Healthy Corn Plant", "none"},
	"Grape___Black_rot":                                  {"Grape Black Rot", "high"},
	"Grape___Esca_(Black_Measles)":                       {"Grape Esca (Black Measles)", "high"},
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)":         {"Grape Leaf Blight", "moderate"},
	"Grape___healthy":                                    {"Healthy Grape Plant", "none"},
	"Potato___Early_blight":                              {"Potato Early Blight", "moderate"},
	"Potato___Late_blight":                               {"Potato Late Blight", "high"},
	"Potato___healthy":                                   {"Healthy Potato Plant", "none"},
	"Tomato___Bacterial_spot":                            {"Tomato Bacterial Spot", "moderate"},
	"Tomato___Early_blight":                              {"Tomato Early Blight", "moderate"},
	"Tomato___Late_blight":                               {"Tomato Late Blight", "high"},
	"Tomato___Leaf_Mold":                                 {"Tomato Leaf Mold", "moderate"},
	"Tomato___Septoria_leaf_spot":                        {"Tomato Septoria Leaf Spot", "moderate"},
	"Tomato___Spider_mites Two-spotted_spider_mite":      {"Tomato Spider Mites", "moderate"},
	"Tomato___Target_Spot":                               {"Tomato Target Spot", "moderate"},
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus":             {"Tomato Yellow Leaf Curl Virus", "high"},
	"Tomato___Tomato_mosaic_virus":                       {"Tomato Mosaic Virus", "high"},
	"Tomato___healthy":                                   {"Healthy Tomato Plant", "none"},
}

// LookupLabel returns the display name and severity for a classifier label.
// Unknown labels keep their text with underscores turned into spaces.
func LookupLabel(label string) DiseaseInfo {
	if info, ok := diseaseLabels[label]; ok {
		return info
	}
	return DiseaseInfo{Name: strings.ReplaceAll(label, "_", " "), Severity: "unknown"}
}

// KnownLabels returns how many labels have a curated mapping.
func KnownLabels() int { return len(diseaseLabels) }
