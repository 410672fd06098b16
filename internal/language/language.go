// Package language holds the languages the assistant can answer in.
package language

import "strings"

// Default is used whenever a code is unknown.
const Default = "en"

// Language describes one supported response language.
type Language struct {
	Code string
	// Name is the display name shown to models and users, e.g. "Hindi (हिंदी)".
	Name string
	// EnglishName is the bare English name, e.g. "Hindi".
	EnglishName string
}

var supported = map[string]Language{
	"en": {Code: "en", Name: "English", EnglishName: "English"},
	"hi": {Code: "hi", Name: "Hindi (हिंदी)", EnglishName: "Hindi"},
	"ta": {Code: "ta", Name: "Tamil (தமிழ்)", EnglishName: "Tamil"},
	"te": {Code: "te", Name: "Telugu (తెలుగు)", EnglishName: "Telugu"},
	"kn": {Code: "kn", Name: "Kannada (ಕನ್ನಡ)", EnglishName: "Kannada"},
	"ml": {Code: "ml", Name: "Malayalam (മലയാളം)", EnglishName: "Malayalam"},
	"mr": {Code: "mr", Name: "Marathi (मराठी)", EnglishName: "Marathi"},
	"gu": {Code: "gu", Name: "Gujarati (ગુજરાતી)", EnglishName: "Gujarati"},
	"bn": {Code: "bn", Name: "Bengali (বাংলা)", EnglishName: "Bengali"},
	"pa": {Code: "pa", Name: "Punjabi (ਪੰਜਾਬੀ)", EnglishName: "Punjabi"},
	"or": {Code: "or", Name: "Odia (ଓଡ଼ିଆ)", EnglishName: "Odia"},
	"as": {Code: "as", Name: "Assamese (অসমীয়া)", EnglishName: "Assamese"},
}

var exhaustion = map[string]string{
	"en": "Sorry, something went wrong. Please try again.",
	"hi": "माफ करें, कुछ समस्या हुई। कृपया दोबारा कोशिश करें।",
	"ta": "மன்னிக்கவும், ஏதோ தவறு நடந்தது. மீண்டும் முயற்சிக்கவும்.",
	"te": "క్షమించండి, ఏదో తప్పు జరిగింది. దయచేసి మళ్లీ ప్రయత్నించండి.",
	"kn": "ಕ್ಷಮಿಸಿ, ಏನೋ ತಪ್ಪಾಗಿದೆ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
	"ml": "ക്ഷമിക്കണം, എന്തോ തെറ്റ് സംഭവിച്ചു. വീണ്ടും ശ്രമിക്കുക.",
	"mr": "माफ करा, काहीतरी चूक झाली. कृपया पुन्हा प्रयत्न करा.",
	"gu": "માફ કરશો, કંઈક ખોટું થયું. કૃપા કરીને ફરી પ્રયાસ કરો.",
	"bn": "দুঃখিত, কিছু ভুল হয়েছে। অনুগ্রহ করে আবার চেষ্টা করুন।",
	"pa": "ਮਾਫ਼ ਕਰੋ, ਕੁਝ ਗਲਤ ਹੋ ਗਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
	"or": "କ୍ଷମା କରନ୍ତୁ, କିଛି ଭୁଲ୍ ହୋଇଛି। ଦୟାକରି ପୁନର୍ବାର ଚେଷ୍ଟା କରନ୍ତୁ।",
	"as": "ক্ষমা কৰক, কিবা ভুল হৈছে। অনুগ্ৰহ কৰি আকৌ চেষ্টা কৰক।",
}

// Resolve maps a language code to its Language. Unknown or empty codes
// resolve to English; the lookup never fails.
func Resolve(code string) Language {
	if l, ok := supported[strings.ToLower(strings.TrimSpace(code))]; ok {
		return l
	}
	return supported[Default]
}

// Supported reports whether code is one of the known language codes.
func Supported(code string) bool {
	_, ok := supported[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Codes returns every supported code.
func Codes() []string {
	return []string{"en", "hi", "ta", "te", "kn", "ml", "mr", "gu", "bn", "pa", "or", "as"}
}

// ExhaustionMessage is the apology shown when no provider could answer.
func ExhaustionMessage(code string) string {
	if msg, ok := exhaustion[strings.ToLower(strings.TrimSpace(code))]; ok {
		return msg
	}
	return exhaustion[Default]
}
