package prompt

// Language pairs a BCP-47-ish code with the display name substituted into
// the prompt template.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Languages lists the supported recipe languages, English first.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "mr", Name: "Marathi"},
	{Code: "te", Name: "Telugu"},
	{Code: "ta", Name: "Tamil"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "bn", Name: "Bengali"},
}

// LanguageName resolves a code to its display name, falling back to English
// for unknown codes.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}
