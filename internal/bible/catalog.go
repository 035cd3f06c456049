// Package bible provides the verse catalog and the content-provider client.
package bible

import "math/rand"

// Version describes a Bible translation offered on the signup form.
type Version struct {
	Code     string
	Name     string
	Language string
}

// Versions is the curated set of supported translations.
var Versions = map[string]Version{
	"ESV":    {Code: "ESV", Name: "English Standard Version", Language: "en"},
	"NIV":    {Code: "NIV", Name: "New International Version", Language: "en"},
	"KJV":    {Code: "KJV", Name: "King James Version", Language: "en"},
	"NLT":    {Code: "NLT", Name: "New Living Translation", Language: "en"},
	"RVR":    {Code: "RVR", Name: "Reina Valera 1909", Language: "es"},
	"DELUT":  {Code: "DELUT", Name: "Luther Bible 1912", Language: "de"},
	"LSG":    {Code: "LSG", Name: "Louis Segond 1910", Language: "fr"},
	"DUTSVV": {Code: "DUTSVV", Name: "Dutch Staten Vertaling", Language: "nl"},
	"CUVS":   {Code: "CUVS", Name: "Chinese Union Simplified", Language: "zh"},
}

// Language groups the versions available for one language.
type Language struct {
	Code     string
	Name     string
	Versions []string
}

// Languages lists the supported languages in signup-form order.
var Languages = []Language{
	{Code: "en", Name: "English", Versions: []string{"ESV", "NIV", "KJV", "NLT"}},
	{Code: "es", Name: "Spanish", Versions: []string{"RVR"}},
	{Code: "de", Name: "German", Versions: []string{"DELUT"}},
	{Code: "fr", Name: "French", Versions: []string{"LSG"}},
	{Code: "nl", Name: "Dutch", Versions: []string{"DUTSVV"}},
	{Code: "zh", Name: "Mandarin", Versions: []string{"CUVS"}},
}

// ValidLanguage reports whether the language code is supported.
func ValidLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// ValidVersion reports whether the version belongs to the language's
// allowed set.
func ValidVersion(language, version string) bool {
	for _, l := range Languages {
		if l.Code != language {
			continue
		}
		for _, v := range l.Versions {
			if v == version {
				return true
			}
		}
	}
	return false
}

// versePool holds references that resolve across most translations.
var versePool = []string{
	"JHN.3.16", "PSA.23.1-6", "ROM.8.28", "PHP.4.13", "ISA.40.31",
	"JER.29.11", "PRO.3.5-6", "ROM.12.2", "GAL.5.22-23", "HEB.11.1",
	"JOS.1.9", "PSA.46.10", "MAT.11.28-30", "ROM.5.8", "2CO.5.17",
	"EPH.2.8-9", "PHP.4.6-7", "PSA.119.105", "1CO.13.4-7", "ROM.8.38-39",
	"ISA.41.10", "MAT.6.33", "PSA.37.4", "PRO.22.6", "COL.3.23",
	"HEB.12.1-2", "1PE.5.7", "MAT.28.19-20", "DEU.31.6", "PSA.91.1-2",
	"JHN.14.6", "JHN.1.1", "GEN.1.1", "ROM.3.23", "EPH.6.10-11",
	"PSA.27.1", "ISA.53.5", "MAT.5.16", "JAM.1.2-4", "2TI.1.7",
	"PSA.121.1-2", "ROM.12.12", "HEB.4.16", "PSA.34.8", "1JN.4.19",
	"LAM.3.22-23", "MIC.6.8", "PRO.16.3", "PSA.139.14", "NAH.1.7",
}

// RandomReference picks a verse reference from the pool.
func RandomReference() string {
	return versePool[rand.Intn(len(versePool))]
}
