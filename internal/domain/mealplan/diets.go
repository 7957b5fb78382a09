package mealplan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// dietAliases maps lower-cased external diet labels to catalog diet names.
// An empty value means the label is dropped on import.
var dietAliases = map[string]string{
	"gluten free":          "Gluten Free",
	"ketogenic":            "Ketogenic",
	"vegetarian":           "Vegetarian",
	"lacto-vegetarian":     "Lacto-Vegetarian",
	"ovo-vegetarian":       "Ovo-Vegetarian",
	"vegan":                "Vegan",
	"pescetarian":          "Pescetarian",
	"pescatarian":          "Pescetarian",
	"paleo":                "Paleo",
	"paleolithic":          "Paleo",
	"primal":               "Primal",
	"low fodmap":           "Low FODMAP",
	"fodmap friendly":      "Low FODMAP",
	"whole30":              "Whole30",
	"whole 30":             "Whole30",
	"lacto ovo vegetarian": "Lacto-Vegetarian",
	"dairy free":           "",
}

// TranslateDietName maps an external diet label to the catalog diet name.
// ok is false when the label must not be stored; dairy-free is tracked by
// the recipe flag instead of a diet tag.
func TranslateDietName(label string) (name string, ok bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return "", false
	}
	if translated, known := dietAliases[key]; known {
		return translated, translated != ""
	}
	return capitalize(key), true
}

// TranslateDietNames translates and de-duplicates labels, keeping first-seen order
func TranslateDietNames(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		name, ok := TranslateDietName(label)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
