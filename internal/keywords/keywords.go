// Package keywords defines the three keyword groups used to classify
// EUR-Lex documents. Groups are immutable value objects: constructed once
// at startup and passed explicitly to the matcher.
package keywords

// Wildcard is the marker inside a keyword stem that matches any run of
// word characters (e.g. "fertiliz*" covers fertilizer and fertiliser).
const Wildcard = "*"

// Group is a named, ordered, immutable set of keywords.
type Group struct {
	name     string
	keywords []string
}

func NewGroup(name string, kws []string) Group {
	copied := make([]string, len(kws))
	copy(copied, kws)
	return Group{name: name, keywords: copied}
}

func (g Group) Name() string { return g.name }

func (g Group) Len() int { return len(g.keywords) }

// Keywords returns a copy so callers cannot mutate the group.
func (g Group) Keywords() []string {
	copied := make([]string, len(g.keywords))
	copy(copied, g.keywords)
	return copied
}

// Taxonomy bundles the three classification groups. The place/company group
// is the mandatory one; measure and product are the optional pair.
type Taxonomy struct {
	Measure      Group
	Product      Group
	PlaceCompany Group

	countryNames map[string]struct{}
}

// IsCountryName reports whether a place/company keyword denotes a country
// rather than a company. Entity extraction skips these.
func (t Taxonomy) IsCountryName(keyword string) bool {
	_, ok := t.countryNames[keyword]
	return ok
}

// TotalKeywords returns the keyword count across all three groups.
func (t Taxonomy) TotalKeywords() int {
	return t.Measure.Len() + t.Product.Len() + t.PlaceCompany.Len()
}

// Default returns the trade-defence taxonomy for phosphate and fertilizer
// trade measures involving Morocco and the major producers.
func Default() Taxonomy {
	return Taxonomy{
		Measure: NewGroup("measure", []string{
			"antidumping", "anti-dumping", "countervailing duty", "CVD",
			"anti-subsidy", "safeguard", "regulation", "decision", "review",
			"sunset review", "circumvention", "antitrust", "sanctions",
			"trade defence", "trade defense", "dumping", "subsidy",
		}),
		Product: NewGroup("product", []string{
			"phosphate", "phosphate rock", "phosphoric acid", "fertilizer",
			"fertiliser", "DAP", "MAP", "TSP", "SSP", "diammonium phosphate",
			"monoammonium phosphate", "triple superphosphate", "single superphosphate",
			"HS25", "HS31", "3103", "3105", "mineral fertilizer", "chemical fertilizer",
		}),
		PlaceCompany: NewGroup("place_company", []string{
			"Morocco", "OCP", "Mosaic", "Nutrien", "Yara", "ICL", "Maaden",
			"Eurochem", "Phosagro", "CF Industries", "CFIndustries",
			"Jordan Phosphate", "JPMC", "Moroccan", "Israel Chemicals",
			"PhosAgro", "EuroChem", "Nutrien Ltd", "The Mosaic Company",
		}),
		countryNames: map[string]struct{}{
			"Morocco":  {},
			"Moroccan": {},
		},
	}
}
