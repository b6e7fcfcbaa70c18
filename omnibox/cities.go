package omnibox

import (
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pagechat/keyword"
)

// City is an entry of the weather lookup table.
type City struct {
	Name    string // canonical display name, e.g. "New York"
	Country string // ISO 3166 alpha-2 code
}

// Param formats the city as the name,country pair weather services expect.
// Name and country are escaped separately so the separator stays literal.
func (c City) Param() string {
	return url.QueryEscape(c.Name) + "," + url.QueryEscape(c.Country)
}

type cityEntry struct {
	aliases []string
	name    string
	country string
}

// cities is consulted in order; the first alias found in the text wins.
var cities = []cityEntry{
	{[]string{"mumbai", "bombay"}, "mumbai", "IN"},
	{[]string{"new delhi", "delhi"}, "delhi", "IN"},
	{[]string{"bangalore", "bengaluru"}, "bangalore", "IN"},
	{[]string{"chennai", "madras"}, "chennai", "IN"},
	{[]string{"kolkata", "calcutta"}, "kolkata", "IN"},
	{[]string{"hyderabad"}, "hyderabad", "IN"},
	{[]string{"pune"}, "pune", "IN"},
	{[]string{"ahmedabad"}, "ahmedabad", "IN"},
	{[]string{"london"}, "london", "GB"},
	{[]string{"new york", "nyc"}, "new york", "US"},
	{[]string{"tokyo"}, "tokyo", "JP"},
	{[]string{"paris"}, "paris", "FR"},
	{[]string{"sydney"}, "sydney", "AU"},
	{[]string{"dubai"}, "dubai", "AE"},
	{[]string{"singapore"}, "singapore", "SG"},
}

// LookupCity finds the first known city mentioned in text.
func LookupCity(text string) (City, bool) {
	for _, c := range cities {
		if keyword.Any(text, c.aliases) {
			return City{Name: displayName(c.name), Country: c.country}, true
		}
	}
	return City{}, false
}

// Cities returns the lookup table in match order.
func Cities() []City {
	out := make([]City, 0, len(cities))
	for _, c := range cities {
		out = append(out, City{Name: displayName(c.name), Country: c.country})
	}
	return out
}

// displayName title-cases a table name. Casers are stateful, so one is made
// per call.
func displayName(name string) string {
	return cases.Title(language.English).String(name)
}
