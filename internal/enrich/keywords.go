package enrich

import "strings"

// wildlifeKeywords gates the enrichment lookups: image and paper search
// only run for queries inside the wildlife/conservation domain.
var wildlifeKeywords = []string{
	"wildlife", "biodiversity", "conservation", "bird", "climate", "change",
	"endangered", "animals", "trees", "rain", "flora", "fauna", "ecosystem",
	"habitat", "nature", "forest", "jungle", "savanna", "marine", "ocean",
	"reptile", "mammal", "amphibian", "earth", "india", "globe", "species",
	"extinct", "environment", "protection", "sustainability", "ecology",
	"pollution", "deforestation", "global", "warming", "temperature",
	"development", "laws", "research", "studies", "analysis", "trends",
	"challenges", "prospects", "solutions", "ngo", "government", "policy",
	"institutions", "carbon", "footprint", "impact", "human", "population",
	"hunting", "poaching", "fishing", "agriculture", "urbanization", "waste",
	"plastic", "recycling", "renewable", "energy", "services", "air", "soil",
	"preservation", "restoration", "migration",
}

// Relevant reports whether the query touches the wildlife domain.
// A keyword matches as a substring; plural keywords also match their
// singular form.
func Relevant(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range wildlifeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
		if strings.HasSuffix(kw, "s") && strings.Contains(lower, kw[:len(kw)-1]) {
			return true
		}
	}
	return false
}
