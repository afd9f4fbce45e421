package location

import (
	"fmt"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/common"
)

// ComposeDisplayName builds the human-readable name for a place. A non-blank
// override always wins. Otherwise the locality is qualified by its region, or by
// its country when that differs from homeCountry. The result is never empty.
func ComposeDisplayName(override string, place Place, homeCountry string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}

	locality := common.FirstNonEmpty(strings.TrimSpace(place.Locality), UnknownLocation)
	region := strings.TrimSpace(place.Region)
	country := strings.TrimSpace(place.Country)

	switch {
	case region != "":
		return locality + ", " + region
	case country != "" && !strings.EqualFold(country, homeCountry):
		return locality + ", " + country
	default:
		return locality
	}
}

// AnnotateOutside appends the out-of-service-area note to a display name.
func AnnotateOutside(name, jurisdiction string) string {
	return fmt.Sprintf("%s (Note: This location appears to be outside %s)", name, jurisdiction)
}
