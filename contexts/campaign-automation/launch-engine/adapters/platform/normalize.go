package platformadapter

import (
	"regexp"
	"strings"
)

const (
	ObjectiveTraffic    = "OUTCOME_TRAFFIC"
	ObjectiveSales      = "OUTCOME_SALES"
	ObjectiveLeads      = "OUTCOME_LEADS"
	ObjectiveAwareness  = "OUTCOME_AWARENESS"
	ObjectiveEngagement = "OUTCOME_ENGAGEMENT"

	DefaultCTA          = "LEARN_MORE"
	DefaultBillingEvent = "IMPRESSIONS"
)

// MapObjective never fails: unknown objectives run as traffic campaigns.
// Sales objectives need a pixel, otherwise they also fall back to traffic.
func MapObjective(objective string, hasPixel bool) string {
	switch strings.ToLower(strings.TrimSpace(objective)) {
	case "traffic":
		return ObjectiveTraffic
	case "conversions", "sales":
		if hasPixel {
			return ObjectiveSales
		}
		return ObjectiveTraffic
	case "leads", "lead_generation":
		return ObjectiveLeads
	case "awareness", "brand_awareness", "reach":
		return ObjectiveAwareness
	case "engagement", "video_views":
		return ObjectiveEngagement
	default:
		return ObjectiveTraffic
	}
}

// MapOptimizationGoal picks the ad set optimization goal from the parent
// campaign's objective. Billing is always per impression.
func MapOptimizationGoal(campaignObjective string) (goal string, billingEvent string) {
	switch strings.ToUpper(strings.TrimSpace(campaignObjective)) {
	case "REACH", "AWARENESS", ObjectiveAwareness:
		return "REACH", DefaultBillingEvent
	case "TRAFFIC", ObjectiveTraffic:
		return "LINK_CLICKS", DefaultBillingEvent
	case "LEADS", "LEAD_GENERATION", ObjectiveLeads:
		return "LEAD_GENERATION", DefaultBillingEvent
	case "ENGAGEMENT", ObjectiveEngagement:
		return "POST_ENGAGEMENT", DefaultBillingEvent
	default:
		return "LINK_CLICKS", DefaultBillingEvent
	}
}

var countryCodes = map[string]string{
	"united states": "US", "united states of america": "US", "usa": "US", "us": "US",
	"united kingdom": "GB", "uk": "GB", "great britain": "GB", "england": "GB",
	"canada": "CA", "australia": "AU", "new zealand": "NZ",
	"germany": "DE", "france": "FR", "spain": "ES", "italy": "IT",
	"netherlands": "NL", "sweden": "SE", "norway": "NO", "denmark": "DK",
	"ireland": "IE", "switzerland": "CH", "austria": "AT", "belgium": "BE",
	"portugal": "PT", "finland": "FI", "poland": "PL",
	"brazil": "BR", "mexico": "MX", "argentina": "AR", "colombia": "CO",
	"japan": "JP", "south korea": "KR", "korea": "KR", "china": "CN",
	"india": "IN", "singapore": "SG", "hong kong": "HK",
	"south africa": "ZA", "nigeria": "NG", "kenya": "KE",
	"uae": "AE", "united arab emirates": "AE", "saudi arabia": "SA",
}

// NormalizeCountryCodes maps country names to ISO alpha-2 codes. Unknown
// names keep their first two letters, uppercased, when both are A-Z; other
// entries are dropped.
func NormalizeCountryCodes(locations []string) []string {
	codes := make([]string, 0, len(locations))
	for _, location := range locations {
		trimmed := strings.TrimSpace(location)
		if code, ok := countryCodes[strings.ToLower(trimmed)]; ok {
			codes = append(codes, code)
			continue
		}
		prefix := []rune(strings.ToUpper(trimmed))
		if len(prefix) > 2 {
			prefix = prefix[:2]
		}
		if len(prefix) != 2 || !isASCIIUpper(prefix[0]) || !isASCIIUpper(prefix[1]) {
			continue
		}
		codes = append(codes, string(prefix))
	}
	return codes
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

var ctaEnum = map[string]struct{}{
	"BOOK_TRAVEL": {}, "CONTACT_US": {}, "DONATE": {}, "DONATE_NOW": {}, "DOWNLOAD": {},
	"GET_DIRECTIONS": {}, "LEARN_MORE": {}, "SHOP_NOW": {}, "SIGN_UP": {}, "LIKE_PAGE": {},
	"MESSAGE_PAGE": {}, "SEE_MORE": {}, "WHATSAPP_LINK": {}, "GET_IN_TOUCH": {}, "BOOK_NOW": {},
	"CHECK_AVAILABILITY": {}, "ORDER_NOW": {}, "GET_OFFER": {}, "BUY_NOW": {}, "BUY_TICKETS": {},
	"ADD_TO_CART": {}, "APPLY_NOW": {}, "GET_QUOTE": {}, "SUBSCRIBE": {}, "CALL_NOW": {},
	"WATCH_VIDEO": {}, "OPEN_LINK": {}, "NO_BUTTON": {}, "SEND_TIP": {}, "MAKE_AN_APPOINTMENT": {},
	"ASK_ABOUT_SERVICES": {}, "BOOK_A_CONSULTATION": {}, "GET_A_QUOTE": {}, "INQUIRE_NOW": {},
	"VIEW_PRODUCT": {}, "START_ORDER": {}, "SEARCH": {}, "REGISTER_NOW": {}, "TRY_NOW": {}, "TRY_IT": {},
}

var ctaAliases = map[string]string{
	"GET_STARTED":       "LEARN_MORE",
	"START_NOW":         "SIGN_UP",
	"CONTACT_NOW":       "CONTACT_US",
	"REACH_OUT":         "CONTACT_US",
	"FIND_OUT_MORE":     "LEARN_MORE",
	"DISCOVER_MORE":     "LEARN_MORE",
	"EXPLORE_NOW":       "LEARN_MORE",
	"GET_INFO":          "LEARN_MORE",
	"REQUEST_INFO":      "LEARN_MORE",
	"SCHEDULE_NOW":      "MAKE_AN_APPOINTMENT",
	"BOOK_CONSULTATION": "BOOK_A_CONSULTATION",
	"GET_ESTIMATE":      "GET_A_QUOTE",
	"REQUEST_QUOTE":     "GET_A_QUOTE",
	"BUY":               "BUY_NOW",
	"PURCHASE":          "BUY_NOW",
	"ORDER":             "ORDER_NOW",
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	ctaDisallowed = regexp.MustCompile(`[^A-Z0-9_]`)
)

// NormalizeCTA turns free text such as "Shop now!" into a call-to-action enum
// value, falling back to LEARN_MORE.
func NormalizeCTA(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = whitespaceRun.ReplaceAllString(key, "_")
	key = ctaDisallowed.ReplaceAllString(key, "")
	if _, ok := ctaEnum[key]; ok {
		return key
	}
	if alias, ok := ctaAliases[key]; ok {
		return alias
	}
	return DefaultCTA
}

// MapGenders returns nil for "all genders".
func MapGenders(genders []string) []int {
	var codes []int
	for _, gender := range genders {
		switch strings.ToLower(strings.TrimSpace(gender)) {
		case "male":
			codes = append(codes, 1)
		case "female":
			codes = append(codes, 2)
		}
	}
	return codes
}
