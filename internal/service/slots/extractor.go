package slots

import (
	"regexp"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

const (
	channelSeparator = " + "
	needSeparator    = " / "
)

var (
	priceBandRe  = regexp.MustCompile(`(\d+)\s*~\s*(\d+)\s*만원대`)
	priceBoundRe = regexp.MustCompile(`(\d+)\s*만원대`)
	targetRe     = regexp.MustCompile(`(\d+)\s*~\s*(\d+)\s*대\s*(여성|남성)?`)
	redWordRe    = regexp.MustCompile(`\bred\b`)
)

// matcher inspects the trimmed text and its lower-cased copy.
type matcher func(text, lower string) bool

type rule struct {
	value string
	match matcher
}

// containsAny matches keywords against the lower-cased text; Hangul is unaffected by lowering.
func containsAny(keywords ...string) matcher {
	return func(_, lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

func either(ms ...matcher) matcher {
	return func(text, lower string) bool {
		for _, m := range ms {
			if m(text, lower) {
				return true
			}
		}
		return false
	}
}

var countryRules = []rule{
	{"미국", containsAny("미국", "usa", "u.s", "united states")},
	{"일본", containsAny("일본", "japan")},
	{"중국", containsAny("중국", "샤오홍수", "china")},
	{"유럽", containsAny("유럽", "europe")},
	{"동남아", containsAny("동남아", "southeast asia")},
}

var categoryRules = []rule{
	{"선크림", containsAny("선크림", "sunscreen")},
	{"선스틱", containsAny("선스틱", "sun stick")},
	{"수딩젤", func(text, _ string) bool {
		return strings.Contains(text, "수딩") && (strings.Contains(text, "젤") || strings.Contains(text, "겔"))
	}},
	{"선케어", containsAny("선케어", "sun care")},
}

var channelRules = []rule{
	{"아마존", containsAny("아마존", "amazon")},
	{"올리브영", containsAny("올리브영", "olive young", "올영")},
	{"큐텐", containsAny("qoo10", "큐텐")},
	{"TikTok", containsAny("틱톡", "tiktok")},
	{"Instagram", containsAny("인스타", "instagram")},
	{"RED", either(containsAny("샤오홍수", "xiaohongshu"), func(_, lower string) bool {
		return redWordRe.MatchString(lower)
	})},
}

var needRules = []rule{
	{"민감피부", containsAny("민감")},
	{"진정", containsAny("진정")},
	{"백탁 적음", containsAny("백탁")},
	{"보습", containsAny("보습")},
	{"유분", containsAny("유분")},
	{"트러블", containsAny("트러블")},
	{"톤업", containsAny("톤업")},
	{"끈적", containsAny("끈적")},
	{"가벼움", containsAny("가벼움")},
}

// Extract maps free text to the slots it can recognize with certainty.
// Unrecognized categories are omitted; no value is ever empty.
func Extract(text string) core.Slots {
	t := strings.TrimSpace(text)
	tl := strings.ToLower(t)
	out := make(core.Slots)

	if v, ok := firstMatch(countryRules, t, tl); ok {
		out[core.SlotCountry] = v
	}
	if v, ok := firstMatch(categoryRules, t, tl); ok {
		out[core.SlotCategory] = v
	}
	if v, ok := extractPrice(t); ok {
		out[core.SlotPrice] = v
	}
	if v, ok := extractChannels(t, tl); ok {
		out[core.SlotChannel] = v
	}
	if v, ok := extractTarget(t); ok {
		out[core.SlotTarget] = v
	}
	if v, ok := joinMatches(needRules, t, tl, needSeparator); ok {
		out[core.SlotNeed] = v
	}
	return out
}

func firstMatch(rules []rule, text, lower string) (string, bool) {
	for _, r := range rules {
		if r.match(text, lower) {
			return r.value, true
		}
	}
	return "", false
}

func joinMatches(rules []rule, text, lower, sep string) (string, bool) {
	var values []string
	for _, r := range rules {
		if r.match(text, lower) {
			values = append(values, r.value)
		}
	}
	return joinUnique(values, sep)
}

// joinUnique joins values in first-seen order, dropping repeats.
func joinUnique(values []string, sep string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	if len(uniq) == 0 {
		return "", false
	}
	return strings.Join(uniq, sep), true
}

func extractPrice(text string) (string, bool) {
	if m := priceBandRe.FindStringSubmatch(text); m != nil {
		return m[1] + "~" + m[2] + "만원대", true
	}
	if m := priceBoundRe.FindStringSubmatch(text); m != nil {
		return m[1] + "만원대", true
	}
	return "", false
}

func extractChannels(text, lower string) (string, bool) {
	var values []string
	for _, r := range channelRules {
		if !r.match(text, lower) {
			continue
		}
		v := r.value
		if v == "올리브영" && (strings.Contains(text, "글로벌") || strings.Contains(lower, "global")) {
			v = "올리브영글로벌"
		}
		values = append(values, v)
	}
	return joinUnique(values, channelSeparator)
}

func extractTarget(text string) (string, bool) {
	if m := targetRe.FindStringSubmatch(text); m != nil {
		return withGender(m[1]+"~"+m[2]+"대", m[3]), true
	}
	if strings.Contains(text, "20대") && strings.Contains(text, "30대") {
		gender := ""
		switch {
		case strings.Contains(text, "여성"):
			gender = "여성"
		case strings.Contains(text, "남성"):
			gender = "남성"
		}
		return withGender("20~30대", gender), true
	}
	return "", false
}

func withGender(age, gender string) string {
	if gender == "" {
		return age
	}
	return age + " " + gender
}
