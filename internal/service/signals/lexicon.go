package signals

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const DefaultAlertThreshold = 4

// LexiconEntry labels a group of patterns; a signal counts once per entry.
type LexiconEntry struct {
	Label    string
	Patterns []*regexp.Regexp
}

type Lexicon []LexiconEntry

func lexeme(label string, patterns ...string) LexiconEntry {
	e := LexiconEntry{Label: label}
	for _, p := range patterns {
		e.Patterns = append(e.Patterns, regexp.MustCompile(p))
	}
	return e
}

var NeedLexicon = Lexicon{
	lexeme("sensitive/soothing", `\bsensitive\b`, `\bsooth(ing|e)?\b`, `\bcalm(ing)?\b`, `\birritat(ed|ion)\b`),
	lexeme("no-white-cast", `white cast`, `\bno[- ]?cast\b`, `\binvisible\b`, `\btransparent\b`),
	lexeme("lightweight", `\blightweight\b`, `\bnon[- ]?greasy\b`, `\bfast[- ]?absor(b|ption)\b`),
	lexeme("hydrating", `\bhydrat(ing|ion)\b`, `\bmoisturi[sz](e|ing)\b`, `\bdewy\b`),
}

var RiskLexicon = Lexicon{
	lexeme("white-cast", `white[- ]?cast`, `\bashy\b`, `\bchalky\b`),
	lexeme("greasy/sticky", `\bgreasy\b`, `\bsticky\b`, `\boily\b`),
	lexeme("irritation", `\b(break(s|ing)?|broke) (me )?out\b`, `\bbreakouts?\b`, `\brash\b`, `\bstings?\b`, `\bstinging\b`, `\bburn(s|ing)?\b`),
	lexeme("pilling", `\bpill(s|ing)\b`),
	lexeme("eye-sting", `\beyes? (sting|burn|water)`, `\bteary\b`),
}

type LexiconCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountLexicon counts, per entry, the signals whose title or text matches any pattern.
// Zero counts are dropped; the result is ordered by count, then lexicon order.
func CountLexicon(signals []Signal, lex Lexicon) []LexiconCount {
	counts := make([]LexiconCount, len(lex))
	for i, e := range lex {
		counts[i].Label = e.Label
	}

	for _, s := range signals {
		txt := strings.ToLower(s.Title + " " + s.Text)
		for i, e := range lex {
			for _, p := range e.Patterns {
				if p.MatchString(txt) {
					counts[i].Count++
					break
				}
			}
		}
	}

	out := counts[:0]
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

type Evidence struct {
	Source   string `json:"source"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
}

type Insight struct {
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Top      []LexiconCount `json:"top"`
	Evidence []Evidence     `json:"evidence"`
}

type Pulse struct {
	SignalsCount int        `json:"signals_count"`
	Evidence     []Evidence `json:"evidence"`
	Insights     []Insight  `json:"insights"`
}

func BuildPulse(signals []Signal) Pulse {
	needs := top(CountLexicon(signals, NeedLexicon), 5)
	risks := top(CountLexicon(signals, RiskLexicon), 5)

	evidence := make([]Evidence, 0, evidenceLimit)
	for i, s := range signals {
		if i >= evidenceLimit {
			break
		}
		evidence = append(evidence, Evidence{
			Source:   s.Source,
			Platform: s.Platform,
			Title:    s.Title,
			URL:      s.URL,
			Snippet:  truncate(s.Text, snippetRunes),
		})
	}
	sample := evidence
	if len(sample) > 4 {
		sample = sample[:4]
	}

	var insights []Insight
	if len(needs) > 0 {
		insights = append(insights, Insight{
			Title:    "글로벌 고객이 기대하는 포인트(니즈) 상위",
			Summary:  "SNS/리테일 신호에서 반복 등장한 니즈 키워드 기준 상위 항목.",
			Top:      needs,
			Evidence: sample,
		})
	}
	if len(risks) > 0 {
		insights = append(insights, Insight{
			Title:    "리뷰/FAQ 리스크 상위",
			Summary:  "불만/리스크 키워드 언급량 기준 상위 항목.",
			Top:      risks,
			Evidence: sample,
		})
	}
	if len(insights) == 0 {
		insights = append(insights, Insight{
			Title:    "신호 부족",
			Summary:  "현재 쿼리에서 유의미한 신호가 충분히 수집되지 않았어. (키워드 구체화 권장)",
			Top:      []LexiconCount{},
			Evidence: sample,
		})
	}

	return Pulse{
		SignalsCount: len(signals),
		Evidence:     evidence,
		Insights:     insights,
	}
}

type Alert struct {
	Type    string `json:"type"`
	Risk    string `json:"risk"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type AlertReport struct {
	SignalsCount int     `json:"signals_count"`
	Alerts       []Alert `json:"alerts"`
}

// BuildAlerts raises one alert per risk mentioned at least threshold times.
// A non-positive threshold falls back to DefaultAlertThreshold.
func BuildAlerts(signals []Signal, threshold int) AlertReport {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}

	alerts := []Alert{}
	for _, c := range CountLexicon(signals, RiskLexicon) {
		if c.Count < threshold {
			continue
		}
		alerts = append(alerts, Alert{
			Type:    "review_risk",
			Risk:    c.Label,
			Count:   c.Count,
			Message: fmt.Sprintf("리스크 '%s' 언급이 %d건 관찰됨. FAQ/제형 보완 포인트 점검 필요.", c.Label, c.Count),
		})
	}
	return AlertReport{SignalsCount: len(signals), Alerts: alerts}
}

func top(c []LexiconCount, n int) []LexiconCount {
	if len(c) > n {
		return c[:n]
	}
	return c
}
