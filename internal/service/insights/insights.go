// Package insights aggregates the conversation log into trend pulses and rule-based alerts.
package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
)

const (
	examplesPerValue = 3
	insightValues    = 3
	maxAlerts        = 10
)

type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Example struct {
	CreatedAt time.Time  `json:"ts"`
	Message   string     `json:"message"`
	Slots     core.Slots `json:"slots"`
}

type Evidence struct {
	Value    string    `json:"value"`
	Count    int       `json:"count"`
	Examples []Example `json:"examples"`
}

type Insight struct {
	Title    string     `json:"title"`
	Summary  string     `json:"summary"`
	Evidence []Evidence `json:"evidence"`
}

type Signals struct {
	TopCountry  []Count `json:"top_country"`
	TopCategory []Count `json:"top_category"`
	TopNeed     []Count `json:"top_need"`
	TopPrice    []Count `json:"top_price"`
	TopChannel  []Count `json:"top_channel"`
}

type Pulse struct {
	LogsCount int       `json:"logs_count"`
	Signals   Signals   `json:"signals"`
	Insights  []Insight `json:"insights"`
}

// BuildPulse counts slot values over entries that carry a slot snapshot.
// Ties keep the order in which values were first seen.
func BuildPulse(entries []core.LogEntry) Pulse {
	var withSlots []core.LogEntry
	for _, e := range entries {
		if len(e.Slots) > 0 {
			withSlots = append(withSlots, e)
		}
	}

	sig := Signals{
		TopCountry:  topValues(withSlots, core.SlotCountry, 3),
		TopCategory: topValues(withSlots, core.SlotCategory, 3),
		TopNeed:     topValues(withSlots, core.SlotNeed, 5),
		TopPrice:    topValues(withSlots, core.SlotPrice, 3),
		TopChannel:  topValues(withSlots, core.SlotChannel, 5),
	}

	return Pulse{
		LogsCount: len(entries),
		Signals:   sig,
		Insights: []Insight{
			{
				Title:    "글로벌 고객이 기대하는 포인트(니즈) 상위",
				Summary:  "최근 입력 데이터(brief/launch) 기준으로 니즈 키워드가 반복 출현.",
				Evidence: evidenceFor(withSlots, core.SlotNeed, sig.TopNeed),
			},
			{
				Title:    "채널 믹스 상위",
				Summary:  "구매 여정이 리테일(리뷰) + SNS(바이럴) 결합이므로 채널이 의사결정의 중심.",
				Evidence: evidenceFor(withSlots, core.SlotChannel, sig.TopChannel),
			},
		},
	}
}

func topValues(entries []core.LogEntry, slot core.Slot, n int) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, e := range entries {
		v := e.Slots[slot]
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, Count{Value: v})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func evidenceFor(entries []core.LogEntry, slot core.Slot, top []Count) []Evidence {
	if len(top) > insightValues {
		top = top[:insightValues]
	}
	out := make([]Evidence, 0, len(top))
	for _, c := range top {
		ev := Evidence{Value: c.Value, Count: c.Count}
		for _, e := range entries {
			if e.Slots[slot] != c.Value {
				continue
			}
			ev.Examples = append(ev.Examples, exampleOf(e))
			if len(ev.Examples) >= examplesPerValue {
				break
			}
		}
		out = append(out, ev)
	}
	return out
}

func exampleOf(e core.LogEntry) Example {
	return Example{CreatedAt: e.CreatedAt, Message: e.Message, Slots: e.Slots}
}

type Alert struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Why      string   `json:"why"`
	Evidence Example  `json:"evidence"`
	Action   []string `json:"action"`
}

type AlertReport struct {
	Count  int     `json:"alerts_count"`
	Alerts []Alert `json:"alerts"`
}

type alertRule struct {
	kind     string
	title    string
	why      string
	action   []string
	keywords []string
}

var alertRules = []alertRule{
	{
		kind:     "review_risk",
		title:    "백탁(white cast) 관련 불만 위험",
		why:      "선케어에서 가장 빠르게 악평이 쌓이는 전형적 포인트.",
		action:   []string{"텍스처/흡수/톤업 여부 명확히 표기", "전/후 사진 가이드", "피부톤별 테스트 문구"},
		keywords: []string{"백탁", "white cast"},
	},
	{
		kind:     "claims_risk",
		title:    "민감피부 타겟 → 성분/자극 관련 검증 요구 증가",
		why:      "‘진정/저자극’ 클레임은 근거(테스트/성분) 요구가 강함.",
		action:   []string{"민감피부 패널 테스트/인체적용시험", "향료/알러젠 표시", "전성분 FAQ 준비"},
		keywords: []string{"민감", "sensitive"},
	},
}

// BuildAlerts applies the need-based rules to every entry. One alert per title
// survives: it keeps the position of the first match and the evidence of the last.
func BuildAlerts(entries []core.LogEntry) AlertReport {
	index := make(map[string]int)
	var alerts []Alert
	for _, e := range entries {
		need := strings.ToLower(e.Slots[core.SlotNeed])
		for _, r := range alertRules {
			if !containsAny(need, r.keywords) {
				continue
			}
			a := Alert{
				Type:     r.kind,
				Title:    r.title,
				Why:      r.why,
				Evidence: exampleOf(e),
				Action:   r.action,
			}
			if i, ok := index[a.Title]; ok {
				alerts[i] = a
				continue
			}
			index[a.Title] = len(alerts)
			alerts = append(alerts, a)
		}
	}

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return AlertReport{Count: len(index), Alerts: alerts}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
