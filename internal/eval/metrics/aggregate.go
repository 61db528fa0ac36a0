// Package metrics aggregates per-query RAGAS scores into retriever summaries.
package metrics

import "github.com/DjordjeVuckovic/rag-insight/internal/domain"

// Mean returns 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Series holds the four metric columns of one retriever group.
type Series struct {
	Faithfulness     []float64
	AnswerRelevancy  []float64
	ContextPrecision []float64
	ContextRecall    []float64
}

func (s *Series) add(m domain.Metrics) {
	s.Faithfulness = append(s.Faithfulness, m.Faithfulness)
	s.AnswerRelevancy = append(s.AnswerRelevancy, m.AnswerRelevancy)
	s.ContextPrecision = append(s.ContextPrecision, m.ContextPrecision)
	s.ContextRecall = append(s.ContextRecall, m.ContextRecall)
}

func (s *Series) Len() int {
	return len(s.Faithfulness)
}

func (s *Series) Means() domain.Metrics {
	return domain.Metrics{
		Faithfulness:     Mean(s.Faithfulness),
		AnswerRelevancy:  Mean(s.AnswerRelevancy),
		ContextPrecision: Mean(s.ContextPrecision),
		ContextRecall:    Mean(s.ContextRecall),
	}
}

// Groups maps normalized retriever ids to their series, remembering the
// order in which each id was first seen.
type Groups struct {
	order  []domain.RetrieverID
	series map[domain.RetrieverID]*Series
}

func newGroups() *Groups {
	return &Groups{series: make(map[domain.RetrieverID]*Series)}
}

func (g *Groups) Keys() []domain.RetrieverID {
	out := make([]domain.RetrieverID, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Groups) Get(id domain.RetrieverID) (*Series, bool) {
	s, ok := g.series[id]
	return s, ok
}

func (g *Groups) Len() int {
	return len(g.order)
}

// GroupByRetriever buckets records by normalized retriever label. Labels that
// normalize identically, such as "BM25" and "bm25", share a group.
func GroupByRetriever(records []domain.EvaluationRecord) *Groups {
	groups := newGroups()
	for _, r := range records {
		id := domain.RetrieverID(domain.NormalizeRetrieverName(string(r.Retriever)))
		s, ok := groups.series[id]
		if !ok {
			s = &Series{}
			groups.series[id] = s
			groups.order = append(groups.order, id)
		}
		s.add(r.Metrics)
	}
	return groups
}

// Summaries returns one summary per group in first-seen order. Average is the
// mean of the four metric means.
func Summaries(groups *Groups) []domain.RetrieverSummary {
	out := make([]domain.RetrieverSummary, 0, groups.Len())
	for _, id := range groups.order {
		means := groups.series[id].Means()
		out = append(out, domain.RetrieverSummary{
			Retriever:        id,
			Faithfulness:     means.Faithfulness,
			AnswerRelevancy:  means.AnswerRelevancy,
			ContextPrecision: means.ContextPrecision,
			ContextRecall:    means.ContextRecall,
			Average:          means.Average(),
		})
	}
	return out
}

// Summarize computes the detailed-view summary. A record fails when any of
// its metrics is strictly below domain.FailThreshold.
func Summarize(records []domain.EvaluationRecord) domain.EvaluationSummary {
	var s Series
	failing := 0
	for _, r := range records {
		s.add(r.Metrics)
		if r.Metrics.Fails(domain.FailThreshold) {
			failing++
		}
	}

	return domain.EvaluationSummary{
		TotalQueries:   len(records),
		AverageMetrics: s.Means(),
		FailingQueries: failing,
	}
}

// BestPerformer picks the highest average. Ties keep the earliest entry.
func BestPerformer(summaries []domain.RetrieverSummary) (domain.RetrieverSummary, bool) {
	if len(summaries) == 0 {
		return domain.RetrieverSummary{}, false
	}
	best := summaries[0]
	for _, s := range summaries[1:] {
		if s.Average > best.Average {
			best = s
		}
	}
	return best, true
}
