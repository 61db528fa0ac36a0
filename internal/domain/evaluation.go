package domain

import "encoding/json"

// FailThreshold is the minimum score each metric must reach for a query to pass.
const FailThreshold = 0.85

// Metrics holds the four RAGAS scores of one evaluated query, or their means.
type Metrics struct {
	Faithfulness     float64 `json:"faithfulness"`
	AnswerRelevancy  float64 `json:"answer_relevancy"`
	ContextPrecision float64 `json:"context_precision"`
	ContextRecall    float64 `json:"context_recall"`
}

// Average is derived on read and never stored.
func (m Metrics) Average() float64 {
	return (m.Faithfulness + m.AnswerRelevancy + m.ContextPrecision + m.ContextRecall) / 4
}

// Fails reports whether any single metric is strictly below threshold.
func (m Metrics) Fails(threshold float64) bool {
	return m.Faithfulness < threshold ||
		m.AnswerRelevancy < threshold ||
		m.ContextPrecision < threshold ||
		m.ContextRecall < threshold
}

type EvaluationRecord struct {
	Question          string
	Retriever         RetrieverID
	RetrievedContexts []string
	ReferenceContexts []string
	Response          string
	Reference         string
	SynthesizerName   string
	Metrics           Metrics
}

type recordMetricsJSON struct {
	Metrics
	Average float64 `json:"average"`
}

type evaluationRecordJSON struct {
	Question          string            `json:"question"`
	Retriever         RetrieverID       `json:"retriever"`
	Metrics           recordMetricsJSON `json:"metrics"`
	RetrievedContexts []string          `json:"retrievedContexts"`
	Response          string            `json:"response"`
	Reference         string            `json:"reference"`
	ReferenceContexts []string          `json:"referenceContexts"`
	SynthesizerName   string            `json:"synthesizerName,omitempty"`
}

func (r EvaluationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(evaluationRecordJSON{
		Question:          r.Question,
		Retriever:         r.Retriever,
		Metrics:           recordMetricsJSON{Metrics: r.Metrics, Average: r.Metrics.Average()},
		RetrievedContexts: nonNil(r.RetrievedContexts),
		Response:          r.Response,
		Reference:         r.Reference,
		ReferenceContexts: nonNil(r.ReferenceContexts),
		SynthesizerName:   r.SynthesizerName,
	})
}

type RetrieverSummary struct {
	Retriever        RetrieverID `json:"retriever"`
	Faithfulness     float64     `json:"faithfulness"`
	AnswerRelevancy  float64     `json:"answer_relevancy"`
	ContextPrecision float64     `json:"context_precision"`
	ContextRecall    float64     `json:"context_recall"`
	Average          float64     `json:"average"`
}

type EvaluationSummary struct {
	TotalQueries   int     `json:"totalQueries"`
	AverageMetrics Metrics `json:"averageMetrics"`
	FailingQueries int     `json:"failingQueries"`
}

type DetailedResult struct {
	Retriever RetrieverID        `json:"retriever"`
	Summary   EvaluationSummary  `json:"summary"`
	Results   []EvaluationRecord `json:"results"`
}

type MetricsOverview struct {
	Metrics  []RetrieverSummary `json:"metrics"`
	Manifest any                `json:"manifest"`
	Best     *RetrieverSummary  `json:"best,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
