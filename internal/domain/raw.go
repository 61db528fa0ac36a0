package domain

import "fmt"

// Field names shared by every record source.
const (
	FieldRetriever         = "retriever"
	FieldUserInput         = "user_input"
	FieldRetrievedContexts = "retrieved_contexts"
	FieldReferenceContexts = "reference_contexts"
	FieldResponse          = "response"
	FieldReference         = "reference"
	FieldSynthesizerName   = "synthesizer_name"
	FieldFaithfulness      = "faithfulness"
	FieldAnswerRelevancy   = "answer_relevancy"
	FieldContextPrecision  = "context_precision"
	FieldContextRecall     = "context_recall"
)

// RawRow is one evaluation row exactly as a source delivered it.
// A nil field was absent in the source. Context fields hold either an
// encoded list string or an already structured list; metric fields hold a
// number or a numeric string. Defaults are applied by the assembler only.
type RawRow struct {
	Retriever       *string
	UserInput       *string
	Response        *string
	Reference       *string
	SynthesizerName *string

	RetrievedContexts any
	ReferenceContexts any

	Faithfulness     any
	AnswerRelevancy  any
	ContextPrecision any
	ContextRecall    any
}

// RawRowFromMap maps a decoded JSON object (dataset API row, search hit source).
func RawRowFromMap(m map[string]any) RawRow {
	return RawRow{
		Retriever:         stringField(m[FieldRetriever]),
		UserInput:         stringField(m[FieldUserInput]),
		Response:          stringField(m[FieldResponse]),
		Reference:         stringField(m[FieldReference]),
		SynthesizerName:   stringField(m[FieldSynthesizerName]),
		RetrievedContexts: m[FieldRetrievedContexts],
		ReferenceContexts: m[FieldReferenceContexts],
		Faithfulness:      m[FieldFaithfulness],
		AnswerRelevancy:   m[FieldAnswerRelevancy],
		ContextPrecision:  m[FieldContextPrecision],
		ContextRecall:     m[FieldContextRecall],
	}
}

// RawRowFromStrings maps a header-keyed delimited row. Columns missing from
// the header stay absent; present but empty cells are kept as empty strings.
func RawRowFromStrings(m map[string]string) RawRow {
	get := func(key string) *string {
		v, ok := m[key]
		if !ok {
			return nil
		}
		return &v
	}
	anyOf := func(key string) any {
		if v, ok := m[key]; ok {
			return v
		}
		return nil
	}

	return RawRow{
		Retriever:         get(FieldRetriever),
		UserInput:         get(FieldUserInput),
		Response:          get(FieldResponse),
		Reference:         get(FieldReference),
		SynthesizerName:   get(FieldSynthesizerName),
		RetrievedContexts: anyOf(FieldRetrievedContexts),
		ReferenceContexts: anyOf(FieldReferenceContexts),
		Faithfulness:      anyOf(FieldFaithfulness),
		AnswerRelevancy:   anyOf(FieldAnswerRelevancy),
		ContextPrecision:  anyOf(FieldContextPrecision),
		ContextRecall:     anyOf(FieldContextRecall),
	}
}

// ToMap is the inverse of RawRowFromMap, used when rows are re-indexed.
func (r RawRow) ToMap() map[string]any {
	m := make(map[string]any, 11)
	put := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	put(FieldRetriever, r.Retriever)
	put(FieldUserInput, r.UserInput)
	put(FieldResponse, r.Response)
	put(FieldReference, r.Reference)
	put(FieldSynthesizerName, r.SynthesizerName)

	for key, v := range map[string]any{
		FieldRetrievedContexts: r.RetrievedContexts,
		FieldReferenceContexts: r.ReferenceContexts,
		FieldFaithfulness:      r.Faithfulness,
		FieldAnswerRelevancy:   r.AnswerRelevancy,
		FieldContextPrecision:  r.ContextPrecision,
		FieldContextRecall:     r.ContextRecall,
	} {
		if v != nil {
			m[key] = v
		}
	}
	return m
}

func stringField(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	default:
		s := fmt.Sprint(t)
		return &s
	}
}

func StringPtr(s string) *string {
	return &s
}

// OptionalFloat converts a nullable column into a RawRow metric value
// without leaking a typed nil into the interface.
func OptionalFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
