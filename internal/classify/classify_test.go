package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subtopic(id int64) *int64 { return &id }

func TestClassify_DefaultTable(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		text string
		want Result
	}{
		{
			name: "subtopic keyword",
			text: "Qual a velocidade máxima permitida em vias urbanas?",
			want: Result{TopicID: 1, SubtopicID: subtopic(104)},
		},
		{
			name: "first rule wins over a later, more specific one",
			text: "Dirigir sob chuva sem reduzir gera multa?",
			want: Result{TopicID: 1, SubtopicID: subtopic(102)},
		},
		{
			name: "uppercase text is lowercased first",
			text: "O ETILÔMETRO mede a concentração",
			want: Result{TopicID: 2, SubtopicID: subtopic(202)},
		},
		{
			name: "topic fallback",
			text: "O condutor defensivo deve manter atenção constante",
			want: Result{TopicID: 2},
		},
		{
			name: "fallback order",
			text: "Em caso de emergência, o que fazer primeiro?",
			want: Result{TopicID: 3},
		},
		{
			name: "default topic",
			text: "Texto qualquer sem palavras conhecidas",
			want: Result{TopicID: 1},
		},
		{
			name: "empty text",
			text: "",
			want: Result{TopicID: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := Default()
	text := "Ao avistar a placa de parada obrigatória, o condutor deve"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
}

func TestDefault_Catalog(t *testing.T) {
	c := Default()

	topics := c.Topics()
	require.Len(t, topics, 5)
	assert.Equal(t, "Legislação de Trânsito", topics[0].Name)
	assert.Equal(t, "Mecânica Básica", topics[4].Name)

	subs := c.Subtopics()
	require.NotEmpty(t, subs)
	assert.Equal(t, int64(101), subs[0].ID)
	for _, s := range subs {
		assert.NotEmpty(t, s.Keywords, "subtopic %d has no keywords", s.ID)
	}
}

func TestLoad_KeywordsAreLowercased(t *testing.T) {
	c, err := Load([]byte(`
topics:
  - {id: 1, name: A}
  - {id: 2, name: B}
subtopics:
  - {id: 10, topic_id: 2, name: S, keywords: [NEBLINA]}
`))
	require.NoError(t, err)
	assert.Equal(t, Result{TopicID: 2, SubtopicID: subtopic(10)}, c.Classify("Sob neblina"))
	assert.Equal(t, Result{TopicID: 1}, c.Classify("nada"))
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]byte("subtopics: [not: valid"))
	assert.Error(t, err)

	_, err = Load([]byte(`
topics: [{id: 1, name: A}]
subtopics:
  - {id: 10, topic_id: 7, name: S, keywords: [x]}
`))
	assert.Error(t, err)

	_, err = Load([]byte(`
topics: [{id: 1, name: A}]
subtopics:
  - {id: 10, topic_id: 1, name: S, keywords: [x]}
  - {id: 10, topic_id: 1, name: T, keywords: [y]}
`))
	assert.Error(t, err)
}
