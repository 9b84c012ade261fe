package validation

import (
	"testing"

	"detran-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalID(t *testing.T) {
	v := NewValidator()

	id, err := v.ParseOptionalID("topic_id", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = v.ParseOptionalID("topic_id", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), *id)

	_, err = v.ParseOptionalID("topic_id", "abc")
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
}

func TestParseID_Missing(t *testing.T) {
	_, err := NewValidator().ParseID("topicId", "")
	assert.True(t, domain.HasCode(err, domain.CodeMissingInput))
}

func TestQuestionQuery(t *testing.T) {
	v := NewValidator()

	q, err := v.QuestionQuery(" aluno ", "1", "101")
	require.NoError(t, err)
	assert.Equal(t, "aluno", q.UserID)
	assert.Equal(t, int64(1), *q.TopicID)
	assert.Equal(t, int64(101), *q.SubtopicID)

	_, err = v.QuestionQuery("aluno", "", "1.5")
	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidInput, de.Code)
	assert.Contains(t, de.Message, "subtopic_id")
}
