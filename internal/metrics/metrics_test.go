package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestImportedQuestionsCounter(t *testing.T) {
	before := testutil.ToFloat64(ImportedQuestions.WithLabelValues(OutcomeDuplicate))
	ImportedQuestions.WithLabelValues(OutcomeDuplicate).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ImportedQuestions.WithLabelValues(OutcomeDuplicate)))
}
