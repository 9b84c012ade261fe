package extract

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	lines := []string{
		"Cabeçalho ignorado",
		"a) opção sem pergunta ativa",
		"1) Qual a cor",
		"do semáforo?",
		"a) verde",
		"b) amarelo *",
		"c) vermelho (X)",
		"linha ignorada depois das opções",
		"2— Segunda pergunta",
		"A. sim",
		"B- não",
	}

	drafts := ParseLines(lines)

	require.Len(t, drafts, 2)
	assert.Equal(t, "1", drafts[0].Number)
	assert.Equal(t, "Qual a cor do semáforo?", drafts[0].Text)
	assert.Equal(t, []string{"verde", "amarelo *", "vermelho (X)"}, drafts[0].Options)
	assert.Equal(t, 2, drafts[0].CorrectIndex, "last marker wins")

	assert.Equal(t, "Segunda pergunta", drafts[1].Text)
	assert.Equal(t, []string{"sim", "não"}, drafts[1].Options)
	assert.Equal(t, 0, drafts[1].CorrectIndex)
}

func TestParseLines_Cases(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantText    string
		wantOptions []string
		wantCorrect int
	}{
		{
			name:        "asterisk on second option",
			input:       "1) Qual a velocidade máxima?\na) 40\nb) 60*\nc) 80\n",
			wantText:    "Qual a velocidade máxima?",
			wantOptions: []string{"40", "60*", "80"},
			wantCorrect: 1,
		},
		{
			name:        "no marker defaults to first option",
			input:       "7. Onde estacionar?\na) na calçada\nb) na vaga",
			wantText:    "Onde estacionar?",
			wantOptions: []string{"na calçada", "na vaga"},
			wantCorrect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := ParseLines(strings.Split(tt.input, "\n"))
			require.Len(t, drafts, 1)
			assert.Equal(t, tt.wantText, drafts[0].Text)
			assert.Equal(t, tt.wantOptions, drafts[0].Options)
			assert.Equal(t, tt.wantCorrect, drafts[0].CorrectIndex)
		})
	}
}

func TestParseLines_MarkerAnywhereInLine(t *testing.T) {
	// A '*' inside the option text is read as a correctness marker.
	drafts := ParseLines([]string{"1) Quanto é 2 vezes 3?", "a) 6", "b) 2*3 + 1"})
	require.Len(t, drafts, 1)
	assert.Equal(t, 1, drafts[0].CorrectIndex)
}

func TestFinalize(t *testing.T) {
	long := strings.Repeat("á", 600)
	drafts := Finalize([]Draft{
		{Text: "duas opções", Options: []string{"a", "b"}},
		{Text: "uma opção", Options: []string{"a"}},
		{Text: "   ", Options: []string{"a", "b"}},
		{Text: "cinco opções", Options: []string{"a", "b", "c", "d", "e"}, CorrectIndex: 4},
		{Text: long, Options: []string{"a", "b", "c"}, CorrectIndex: 2},
	})

	require.Len(t, drafts, 3)
	assert.Equal(t, []string{"a", "b", "-", "-"}, drafts[0].Options)
	assert.Equal(t, []string{"a", "b", "c", "d"}, drafts[1].Options)
	assert.Equal(t, 0, drafts[1].CorrectIndex, "index past the fourth option is clamped")
	assert.Equal(t, 500, len([]rune(drafts[2].Text)))
	assert.Equal(t, 2, drafts[2].CorrectIndex)

	for _, d := range drafts {
		assert.Len(t, d.Options, 4)
		assert.True(t, d.CorrectIndex >= 0 && d.CorrectIndex < len(d.Options))
	}
}

func TestTextLinesAndParse_Fixture(t *testing.T) {
	f, err := os.Open("testdata/simulado_texto.html")
	require.NoError(t, err)
	defer f.Close()

	lines, err := TextLines(f)
	require.NoError(t, err)
	for _, l := range lines {
		assert.NotEmpty(t, l)
		assert.Equal(t, strings.TrimSpace(l), l)
		assert.NotContains(t, l, "font-weight")
		assert.NotContains(t, l, "not a question")
	}

	drafts := Finalize(ParseLines(lines))
	require.Len(t, drafts, 3)

	assert.Equal(t, "Qual a velocidade máxima permitida em vias arteriais, quando não houver sinalização?", drafts[0].Text)
	assert.Equal(t, 1, drafts[0].CorrectIndex)
	assert.Equal(t, "O condutor que avança o sinal vermelho comete infração:", drafts[1].Text)
	assert.Equal(t, []string{"leve", "média", "gravíssima *", "-"}, drafts[1].Options)
	assert.Equal(t, 2, drafts[1].CorrectIndex)
	assert.Equal(t, "Com chuva forte, o condutor deve:", drafts[2].Text)
	assert.Equal(t, 0, drafts[2].CorrectIndex)
}

func TestTextLines_InlineMarkupStaysOnLine(t *testing.T) {
	page := `<html><body>
<p>1) Qual a velocidade máxima?</p>
<p>a) 40</p><p>b) 60*</p><p>c) 80</p>
<p>2) <b>Qual</b> a cor do semáforo que manda parar?</p>
<ul><li>a) verde</li><li>b) vermelho <strong>*</strong></li><li>c) <em>amarelo</em></li></ul>
<div>3) Em rodovia,<br>qual o limite?</div><div>a) 80<br>b) 110 (x)</div>
</body></html>`

	lines, err := TextLines(strings.NewReader(page))
	require.NoError(t, err)
	assert.Contains(t, lines, "2) Qual a cor do semáforo que manda parar?")
	assert.Contains(t, lines, "b) vermelho *")
	assert.Contains(t, lines, "c) amarelo")

	drafts := Finalize(ParseLines(lines))
	require.Len(t, drafts, 3)

	assert.Equal(t, []string{"40", "60*", "80", "-"}, drafts[0].Options)
	assert.Equal(t, 1, drafts[0].CorrectIndex)

	assert.Equal(t, "Qual a cor do semáforo que manda parar?", drafts[1].Text)
	assert.Equal(t, []string{"verde", "vermelho *", "amarelo", "-"}, drafts[1].Options)
	assert.Equal(t, 1, drafts[1].CorrectIndex)

	assert.Equal(t, "Em rodovia, qual o limite?", drafts[2].Text)
	assert.Equal(t, []string{"80", "110 (x)", "-", "-"}, drafts[2].Options)
	assert.Equal(t, 1, drafts[2].CorrectIndex)
}
