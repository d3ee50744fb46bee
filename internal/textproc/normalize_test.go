package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	assert.Equal(t, "", Preprocess(""))
	assert.Equal(t, "a b c", Preprocess("a\t b\n\n c "))
	assert.Equal(t, "see  for details", Preprocess("see https://example.com/x for details"))
	// The allowed charset keeps email and phone punctuation.
	assert.Equal(t, "mail: a@b.co, tel +62-812", Preprocess("mail: a@b.co, tel +62-812 ★"))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Senior Backend Engineer (Python, Go)")
	assert.Equal(t, []string{"senior", "backend", "engineer", "python", "go"}, tokens)
	assert.Empty(t, Tokenize(""))
}

func TestRemoveStopwords(t *testing.T) {
	stopwords := NewStopwordSet([]string{"dan", "the"})
	out := RemoveStopwords([]string{"python", "dan", "the", "go", "x"}, stopwords)
	// Stop words and single-character tokens are both dropped.
	assert.Equal(t, []string{"python", "go"}, out)
}

func TestCleanTokens(t *testing.T) {
	stopwords := NewStopwordSet([]string{"di", "and"})
	out := CleanTokens("Bekerja di Jakarta and Bandung", stopwords)
	assert.Equal(t, []string{"bekerja", "jakarta", "bandung"}, out)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Kerja Tim", TitleCase("kerja tim"))
	assert.Equal(t, "React.Js", TitleCase("react.js"))
	assert.Equal(t, "Python", TitleCase("PYTHON"))
	assert.Equal(t, "", TitleCase(""))
}

func TestDisplayCaseSkill(t *testing.T) {
	assert.Equal(t, "AWS", DisplayCaseSkill("aws"))
	assert.Equal(t, "GO", DisplayCaseSkill("go"))
	assert.Equal(t, "Python", DisplayCaseSkill("python"))
	assert.Equal(t, "Node.Js", DisplayCaseSkill("node.js"))
}
