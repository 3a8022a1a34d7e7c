package insight

import "context"

// staticGenerator returns a canned response. Adapted from the dummy AI
// doubles used during local development; tests build fakes on top of it.
type staticGenerator struct {
	text string
	err  error
}

func (g staticGenerator) GenerateText(context.Context, string) (string, error) {
	return g.text, g.err
}

// NewStaticGenerator returns a TextGenerator that always yields text.
func NewStaticGenerator(text string) TextGenerator {
	return staticGenerator{text: text}
}

// NewFailingGenerator returns a TextGenerator that always fails with err.
func NewFailingGenerator(err error) TextGenerator {
	return staticGenerator{err: err}
}
