package domain

// Deck is a presentation: a document whose body is split into slides on
// `---` rules. The first slide is the title slide.
type Deck struct {
	Document
	Slides []string
}

func (d *Deck) SlideCount() int {
	return len(d.Slides)
}
