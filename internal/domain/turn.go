package domain

// Part is a fragment of a request turn: TextPart or InlineMediaPart.
type Part interface {
	isPart()
}

type TextPart struct {
	Text string
}

type InlineMediaPart struct {
	MediaType string
	Data      string
}

func (TextPart) isPart()        {}
func (InlineMediaPart) isPart() {}

// Turn is the provider-agnostic projection of a message.
type Turn struct {
	Role  Role
	Parts []Part
}
