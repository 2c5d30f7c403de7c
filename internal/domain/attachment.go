package domain

// Attachment is an encoded image waiting to be sent. Data is the bare base64
// payload for the provider, Preview the data URL kept on the stored message.
type Attachment struct {
	Data      string
	Preview   string
	MediaType string
	Size      int
}

// DataURL is the self-describing reference stored on the message.
func (a Attachment) DataURL() string {
	if a.Preview != "" {
		return a.Preview
	}
	return BuildDataURL(a.MediaType, a.Data)
}
