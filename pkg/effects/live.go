package effects

// Live composes an HTTPClient (Send) with an ImageSink (Display) into
// a single Effects implementation, the one cmd/galaxy wires up for a
// real run against a server.
type Live struct {
	*HTTPClient
	*ImageSink
}

// NewLive builds the production Effects: network send, filesystem
// display.
func NewLive(serverURL, apiKey, imageDir string) (*Live, error) {
	sink, err := NewImageSink(imageDir)
	if err != nil {
		return nil, err
	}
	return &Live{
		HTTPClient: NewHTTPClient(serverURL, apiKey),
		ImageSink:  sink,
	}, nil
}
