package model

// Upload is one photo of a submission as received from the client.
type Upload struct {
	Filename    string // Original filename, extension source for the stored name
	MimeType    string // Declared by the client
	Size        int64
	Data        []byte
	Description string
	Metadata    PhotoMetadata
}
