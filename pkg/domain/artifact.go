package domain

// Artifact is the result of one conversion. It is created once per request
// and handed to the transport untouched.
type Artifact struct {
	// Format is the format the data was rendered in.
	Format Format
	// Data holds the serialized Office Open XML package.
	Data []byte
	// ContentType is the MIME type to announce to clients.
	ContentType string
	// Filename is the suggested attachment name.
	Filename string
}

// NewArtifact wraps rendered bytes with the metadata of format f.
func NewArtifact(f Format, data []byte) *Artifact {
	return &Artifact{
		Format:      f,
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    f.Filename(),
	}
}

// Size returns the number of bytes in the artifact.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}

	return len(a.Data)
}
