package archive

// Metadata is the normalized view of whatever manifests an archive carries.
// Every field defaults to empty; the zero value means "nothing declared".
type Metadata struct {
	Loader      string            `json:"loader,omitempty"`
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Version     string            `json:"version,omitempty"`
	Description string            `json:"description,omitempty"`
	Authors     []string          `json:"authors,omitempty"`
	License     string            `json:"license,omitempty"`
	Entrypoints []string          `json:"entrypoints,omitempty"`
	Depends     map[string]string `json:"depends,omitempty"`
	Conflicts   map[string]string `json:"conflicts,omitempty"`
}

// IsEmpty reports whether extraction found nothing at all.
func (m Metadata) IsEmpty() bool {
	return m.Loader == "" && m.ID == "" && m.Name == "" && m.Version == "" &&
		m.Description == "" && len(m.Authors) == 0
}
