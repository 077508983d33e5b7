package cache

// Keyer builds cache keys for the operations that cache their output.
type Keyer interface {
	// NormalizeKey identifies the canonical re-serialization of a document.
	NormalizeKey(docHash string, opts NormalizeKeyOpts) string
	// RenderKey identifies a rendered diagram of a document.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// NormalizeKeyOpts are the inputs besides the document that shape a
// normalized document.
type NormalizeKeyOpts struct {
	// SchemaID names the schema the document was validated against.
	SchemaID string `json:"schema_id"`
}

// RenderKeyOpts are the inputs besides the document that shape a rendering.
type RenderKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction"`
	Ports     bool   `json:"ports"`
	Detailed  bool   `json:"detailed"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NormalizeKey implements [Keyer].
func (DefaultKeyer) NormalizeKey(docHash string, opts NormalizeKeyOpts) string {
	return hashKey("normalize", docHash, opts)
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}

var _ Keyer = DefaultKeyer{}
