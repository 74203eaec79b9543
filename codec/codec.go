// Package codec selects the JSON encoding used for model manifests and the
// CLI's machine-readable output.
//
// The manifest records the codec name, so a model written with one codec can
// be read back with it.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is used unless an option says otherwise.
var Default Codec = GoJSON{}
