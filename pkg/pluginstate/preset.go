package pluginstate

import "encoding/base64"

// PresetBytes is the opaque byte stream a plugin instance returns from
// get_preset and accepts back via set_preset (§4.1). The engine never
// interprets these bytes; it only frames them for the project file, where
// §4.7 requires base64 encoding.
type PresetBytes []byte

// EncodeBase64 renders preset bytes for embedding in a JSON project file.
func (p PresetBytes) EncodeBase64() string {
	return base64.StdEncoding.EncodeToString(p)
}

// DecodeBase64PresetBytes reverses EncodeBase64.
func DecodeBase64PresetBytes(s string) (PresetBytes, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return PresetBytes(b), nil
}
