package plugin

// Format identifies the native plugin ABI an Instance wraps, per §4.1.
type Format uint8

const (
	FormatVST2 Format = iota
	FormatVST3
	FormatCLAP
)

func (f Format) String() string {
	switch f {
	case FormatVST2:
		return "VST2"
	case FormatVST3:
		return "VST3"
	case FormatCLAP:
		return "CLAP"
	default:
		return "Unknown"
	}
}
