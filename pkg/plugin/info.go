package plugin

// Info describes a discovered or instantiated plugin module. Discovery
// (pluginindex) and instantiation (Host.Create) both produce Info values,
// the former from a VST_PATH/CLAP_PATH scan, the latter from whatever the
// module itself reports once loaded.
type Info struct {
	UID        string
	Name       string
	Vendor     string
	Version    string
	Category   string
	Format     Format
	Path       string
}
