// ABOUTME: Version and product identification constants
// ABOUTME: Reported by the health endpoint, mDNS TXT records and the CLI
package version

// Version is overridden at build time with -ldflags "-X ...version.Version=v1.2.3"
var Version = "0.3.0"

const (
	Product      = "Mind Universe"
	Manufacturer = "Mind Universe Project"
	// ServiceType is the mDNS service type the server advertises
	ServiceType = "_mindverse._tcp"
)

// String returns the product name with its version
func String() string {
	return Product + " " + Version
}
