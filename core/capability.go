package core

import (
	"slices"
	"strings"
)

// Capability names an operation a backend type may support.
type Capability string

const (
	// CapStat is mandatory for every backend.
	CapStat Capability = "stat"
	// CapReadDir lists the immediate children of a directory.
	CapReadDir Capability = "readdir"
	// CapGetDir lists a directory with optional sorting (derived from readdir).
	CapGetDir Capability = "getdir"
	// CapFind lists a subtree recursively (derived from readdir).
	CapFind Capability = "find"
	// CapCreateReadStream opens a lazy chunked reader (Streamer).
	CapCreateReadStream Capability = "createReadStream"
	// CapReadFile reads a whole file.
	CapReadFile Capability = "readFile"
	// CapWriteFile creates or replaces a file (Writer).
	CapWriteFile Capability = "writeFile"
	// CapCopyFile copies a file within one backend (Copier).
	CapCopyFile Capability = "copyFile"
	// CapUnlink removes a file (Unlinker).
	CapUnlink Capability = "unlink"
)

// AllCapabilities lists every known capability in canonical order.
var AllCapabilities = []Capability{
	CapStat,
	CapReadDir,
	CapGetDir,
	CapFind,
	CapCreateReadStream,
	CapReadFile,
	CapWriteFile,
	CapCopyFile,
	CapUnlink,
}

// Capabilities is an immutable set of capabilities declared by a backend
// type. It is safe for concurrent use.
type Capabilities struct {
	set map[Capability]struct{}
}

// NewCapabilities returns the set of the given capabilities. CapStat is
// always included because every backend must support it.
func NewCapabilities(caps ...Capability) Capabilities {
	set := make(map[Capability]struct{}, len(caps)+1)
	set[CapStat] = struct{}{}
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return Capabilities{set: set}
}

// Has reports whether the set contains c.
func (c Capabilities) Has(capability Capability) bool {
	_, ok := c.set[capability]
	return ok
}

// List returns the capabilities in canonical order, followed by any
// non-standard names in lexical order.
func (c Capabilities) List() []Capability {
	out := make([]Capability, 0, len(c.set))
	known := make(map[Capability]bool, len(AllCapabilities))
	for _, capability := range AllCapabilities {
		known[capability] = true
		if c.Has(capability) {
			out = append(out, capability)
		}
	}
	var extra []string
	for capability := range c.set {
		if !known[capability] {
			extra = append(extra, string(capability))
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		out = append(out, Capability(name))
	}
	return out
}

// Len returns the number of capabilities in the set.
func (c Capabilities) Len() int {
	return len(c.set)
}

// String returns the capabilities as a comma-separated list.
func (c Capabilities) String() string {
	list := c.List()
	names := make([]string, len(list))
	for i, capability := range list {
		names[i] = string(capability)
	}
	return strings.Join(names, ",")
}

// implements reports whether b provides the Go method set behind c.
func implements(b Backend, capability Capability) bool {
	switch capability {
	case CapStat, CapReadDir, CapGetDir, CapFind, CapReadFile:
		return true
	case CapCreateReadStream:
		_, ok := b.(Streamer)
		return ok
	case CapWriteFile:
		_, ok := b.(Writer)
		return ok
	case CapCopyFile:
		_, ok := b.(Copier)
		return ok
	case CapUnlink:
		_, ok := b.(Unlinker)
		return ok
	default:
		return false
	}
}

// Supports reports whether b both declares and implements c.
func Supports(b Backend, capability Capability) bool {
	return b.Capabilities().Has(capability) && implements(b, capability)
}

// VerifyCapabilities returns the capabilities b declares but does not
// implement. A conforming backend returns an empty slice.
func VerifyCapabilities(b Backend) []Capability {
	var missing []Capability
	for _, capability := range b.Capabilities().List() {
		if !implements(b, capability) {
			missing = append(missing, capability)
		}
	}
	return missing
}
