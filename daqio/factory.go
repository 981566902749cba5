package daqio

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/daqforge/daqconv/errs"
)

// RingTransport is the hook for the ring-buffer IPC used by tcp:// and
// ring:// endpoints. The implementation ships separately; a build that
// includes one registers it at startup.
type RingTransport interface {
	// OpenSource attaches to the named local ring for reading.
	OpenSource(name string) (DataSource, error)
	// OpenSink attaches to the named local ring for writing.
	OpenSink(name string) (DataSink, error)
}

var ringTransport RingTransport

// RegisterRingTransport installs the ring transport used by subsequent
// MakeSource and MakeSink calls.
func RegisterRingTransport(t RingTransport) {
	ringTransport = t
}

// ringName validates a ring URI: the host must be empty or local, and the
// path names the ring.
func ringName(u *url.URL) (string, error) {
	host := u.Hostname()
	if host != "" && host != "localhost" && host != "127.0.0.1" {
		return "", fmt.Errorf("%w: host %q", errs.ErrRemoteNotSupported, host)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("%w: ring URI %q names no ring", errs.ErrConfig, u.String())
	}

	return name, nil
}

func ringFromURI(u *url.URL) (RingTransport, string, error) {
	name, err := ringName(u)
	if err != nil {
		return nil, "", err
	}
	if ringTransport == nil {
		return nil, "", fmt.Errorf("%w: no ring transport registered for %q", errs.ErrConfig, u.String())
	}

	return ringTransport, name, nil
}

// MakeSource builds the data source named by uri:
//
//	-                   standard input
//	file://<path>       regular file (bare paths also accepted); .zst, .lz4,
//	                    and .s2 archives are decoded transparently
//	tcp://host/name     ring buffer via the registered transport
//	ring://host/name    same; host must be empty or localhost
func MakeSource(uri string) (DataSource, error) {
	if uri == "-" {
		return newStdinSource(), nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: source URI %q: %v", errs.ErrConfig, uri, err)
	}

	switch u.Scheme {
	case "", "file":
		return newFileSource(filePath(u))
	case "tcp", "ring":
		t, name, err := ringFromURI(u)
		if err != nil {
			return nil, err
		}

		return t.OpenSource(name)
	default:
		return nil, fmt.Errorf("%w: unsupported source scheme %q", errs.ErrConfig, u.Scheme)
	}
}

// MakeSink builds the data sink named by uri; the scheme rules match
// MakeSource with standard output for "-".
func MakeSink(uri string) (DataSink, error) {
	if uri == "-" {
		return newStdoutSink(), nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: sink URI %q: %v", errs.ErrConfig, uri, err)
	}

	switch u.Scheme {
	case "", "file":
		return newFileSink(filePath(u))
	case "tcp", "ring":
		t, name, err := ringFromURI(u)
		if err != nil {
			return nil, err
		}

		return t.OpenSink(name)
	default:
		return nil, fmt.Errorf("%w: unsupported sink scheme %q", errs.ErrConfig, u.Scheme)
	}
}

// filePath recovers a usable path from a file URI, tolerating both
// file:///abs/path and bare relative paths.
func filePath(u *url.URL) string {
	if u.Scheme == "" {
		return u.Path
	}
	if u.Host != "" {
		// file://relative/path parses the first segment as a host.
		return u.Host + u.Path
	}

	return u.Path
}
