package afsktnc

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// dnsSDServiceType is the mDNS/DNS-SD service type KISS-over-TCP clients
// browse for (byte-for-byte the same as the teacher's dns_sd.go).
const dnsSDServiceType = "_kiss-tnc._tcp"

// AnnounceKISSService advertises the KISS TCP server at port under name
// (or "afsktnc" if empty) until ctx is canceled. It runs the responder in
// a background goroutine and returns immediately.
func AnnounceKISSService(ctx context.Context, name string, port int, logger *Logger) error {
	if name == "" {
		name = "afsktnc"
	}

	cfg := dnssd.Config{
		Name: name,
		Type: dnsSDServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("afsktnc: dns-sd: creating service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("afsktnc: dns-sd: creating responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return fmt.Errorf("afsktnc: dns-sd: adding service: %w", err)
	}

	go func() {
		if err := responder.Respond(ctx); err != nil && logger != nil {
			logger.Log(SeverityError, "dns-sd responder stopped: %v", err)
		}
	}()

	if logger != nil {
		logger.Log(SeverityInfo, "dns-sd: announcing %s on port %d as %q", dnsSDServiceType, port, name)
	}
	return nil
}
