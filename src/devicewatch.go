package afsktnc

import (
	"context"
	"fmt"
	"strings"

	"github.com/jochenvg/go-udev"
)

// DeviceWatcher watches udev for a matching tty device appearing or
// disappearing, so a serial KISS port can be reopened across a USB
// radio-interface unplug/replug without restarting the process. This is
// new relative to the teacher (go-udev is declared but unused in its
// go.mod); it fills the natural hotplug-companion role next to
// kissserial.go.
type DeviceWatcher struct {
	devnodePrefix string
	onAdd         func(devnode string)
	onRemove      func(devnode string)
}

// NewDeviceWatcher builds a watcher for tty devices whose /dev path has
// the given prefix (e.g. "/dev/ttyUSB").
func NewDeviceWatcher(devnodePrefix string, onAdd, onRemove func(devnode string)) *DeviceWatcher {
	return &DeviceWatcher{devnodePrefix: devnodePrefix, onAdd: onAdd, onRemove: onRemove}
}

// Run blocks, dispatching onAdd/onRemove for matching tty add/remove
// events, until ctx is canceled.
func (w *DeviceWatcher) Run(ctx context.Context) error {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("tty"); err != nil {
		return fmt.Errorf("afsktnc: udev filter: %w", err)
	}

	ch, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("afsktnc: udev monitor: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return fmt.Errorf("afsktnc: udev monitor error: %w", err)
		case dev := <-ch:
			if dev == nil {
				continue
			}
			node := dev.Devnode()
			if !strings.HasPrefix(node, w.devnodePrefix) {
				continue
			}
			switch dev.Action() {
			case "add":
				if w.onAdd != nil {
					w.onAdd(node)
				}
			case "remove":
				if w.onRemove != nil {
					w.onRemove(node)
				}
			}
		}
	}
}
