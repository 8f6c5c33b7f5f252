package afsktnc

import (
	"fmt"

	hamlib "github.com/xylo04/goHamlib"
)

// hamlibPTT keys a rig's CAT control PTT, the Go equivalent of the
// teacher's HAMLIB support (ptt.go "Version 1.3: HAMLIB support"), without
// the teacher's cgo binding to the C hamlib library.
type hamlibPTT struct {
	rig *hamlib.Rig
}

func newHamlibPTT(model int, device string) (*hamlibPTT, error) {
	rig := hamlib.RigInit(model)
	if rig == nil {
		return nil, fmt.Errorf("afsktnc: hamlib: unknown rig model %d", model)
	}
	rig.SetConf("rig_pathname", device)
	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("afsktnc: hamlib: opening %s: %w", device, err)
	}
	return &hamlibPTT{rig: rig}, nil
}

func (p *hamlibPTT) Key() error   { return p.rig.SetPTT(hamlib.VFOCurrent, hamlib.PTTOn) }
func (p *hamlibPTT) Unkey() error { return p.rig.SetPTT(hamlib.VFOCurrent, hamlib.PTTOff) }
func (p *hamlibPTT) Close() error { return p.rig.Close() }
