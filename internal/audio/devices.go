// Package audio enumerates the microphone and speaker devices offered in
// the call-setup pickers. Enumeration failure is never fatal: screens show
// an empty list and a transient notice instead.
package audio

import "context"

// DeviceKind separates input from output devices.
type DeviceKind string

const (
	KindInput  DeviceKind = "input"
	KindOutput DeviceKind = "output"
)

// Device is one selectable audio endpoint.
type Device struct {
	ID   string
	Name string
	Kind DeviceKind
}

// DeviceSource lists available devices. Enumeration should be re-run when
// the user refreshes, since the device set can change while a screen is open.
type DeviceSource interface {
	Devices(ctx context.Context) ([]Device, error)
}

// Inputs filters devices down to microphones.
func Inputs(devices []Device) []Device {
	return ofKind(devices, KindInput)
}

// Outputs filters devices down to speakers.
func Outputs(devices []Device) []Device {
	return ofKind(devices, KindOutput)
}

func ofKind(devices []Device, kind DeviceKind) []Device {
	var out []Device
	for _, d := range devices {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
