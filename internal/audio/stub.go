package audio

import "context"

// StubSource serves a fixed device list. Used in tests and as the fallback
// when PortAudio cannot be initialized on the host.
type StubSource struct {
	List []Device
	Err  error
}

// DefaultStubDevices is the device set the stub serves when List is nil.
var DefaultStubDevices = []Device{
	{ID: "in-0", Name: "Default Microphone", Kind: KindInput},
	{ID: "in-1", Name: "Headset Microphone", Kind: KindInput},
	{ID: "out-0", Name: "Default Speakers", Kind: KindOutput},
	{ID: "out-1", Name: "Headset", Kind: KindOutput},
}

// Devices returns the configured list or error.
func (s *StubSource) Devices(ctx context.Context) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.List == nil {
		return DefaultStubDevices, nil
	}
	return s.List, nil
}
