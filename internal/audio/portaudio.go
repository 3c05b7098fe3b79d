package audio

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSource enumerates real host devices through PortAudio.
type PortAudioSource struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudioSource returns an uninitialized source. PortAudio itself is
// initialized lazily on the first enumeration so that constructing the App
// never fails on machines without a sound stack.
func NewPortAudioSource() *PortAudioSource {
	return &PortAudioSource{}
}

// Devices lists every host device, classifying by channel counts. A device
// with both input and output channels appears once per kind.
func (s *PortAudioSource) Devices(ctx context.Context) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		if err := portaudio.Initialize(); err != nil {
			return nil, fmt.Errorf("audio: initialize portaudio: %w", err)
		}
		s.initialized = true
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerate devices: %w", err)
	}

	var out []Device
	for i, info := range infos {
		id := strconv.Itoa(i)
		if info.MaxInputChannels > 0 {
			out = append(out, Device{ID: "in-" + id, Name: info.Name, Kind: KindInput})
		}
		if info.MaxOutputChannels > 0 {
			out = append(out, Device{ID: "out-" + id, Name: info.Name, Kind: KindOutput})
		}
	}
	return out, nil
}

// Close terminates PortAudio if it was initialized.
func (s *PortAudioSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil
	}
	s.initialized = false
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("audio: terminate portaudio: %w", err)
	}
	return nil
}
