package device

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Device represents a physical or logical compute device (e.g., CPU, GPU).
// It provides access to the device's properties, its memory allocator, and
// its random source.
type Device interface {
	// ID returns the unique identifier for the device (e.g., "cpu", "cuda:0").
	ID() string
	// GetAllocator returns the memory allocator associated with this device.
	GetAllocator() Allocator
	// RNG returns the device's random number generator. The generator is a
	// single mutex-protected handle shared by all samplers on the device.
	RNG() *RNG
	// Type returns the type of the device.
	Type() Type
}

// Type is an enum for the kind of device.
type Type int

const (
	// CPU represents the host processor device type.
	CPU Type = iota
	// GPU represents an accelerator device type.
	GPU
)

var (
	logMu  sync.RWMutex
	logger = zerolog.New(io.Discard)
)

// SetLogger installs a logger for device and backend lifecycle events.
// The default logger discards everything.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

// Log returns the library logger.
func Log() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()

	return logger
}

// --- Device registry ---

var (
	devices      = make(map[string]Device)
	devicesMutex = &sync.RWMutex{}
)

// Register adds a device to the global registry. Backends call this from
// their init functions.
func Register(dev Device) {
	devicesMutex.Lock()
	defer devicesMutex.Unlock()
	devices[dev.ID()] = dev
	l := Log()
	l.Debug().Str("device", dev.ID()).Msg("registered device")
}

// Get returns a registered device by its ID.
// It returns an error if no device with that ID is found.
func Get(id string) (Device, error) {
	devicesMutex.RLock()
	defer devicesMutex.RUnlock()
	dev, ok := devices[id]
	if !ok {
		return nil, fmt.Errorf("device not found: %s", id)
	}

	return dev, nil
}

// Default returns the CPU device.
func Default() Device {
	dev, err := Get("cpu")
	if err != nil {
		panic(err)
	}

	return dev
}

// --- CPU device ---

// cpuDevice represents the system's main CPU.
type cpuDevice struct {
	id        string
	allocator Allocator
	rng       *RNG
}

// newCPUDevice creates the singleton CPU device instance.
func newCPUDevice() *cpuDevice {
	return &cpuDevice{
		id:        "cpu",
		allocator: NewCPUAllocator(),
		rng:       NewRNG(0),
	}
}

// ID returns the device's identifier.
func (d *cpuDevice) ID() string {
	return d.id
}

// GetAllocator returns the CPU's memory allocator.
func (d *cpuDevice) GetAllocator() Allocator {
	return d.allocator
}

// RNG returns the CPU's random number generator.
func (d *cpuDevice) RNG() *RNG {
	return d.rng
}

// Type returns the device type.
func (d *cpuDevice) Type() Type {
	return CPU
}

// init registers the default CPU device when the package is imported.
func init() {
	Register(newCPUDevice())
}
