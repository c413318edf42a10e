package heatmap

import (
	"errors"
	"sync"

	"github.com/gogpu/heatmap/render"
)

// Accelerator is an optional GPU implementation of the render pipeline.
//
// When one is registered, charts created without WithRenderer try it first
// for every frame. Returning ErrFallbackToCPU (or any other error) makes the
// chart render that frame with the software renderer.
//
// Implementations live in GPU backend packages and are enabled by a blank
// import:
//
//	import _ "github.com/gogpu/heatmap/gpu" // enables GPU acceleration
type Accelerator interface {
	Renderer

	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanRender reports whether the accelerator supports the chart type.
	CanRender(t Type) bool
}

// DeviceProviderAware is implemented by accelerators that can use a GPU
// device owned by the host application instead of opening their own.
type DeviceProviderAware interface {
	SetDeviceProvider(h render.DeviceHandle) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator initializes a and makes it the active accelerator,
// closing the previous one. If Init fails, a is not registered.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("heatmap: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	Logger().Info("heatmap: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the active accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

func registeredAccelerator() Accelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// SetAcceleratorDeviceProvider hands a host GPU device to the registered
// accelerator. It is a no-op when no accelerator is registered or when the
// accelerator cannot share devices.
func SetAcceleratorDeviceProvider(h render.DeviceHandle) error {
	a := registeredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(h)
	}
	return nil
}
