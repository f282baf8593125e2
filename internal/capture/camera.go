package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// ErrNoDevice is returned when no camera devices are configured.
var ErrNoDevice = errors.New("no camera device configured")

// warmupFrames is how many empty reads are tolerated after opening a device.
// Many webcams return blank frames while auto-exposure settles.
const warmupFrames = 10

// Camera grabs frames from OpenCV video devices. Only one device is open at
// a time; Switch cycles through the configured list.
type Camera struct {
	mu      sync.Mutex
	devices []int
	current int
	width   int
	height  int
	log     *zap.Logger

	vc *gocv.VideoCapture
}

// CameraOption configures a Camera.
type CameraOption func(*Camera)

// WithResolution requests a capture resolution. Devices may ignore it.
func WithResolution(width, height int) CameraOption {
	return func(c *Camera) {
		c.width = width
		c.height = height
	}
}

// WithCameraLogger sets the logger.
func WithCameraLogger(l *zap.Logger) CameraOption {
	return func(c *Camera) { c.log = l }
}

// NewCamera creates a camera over the given device indices. The first
// device is opened lazily on the first capture.
func NewCamera(devices []int, opts ...CameraOption) *Camera {
	c := &Camera{
		devices: append([]int(nil), devices...),
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Device returns the label of the selected device.
func (c *Camera) Device() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.devices) == 0 {
		return ""
	}
	return strconv.Itoa(c.devices[c.current])
}

// CaptureFrame implements Capturer.
func (c *Camera) CaptureFrame(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.openLocked(); err != nil {
		return nil, err
	}

	mat := gocv.NewMat()
	defer mat.Close()

	for i := 0; i < warmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !c.vc.Read(&mat) {
			c.closeLocked()
			return nil, fmt.Errorf("camera %d: device closed: %w", c.devices[c.current], ErrNoFrame)
		}
		if !mat.Empty() {
			img, err := mat.ToImage()
			if err != nil {
				return nil, fmt.Errorf("camera %d: convert frame: %w", c.devices[c.current], err)
			}
			c.log.Debug("frame captured",
				zap.Int("device", c.devices[c.current]),
				zap.Int("width", mat.Cols()),
				zap.Int("height", mat.Rows()))
			return img, nil
		}
	}
	return nil, fmt.Errorf("camera %d: %w", c.devices[c.current], ErrNoFrame)
}

// Switch implements Switcher. The current device is closed and the next one
// is opened on the following capture.
func (c *Camera) Switch() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.devices) == 0 {
		return "", ErrNoDevice
	}
	c.closeLocked()
	c.current = (c.current + 1) % len(c.devices)
	c.log.Info("camera switched", zap.Int("device", c.devices[c.current]))
	return strconv.Itoa(c.devices[c.current]), nil
}

// Close releases the open device, if any.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Camera) openLocked() error {
	if c.vc != nil {
		return nil
	}
	if len(c.devices) == 0 {
		return ErrNoDevice
	}
	dev := c.devices[c.current]
	vc, err := gocv.OpenVideoCapture(dev)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", dev, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("open camera %d: %w", dev, ErrNoFrame)
	}
	if c.width > 0 && c.height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	}
	c.vc = vc
	c.log.Info("camera opened", zap.Int("device", dev))
	return nil
}

func (c *Camera) closeLocked() error {
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	return err
}
