package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"assessment-cam/internal/asset"
	"assessment-cam/internal/capture"
	"assessment-cam/internal/export"
	"assessment-cam/internal/gesture"
	"assessment-cam/internal/overlay"
	"assessment-cam/internal/render"
	"assessment-cam/pkg/geometry"

	"go.uber.org/zap"
)

var (
	// ErrNoBase is returned by operations that need a captured photo.
	ErrNoBase = errors.New("no photo captured")
	// ErrNoCapturer is returned by Capture when no capture source is set.
	ErrNoCapturer = errors.New("no capture source")
	// ErrNotSwitchable is returned by SwitchCamera for single-device sources.
	ErrNotSwitchable = errors.New("capture source has a single device")
)

var _ gesture.Target = (*Session)(nil)

// Session is one assessment: a base photo, the stickers placed on it, the
// gesture in progress and the export settings. Every method is safe for
// concurrent use; input events, renders and exports are serialized on one
// mutex so no mutation interleaves with a render.
type Session struct {
	emitter

	mu  sync.Mutex
	log *zap.Logger

	cache    *asset.Cache
	model    *overlay.Model
	ctrl     *gesture.Controller
	comp     *render.Compositor
	sched    *render.Scheduler
	capturer capture.Capturer
	writer   *export.Writer
	naming   export.Naming
	catalogs map[asset.Side][]asset.ID

	display      geometry.Size
	side         asset.Side
	assessmentID string
}

type settings struct {
	log           *zap.Logger
	capturer      capture.Capturer
	writer        *export.Writer
	naming        export.Naming
	modelConfig   overlay.Config
	style         render.Style
	frameInterval time.Duration
	catalogs      map[asset.Side][]asset.ID
	side          asset.Side
}

// Option configures a Session.
type Option func(*settings)

// WithLogger sets the session logger. Components log through named children.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithCapturer sets the photo source.
func WithCapturer(c capture.Capturer) Option {
	return func(s *settings) { s.capturer = c }
}

// WithWriter sets where exports are written.
func WithWriter(w *export.Writer) Option {
	return func(s *settings) { s.writer = w }
}

// WithNaming overrides export filename generation.
func WithNaming(n export.Naming) Option {
	return func(s *settings) { s.naming = n }
}

// WithModelConfig sets placement and hit-test constants.
func WithModelConfig(c overlay.Config) Option {
	return func(s *settings) { s.modelConfig = c }
}

// WithStyle sets the selection and handle decoration style.
func WithStyle(st render.Style) Option {
	return func(s *settings) { s.style = st }
}

// WithFrameInterval sets the minimum time between redraws.
func WithFrameInterval(d time.Duration) Option {
	return func(s *settings) { s.frameInterval = d }
}

// WithCatalog sets the sticker palette for one side.
func WithCatalog(side asset.Side, ids []asset.ID) Option {
	return func(s *settings) { s.catalogs[side] = append([]asset.ID(nil), ids...) }
}

// WithSide sets the initial premises side.
func WithSide(side asset.Side) Option {
	return func(s *settings) { s.side = side }
}

// NewSession creates a session that resolves stickers through cache.
func NewSession(cache *asset.Cache, opts ...Option) *Session {
	st := settings{
		log:           zap.NewNop(),
		modelConfig:   overlay.DefaultConfig(),
		style:         render.DefaultStyle(),
		frameInterval: render.DefaultFrameInterval,
		catalogs:      make(map[asset.Side][]asset.ID),
		side:          asset.SideFront,
	}
	for _, o := range opts {
		o(&st)
	}
	if st.writer == nil {
		st.writer = export.NewWriter(".", nil, export.WithLogger(st.log.Named("export")))
	}
	if st.naming.Ext == "" {
		st.naming.Ext = st.writer.Encoder().Ext()
	}

	s := &Session{
		log:      st.log,
		cache:    cache,
		capturer: st.capturer,
		writer:   st.writer,
		naming:   st.naming,
		catalogs: st.catalogs,
		side:     st.side,
	}
	s.model = overlay.NewModel(cache, st.modelConfig)
	s.comp = render.NewCompositor(
		render.WithStyle(st.style),
		render.WithLogger(st.log.Named("render")))
	s.sched = render.NewScheduler(s.flush,
		render.WithFrameInterval(st.frameInterval),
		render.WithSchedulerLogger(st.log.Named("scheduler")))
	s.ctrl = gesture.NewController(s.model,
		gesture.WithInvalidator(s.sched),
		gesture.WithLogger(st.log.Named("gesture")))

	cache.OnLoaded(func(id asset.ID, err error) {
		s.Emit(EventAssetLoaded, AssetLoaded{ID: id, Err: err})
	})
	return s
}

// Run drives redraws until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	return s.sched.Run(ctx)
}

// RequestRender queues a redraw.
func (s *Session) RequestRender() {
	s.sched.RequestRender()
}

func (s *Session) flush() {
	frame := s.Render()
	if frame != nil {
		s.Emit(EventFrameRendered, frame)
	}
}

// Render draws the current state immediately and returns the frame, or nil
// without a base photo.
func (s *Session) Render() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.Render(s.model.Instances(), s.ctrl.Active())
}

// Frame returns the last rendered frame.
func (s *Session) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.Surface()
}

// Capture takes a new base photo from the capture source. Stickers placed on
// the previous photo are discarded.
func (s *Session) Capture(ctx context.Context) error {
	s.mu.Lock()
	c := s.capturer
	s.mu.Unlock()
	if c == nil {
		return ErrNoCapturer
	}

	img, err := c.CaptureFrame(ctx)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return s.SetBase(img)
}

// SetBase installs img as the base photo and clears the overlay.
func (s *Session) SetBase(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("set base: %w", capture.ErrNoFrame)
	}

	s.mu.Lock()
	s.comp.SetBase(img)
	s.model.Clear()
	s.ctrl.Reset()
	surface := s.comp.Size()
	s.ctrl.SetViewport(gesture.Viewport{Display: s.displayLocked(surface), Surface: surface})
	s.mu.Unlock()

	s.log.Info("photo captured",
		zap.Float64("width", surface.Width),
		zap.Float64("height", surface.Height))
	s.Emit(EventBaseCaptured, surface)
	s.Emit(EventStickersChanged, []asset.ID(nil))
	s.sched.RequestRender()
	return nil
}

// HasBase reports whether a photo has been captured.
func (s *Session) HasBase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.HasBase()
}

// SurfaceSize returns the output surface size.
func (s *Session) SurfaceSize() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.Size()
}

// SetDisplaySize tells the session how large the surface is shown on screen
// so input coordinates can be mapped back to surface pixels.
func (s *Session) SetDisplaySize(size geometry.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = size
	surface := s.comp.Size()
	s.ctrl.SetViewport(gesture.Viewport{Display: s.displayLocked(surface), Surface: surface})
}

// displayLocked falls back to a 1:1 mapping until the UI reports a size.
func (s *Session) displayLocked(surface geometry.Size) geometry.Size {
	if s.display.Empty() {
		return surface
	}
	return s.display
}

// Toggle places the sticker id, or removes it if it is already placed.
// It returns asset.ErrNotReady while the sticker is still decoding; an
// EventAssetLoaded follows and the caller may try again.
func (s *Session) Toggle(id asset.ID) error {
	s.mu.Lock()
	if !s.comp.HasBase() {
		s.mu.Unlock()
		return ErrNoBase
	}
	in, err := s.model.Toggle(id, s.comp.Size())
	placed := s.placedLocked()
	s.mu.Unlock()

	switch {
	case errors.Is(err, asset.ErrNotReady):
		s.log.Info("sticker still loading", zap.Stringer("sticker", id))
		return err
	case err != nil:
		s.log.Warn("sticker unavailable", zap.Stringer("sticker", id), zap.Error(err))
		return err
	case in == nil:
		s.log.Debug("sticker removed", zap.Stringer("sticker", id))
	default:
		s.log.Debug("sticker placed",
			zap.Stringer("sticker", id),
			zap.String("instance", in.ID),
			zap.Float64("width", in.Width))
	}
	s.Emit(EventStickersChanged, placed)
	s.sched.RequestRender()
	return nil
}

// Remove deletes the placed sticker id. It reports whether one was placed.
func (s *Session) Remove(id asset.ID) bool {
	s.mu.Lock()
	removed := s.model.Remove(id)
	placed := s.placedLocked()
	s.mu.Unlock()

	if removed {
		s.Emit(EventStickersChanged, placed)
		s.sched.RequestRender()
	}
	return removed
}

// Handle applies one input event in display coordinates.
func (s *Session) Handle(ev gesture.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Handle(ev)
}

// Mode returns the state of the gesture in progress.
func (s *Session) Mode() gesture.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Mode()
}

// Placed returns the placed sticker ids in paint order.
func (s *Session) Placed() []asset.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placedLocked()
}

func (s *Session) placedLocked() []asset.ID {
	list := s.model.Instances()
	ids := make([]asset.ID, len(list))
	for i, in := range list {
		ids[i] = in.Type
	}
	return ids
}

// IsPlaced reports whether sticker id is on the photo.
func (s *Session) IsPlaced(id asset.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Has(id)
}

// Instances returns copies of the placed stickers in paint order.
func (s *Session) Instances() []overlay.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.model.Instances()
	out := make([]overlay.Instance, len(list))
	for i, in := range list {
		out[i] = *in.Clone()
	}
	return out
}

// Side returns the selected premises side.
func (s *Session) Side() asset.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side
}

// SetSide selects the premises side, which picks the sticker palette and the
// location token in export filenames. Placed stickers stay.
func (s *Session) SetSide(side asset.Side) error {
	if side != asset.SideFront && side != asset.SideBack {
		return fmt.Errorf("set side: unsupported side %v", side)
	}
	s.mu.Lock()
	changed := s.side != side
	s.side = side
	s.mu.Unlock()
	if changed {
		s.Emit(EventSideChanged, side)
	}
	return nil
}

// Catalog returns the sticker palette for the selected side.
func (s *Session) Catalog() []asset.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]asset.ID(nil), s.catalogs[s.side]...)
}

// Preload decodes every catalog sticker for both sides.
func (s *Session) Preload(ctx context.Context) error {
	s.mu.Lock()
	var ids []asset.ID
	for _, side := range []asset.Side{asset.SideFront, asset.SideBack} {
		ids = append(ids, s.catalogs[side]...)
	}
	s.mu.Unlock()
	return s.cache.Preload(ctx, ids...)
}

// Asset returns the cached sticker id, starting its load if needed.
func (s *Session) Asset(id asset.ID) *asset.Asset {
	return s.cache.Get(id)
}

// RetryFailedAssets restarts every failed sticker load.
func (s *Session) RetryFailedAssets() int {
	n := s.cache.RetryFailed()
	if n > 0 {
		s.log.Info("retrying sticker loads", zap.Int("count", n))
	}
	return n
}

// AssessmentID returns the id used in export filenames.
func (s *Session) AssessmentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assessmentID
}

// SetAssessmentID sets the assessment id. It must be empty or six digits.
func (s *Session) SetAssessmentID(id string) error {
	if err := export.ValidateAssessmentID(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.assessmentID = id
	s.mu.Unlock()
	return nil
}

// SwitchCamera moves the capture source to its next device.
func (s *Session) SwitchCamera() (string, error) {
	s.mu.Lock()
	sw, ok := s.capturer.(capture.Switcher)
	s.mu.Unlock()
	if !ok {
		return "", ErrNotSwitchable
	}
	dev, err := sw.Switch()
	if err != nil {
		return "", fmt.Errorf("switch camera: %w", err)
	}
	s.Emit(EventCameraSwitched, dev)
	return dev, nil
}

// Snapshot returns the photo with its stickers at native resolution, without
// selection or handle decorations.
func (s *Session) Snapshot() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.comp.HasBase() {
		return nil, ErrNoBase
	}
	return export.Flatten(s.comp.Plain(s.model.Instances()))
}

// Export writes the snapshot as assessment_{id}_{FOH|BOH}_{timestamp} in the
// export directory and returns its path.
func (s *Session) Export() (string, error) {
	img, err := s.Snapshot()
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	s.mu.Lock()
	name := s.naming.FileName(s.assessmentID, s.side)
	w := s.writer
	s.mu.Unlock()

	path, err := w.Save(img, name)
	if err != nil {
		s.log.Warn("export failed", zap.String("file", name), zap.Error(err))
		return "", fmt.Errorf("export: %w", err)
	}
	s.Emit(EventExported, path)
	return path, nil
}

// Writer returns the export writer.
func (s *Session) Writer() *export.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// SetWriter replaces the export writer. The filename extension follows its
// encoder.
func (s *Session) SetWriter(w *export.Writer) {
	if w == nil {
		return
	}
	s.mu.Lock()
	s.writer = w
	s.naming.Ext = w.Encoder().Ext()
	s.mu.Unlock()
	s.log.Info("export settings changed", zap.String("dir", w.Dir()))
}

// Close stops sticker loads still in flight.
func (s *Session) Close() {
	s.cache.Close()
}
