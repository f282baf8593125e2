package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"front/critical.png": {Data: solidPNG(t, 200, 100, color.RGBA{255, 0, 0, 255})},
		"back/critical.png":  {Data: solidPNG(t, 40, 80, color.RGBA{0, 0, 255, 255})},
		"front/minor.png":    {Data: solidPNG(t, 10, 10, color.RGBA{0, 255, 0, 255})},
		"front/broken.png":   {Data: []byte("not a png")},
	}
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCacheNamespacesDoNotCollide(t *testing.T) {
	c := NewCache(NewFSSource(testFS(t)))
	defer c.Close()
	ctx := waitCtx(t)

	front, err := c.Wait(ctx, NewID(SideFront, "critical"))
	if err != nil {
		t.Fatalf("front: %v", err)
	}
	back, err := c.Wait(ctx, NewID(SideBack, "critical"))
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if front.Width() != 200 || front.Height() != 100 {
		t.Errorf("front size = %dx%d, want 200x100", front.Width(), front.Height())
	}
	if back.Width() != 40 || back.Height() != 80 {
		t.Errorf("back size = %dx%d, want 40x80", back.Width(), back.Height())
	}
	if front.Aspect() != 2 {
		t.Errorf("front aspect = %v, want 2", front.Aspect())
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheGetReturnsPendingThenReady(t *testing.T) {
	release := make(chan struct{})
	src := SourceFunc(func(ctx context.Context, id ID) (image.Image, error) {
		<-release
		return image.NewRGBA(image.Rect(0, 0, 4, 2)), nil
	})
	c := NewCache(src)
	defer c.Close()
	id := NewID(SideFront, "major")

	if a := c.Get(id); a.State() != StatePending {
		t.Fatalf("first Get state = %v, want Pending", a.State())
	}
	if _, err := c.Resolve(id); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Resolve err = %v, want ErrNotReady", err)
	}

	close(release)
	a, err := c.Wait(waitCtx(t), id)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !a.Ready() || a.Width() != 4 {
		t.Errorf("asset = %+v, want ready 4px wide", a)
	}
	if c.Get(id) != a {
		t.Error("Get after load should return the memoized asset")
	}
}

func TestCacheFailedLoad(t *testing.T) {
	c := NewCache(NewFSSource(testFS(t)))
	defer c.Close()
	ctx := waitCtx(t)

	tests := []struct {
		code   string
		notExt bool
	}{
		{"broken", false},
		{"missing", true},
	}
	for _, tt := range tests {
		id := NewID(SideFront, tt.code)
		_, err := c.Wait(ctx, id)
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("%s: err = %v, want *LoadError", tt.code, err)
		}
		if le.ID != id {
			t.Errorf("%s: LoadError.ID = %v", tt.code, le.ID)
		}
		if got := errors.Is(err, fs.ErrNotExist); got != tt.notExt {
			t.Errorf("%s: errors.Is(ErrNotExist) = %v, want %v", tt.code, got, tt.notExt)
		}
		if c.Get(id).State() != StateFailed {
			t.Errorf("%s: state = %v, want Failed", tt.code, c.Get(id).State())
		}
	}
}

func TestCacheRetryAndListeners(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	src := SourceFunc(func(ctx context.Context, id ID) (image.Image, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("offline")
		}
		return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
	})
	c := NewCache(src)
	defer c.Close()

	loaded := make(chan error, 4)
	c.OnLoaded(func(id ID, err error) { loaded <- err })

	id := NewID(SideBack, "pest")
	ctx := waitCtx(t)
	if _, err := c.Wait(ctx, id); err == nil {
		t.Fatal("expected first load to fail")
	}
	if err := <-loaded; err == nil {
		t.Error("listener should see the failure")
	}

	fail.Store(false)
	c.Retry(id)
	if _, err := c.Wait(ctx, id); err != nil {
		t.Fatalf("after retry: %v", err)
	}
	if err := <-loaded; err != nil {
		t.Errorf("listener after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("source calls = %d, want 2", calls.Load())
	}

	c.Retry(id)
	if calls.Load() != 2 {
		t.Error("Retry on a ready asset must not reload")
	}
}

func TestCachePreload(t *testing.T) {
	c := NewCache(NewFSSource(testFS(t)))
	defer c.Close()
	ctx := waitCtx(t)

	if err := c.Preload(ctx, NewID(SideFront, "critical"), NewID(SideFront, "minor")); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	err := c.Preload(ctx, NewID(SideFront, "critical"), NewID(SideFront, "broken"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Errorf("Preload err = %v, want *LoadError", err)
	}
}

func TestFSSourceCatalog(t *testing.T) {
	src := NewFSSource(testFS(t))
	codes, err := src.Catalog(SideFront)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"critical": true, "minor": true, "broken": true}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v", codes)
	}
	for _, c := range codes {
		if !want[c] {
			t.Errorf("unexpected code %q", c)
		}
	}
}

func TestFSSourceUppercaseExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"front/critical.PNG": {Data: solidPNG(t, 20, 10, color.RGBA{255, 0, 0, 255})},
		"front/critical.JPG": {Data: []byte("shadowed by the png")},
	}
	src := NewFSSource(fsys)
	codes, err := src.Catalog(SideFront)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 1 || codes[0] != "critical" {
		t.Fatalf("codes = %v, want [critical]", codes)
	}

	c := NewCache(src)
	defer c.Close()
	a, err := c.Wait(waitCtx(t), NewID(SideFront, codes[0]))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if a.Width() != 20 || a.Height() != 10 {
		t.Errorf("size = %dx%d, want 20x10", a.Width(), a.Height())
	}

	_, err = c.Wait(waitCtx(t), NewID(SideBack, "critical"))
	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing side err = %v, want *LoadError wrapping fs.ErrNotExist", err)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("back/critical")
	if err != nil {
		t.Fatal(err)
	}
	if id != NewID(SideBack, "critical") || id.String() != "back/critical" {
		t.Errorf("ParseID = %+v", id)
	}
	for _, bad := range []string{"critical", "left/critical", "front/"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
	if s, _ := ParseSide("BOH"); s != SideBack || s.Code() != "BOH" {
		t.Errorf("ParseSide(BOH) = %v", s)
	}
}

func TestCacheRetryFailed(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	src := SourceFunc(func(ctx context.Context, id ID) (image.Image, error) {
		if fail.Load() {
			return nil, errors.New("missing")
		}
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	})
	c := NewCache(src)
	defer c.Close()
	ctx := waitCtx(t)

	a, b := NewID(SideFront, "major"), NewID(SideBack, "major")
	for _, id := range []ID{a, b} {
		if _, err := c.Wait(ctx, id); err == nil {
			t.Fatalf("%v: expected failure", id)
		}
	}

	fail.Store(false)
	if n := c.RetryFailed(); n != 2 {
		t.Errorf("RetryFailed = %d, want 2", n)
	}
	if err := c.Preload(ctx, a, b); err != nil {
		t.Fatalf("after RetryFailed: %v", err)
	}
	if n := c.RetryFailed(); n != 0 {
		t.Errorf("second RetryFailed = %d, want 0", n)
	}
}
