package panels

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"

	"fyne.io/fyne/v2/test"
)

var (
	critical = asset.NewID(asset.SideFront, "critical")
	missing  = asset.NewID(asset.SideFront, "missing")
	pest     = asset.NewID(asset.SideBack, "pest")
)

func newSession(t *testing.T) *app.Session {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{
		"front/critical.png": {Data: buf.Bytes()},
		"back/pest.png":      {Data: buf.Bytes()},
	}
	s := app.NewSession(asset.NewCache(asset.NewFSSource(fsys)),
		app.WithCatalog(asset.SideFront, []asset.ID{critical, missing}),
		app.WithCatalog(asset.SideBack, []asset.ID{pest}))
	t.Cleanup(s.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Preload(ctx) // fails on the missing sticker
	for _, id := range []asset.ID{critical, missing, pest} {
		for s.Asset(id).State() == asset.StatePending {
			if ctx.Err() != nil {
				t.Fatalf("%v still loading", id)
			}
			time.Sleep(time.Millisecond)
		}
	}
	return s
}

func TestStickersPanelToggle(t *testing.T) {
	test.NewTempApp(t)
	s := newSession(t)
	var status []string
	p := NewStickersPanel(s, func(msg string) { status = append(status, msg) })
	s.On(app.EventStickersChanged, func(interface{}) { p.Sync() })

	if p.Len() != 2 {
		t.Fatalf("palette has %d buttons, want 2", p.Len())
	}

	test.Tap(p.buttons[critical])
	if len(status) != 1 {
		t.Fatalf("status = %v, want a hint to take a photo", status)
	}

	if err := s.SetBase(image.NewRGBA(image.Rect(0, 0, 400, 300))); err != nil {
		t.Fatal(err)
	}
	test.Tap(p.buttons[critical])
	if !p.Placed(critical) {
		t.Error("button not highlighted after placing")
	}
	test.Tap(p.buttons[critical])
	if p.Placed(critical) {
		t.Error("button still highlighted after removal")
	}

	if got := p.buttons[missing].Text; got != "Missing (unavailable)" {
		t.Errorf("missing sticker label = %q", got)
	}
}

func TestStickersPanelRebuildOnSide(t *testing.T) {
	test.NewTempApp(t)
	s := newSession(t)
	p := NewStickersPanel(s, nil)
	if err := s.SetSide(asset.SideBack); err != nil {
		t.Fatal(err)
	}
	p.Rebuild()
	if p.Len() != 1 || p.buttons[pest] == nil {
		t.Errorf("back palette = %v", p.buttons)
	}
}

func TestAssessmentPanel(t *testing.T) {
	test.NewTempApp(t)
	s := newSession(t)
	p := NewAssessmentPanel(s, nil)

	test.Type(p.id, "1234567")
	if p.id.Text != "123456" {
		t.Errorf("entry = %q, want truncated to six", p.id.Text)
	}
	if s.AssessmentID() != "123456" {
		t.Errorf("session id = %q", s.AssessmentID())
	}

	p.id.SetText("12a")
	if s.AssessmentID() != "" {
		t.Errorf("incomplete id reached the session: %q", s.AssessmentID())
	}
	if p.valid.Text == "" {
		t.Error("no validation hint for a bad id")
	}

	p.side.SetSelected(sideLabel(asset.SideBack))
	if s.Side() != asset.SideBack {
		t.Errorf("side = %v, want back", s.Side())
	}
	p.SyncSide(asset.SideFront)
	if s.Side() != asset.SideBack {
		t.Error("SyncSide fed back into the session")
	}
}
