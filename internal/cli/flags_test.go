package cli

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	mandel "github.com/marben/mandelzoom"
)

func parse(t *testing.T, args ...string) *ViewFlags {
	t.Helper()
	f := DefaultViewFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return f
}

func TestViewFlagsDefaults(t *testing.T) {
	f := parse(t)
	vp, err := f.Viewport()
	if err != nil {
		t.Fatal(err)
	}
	if w, h := vp.ReferenceExtent(); w != 900 || h != 900 {
		t.Errorf("reference extent = %dx%d", w, h)
	}
	if vp.Region() != mandel.DefaultRegion {
		t.Errorf("region = %v", vp.Region())
	}
	if _, err := f.Renderer(); err != nil {
		t.Error(err)
	}
}

func TestViewFlagsParsed(t *testing.T) {
	f := parse(t, "--ref-width=400", "--ref-height=300", "--region=seahorse", "--palette=hue", "--max-zoom=4", "-v")
	vp, err := f.Viewport()
	if err != nil {
		t.Fatal(err)
	}
	if w, h := vp.ReferenceExtent(); w != 400 || h != 300 {
		t.Errorf("reference extent = %dx%d", w, h)
	}
	if vp.Region() != mandel.SeahorseValley {
		t.Errorf("region = %v", vp.Region())
	}
	if !f.Verbose {
		t.Error("verbose not set")
	}
}

func TestViewFlagsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero reference", []string{"--ref-width=0"}},
		{"zero max zoom", []string{"--max-zoom=0"}},
		{"negative workers", []string{"--workers=-2"}},
		{"unknown region", []string{"--region=mordor"}},
		{"unknown palette", []string{"--palette=sepia"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := parse(t, tt.args...).Validate(); err == nil {
				t.Errorf("Validate() accepted %v", tt.args)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { mandel.SetLogger(nil) })

	var buf bytes.Buffer
	parse(t).SetupLogging(&buf)
	if err := mandel.NewViewport().ZoomIn(image.Pt(450, 450)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet flags logged %q", buf.String())
	}

	parse(t, "--verbose").SetupLogging(&buf)
	if err := mandel.NewViewport().ZoomIn(image.Pt(450, 450)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "zoom in") {
		t.Errorf("verbose log = %q, want a zoom in record", buf.String())
	}
}
