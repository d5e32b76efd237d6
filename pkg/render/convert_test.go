package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/threadmap/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`

func TestConvert(t *testing.T) {
	ctx := context.Background()

	if !Available() {
		t.Run("Unavailable", func(t *testing.T) {
			_, err := ToPDF(ctx, []byte(tinySVG))
			if errors.GetCode(err) != errors.ErrCodeRendererUnavailable {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeRendererUnavailable)
			}
		})
		return
	}

	tests := []struct {
		name   string
		conv   func() ([]byte, error)
		prefix string
	}{
		{"PDF", func() ([]byte, error) { return ToPDF(ctx, []byte(tinySVG)) }, "%PDF"},
		{"PNG", func() ([]byte, error) { return ToPNG(ctx, []byte(tinySVG), 2) }, "\x89PNG"},
		{"PNGDefaultScale", func() ([]byte, error) { return ToPNG(ctx, []byte(tinySVG), 0) }, "\x89PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.conv()
			if err != nil {
				t.Fatalf("convert error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte(tt.prefix)) {
				t.Errorf("output starts with %q, want %q", out[:min(len(out), 8)], tt.prefix)
			}
		})
	}

	t.Run("BadInput", func(t *testing.T) {
		if _, err := ToPNG(ctx, []byte("not svg"), 1); err == nil {
			t.Error("garbage input converted")
		}
	})
}
