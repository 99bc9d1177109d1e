package report

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar draws one progress bar per stage, advancing per committed batch.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) RunStarted(string, int) {}

func (b *Bar) StageStarted(stage string, batches int) {
	b.bar = progressbar.NewOptions(max(batches, 1),
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(stage),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (b *Bar) BatchCommitted(string, int) {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar) StageFinished(StageResult) {
	if b.bar != nil {
		_ = b.bar.Finish()
		_, _ = io.WriteString(b.w, "\n")
		b.bar = nil
	}
}

func (b *Bar) RunFinished(Summary) {}
