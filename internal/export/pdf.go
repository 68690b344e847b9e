package export

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultPrintTimeout bounds a single headless print run.
const DefaultPrintTimeout = 30 * time.Second

// PDFContentType is the MIME type of the print artifact.
const PDFContentType = "application/pdf"

// PDFPrinter produces PDF exports by loading the rendered page in a
// headless browser and printing it. Requires Chrome/Chromium on the host.
type PDFPrinter struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewPDFPrinter creates a printer with the default timeout.
func NewPDFPrinter(log *zap.Logger) *PDFPrinter {
	return &PDFPrinter{timeout: DefaultPrintTimeout, log: log}
}

// Print renders the full HTML page and returns it printed to PDF as an
// A4 portrait document with backgrounds, mirroring what the in-browser
// print dialog would produce.
func (p *PDFPrinter) Print(ctx context.Context, pageHTML, fullName string) (*Artifact, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, pageHTML).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &ExportError{Message: "headless print failed", Cause: err}
	}

	p.log.Info("printed resume to PDF",
		zap.Int("bytes", len(pdf)),
		zap.Duration("took", time.Since(start)))

	return &Artifact{
		Filename:    DocumentFilename(fullName, ".pdf"),
		ContentType: PDFContentType,
		Data:        pdf,
	}, nil
}
