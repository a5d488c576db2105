package pdf

import (
	"bytes"
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var knownTemplates = map[string]struct{}{
	constvars.DocumentTemplateIntake:            {},
	constvars.DocumentTemplateProgressNote:      {},
	constvars.DocumentTemplateAssessmentSummary: {},
}

type chromeRenderer struct {
	allocCtx  context.Context
	timeout   time.Duration
	templates *template.Template
	log       *zap.Logger
	metrics   *metrics.DocumentMetrics
}

// NewChromeRenderer renders through browser tabs opened on allocCtx, an allocator from
// drivers/browser.
func NewChromeRenderer(allocCtx context.Context, timeout time.Duration, log *zap.Logger, m *metrics.DocumentMetrics) (contracts.DocumentRenderer, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &chromeRenderer{
		allocCtx:  allocCtx,
		timeout:   timeout,
		templates: tmpl,
		log:       log,
		metrics:   m,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	return template.New("documents").ParseFS(templateFS, "templates/*.html")
}

func (r *chromeRenderer) HasTemplate(name string) bool {
	_, ok := knownTemplates[name]
	return ok
}

func (r *chromeRenderer) RenderHTML(name string, data interface{}) (string, error) {
	if !r.HasTemplate(name) {
		return "", exceptions.ErrUnknownDocumentTemplate(fmt.Errorf("template %q is not registered", name), name)
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", exceptions.ErrRenderDocument(err, name)
	}
	return buf.String(), nil
}

func (r *chromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	start := time.Now()

	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	// stop the tab when the caller goes away
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		r.metrics.ObserveRender("pdf", "error", time.Since(start).Seconds())
		r.log.Error("chromeRenderer.RenderPDF failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, exceptions.ErrRenderDocument(err, "pdf")
	}

	r.metrics.ObserveRender("pdf", "ok", time.Since(start).Seconds())
	r.log.Info("chromeRenderer.RenderPDF succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("size", len(pdf)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return pdf, nil
}
