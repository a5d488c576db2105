package contracts

import (
	"clinic-portal-service/internal/app/models"
	"context"
)

type DocumentRenderer interface {
	// RenderHTML executes the named clinical-form template.
	RenderHTML(template string, data interface{}) (string, error)
	// RenderPDF prints html to a PDF document.
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	HasTemplate(template string) bool
}

type DocumentQueue interface {
	PublishRenderJob(ctx context.Context, job models.DocumentRenderJob) error
}
