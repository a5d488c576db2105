package constvars

const (
	DocumentTemplateIntake            = "intake"
	DocumentTemplateProgressNote      = "progress_note"
	DocumentTemplateAssessmentSummary = "assessment_summary"
)

const (
	DocumentStatusReady   = "ready"
	DocumentStatusPending = "pending"
	DocumentStatusFailed  = "failed"
)

const (
	DocumentRenderLimiterGroup = "document-render"
	DocumentQueueName          = "document_render_queue"
	DocumentDeadLetterQueue    = "document_render_dlq"
)
