package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Table names
	TableAssignments         = "assignments"
	TableStaffProfiles       = "staff_profiles"
	TableEscalationEvents    = "escalation_events"
	TableSLAConfigs          = "sla_configs"
	TableAuditEntries        = "audit_entries"
	TableNotificationIntents = "notification_intents"

	// Redis
	NotificationChannel  = "triage:notifications"
	RateLimitKeyPrefix   = "triage:ratelimit:"
	MinOverrideReasonLen = 10
)
