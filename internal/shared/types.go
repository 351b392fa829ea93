package shared

// asynq task types
const (
	TypeSendQueryEmail   = "email:service_query"
	TypeClearExpiredOTPs = "admin:clear_expired_otps"
)

// asynq queues
const (
	QueueDefault = "default"
	QueueEmail   = "email"
)
