package common

const (
	RedisKeyLifecycleAlert = "token_sentry:lifecycle_alert:%s:%s"
	RedisKeyPublishWindow  = "token_sentry:publish_window"
)
