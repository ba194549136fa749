package redis

// Key prefix for primary entity storage.
const prefixWebhook = "lmsflow:wh:"

// Sorted set of all webhook IDs scored by creation time.
const zWebhookAll = "lmsflow:z:wh:all"

// Key prefixes for set indexes.
const (
	sWebhookEnabledType = "lmsflow:s:wh:type:" // + event type, enabled IDs only
	sWebhookURL         = "lmsflow:s:wh:url:"  // + destination URL, all IDs
)

// entityKey returns the primary key for a webhook.
func entityKey(id string) string {
	return prefixWebhook + id
}

// enabledTypeKey returns the set key holding enabled webhook IDs for an
// event type.
func enabledTypeKey(eventType string) string {
	return sWebhookEnabledType + eventType
}

// urlKey returns the set key holding all webhook IDs registered for a URL.
func urlKey(url string) string {
	return sWebhookURL + url
}
