package mqtt

import "strings"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "staffgate"

// Topics builds staffgate topic names under a common prefix.
//
//	topics := mqtt.NewTopics("staffgate")
//	topics.AccountRegistered() // "staffgate/events/account/registered"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Surrounding slashes
// are trimmed.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	return t.prefix
}

// SystemStatus carries the retained online/offline status.
func (t Topics) SystemStatus() string {
	return t.prefix + "/system/status"
}

// AccountRegistered carries one message per new account.
func (t Topics) AccountRegistered() string {
	return t.prefix + "/events/account/registered"
}

// ProfileSaved carries one message per profile create or update.
func (t Topics) ProfileSaved() string {
	return t.prefix + "/events/profile/saved"
}

// AllEvents matches every event topic.
func (t Topics) AllEvents() string {
	return t.prefix + "/events/#"
}
