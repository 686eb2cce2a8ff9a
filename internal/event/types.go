package event

// ConfigChangedData is the data for config.changed events.
// Values are carried as strings, matching the host's key-value store.
type ConfigChangedData struct {
	Group    string `json:"group"`
	Key      string `json:"key"`
	NewValue string `json:"newValue"`
}

// ServerListeningData is the data for server.listening events.
type ServerListeningData struct {
	ListenerID string `json:"listenerID"`
	URL        string `json:"url"`
}

// ServerStoppedData is the data for server.stopped events.
type ServerStoppedData struct {
	ListenerID string `json:"listenerID"`
}
