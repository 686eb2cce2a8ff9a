/*
Package event provides the in-process pub/sub bus that connects the
configuration store, the plugin and the status server.

Subscribers are plain functions keyed by EventType:

	unsubscribe := bus.Subscribe(event.ConfigChanged, func(e event.Event) {
		data := e.Data.(event.ConfigChangedData)
		p.OnConfigChanged(data.Group, data.Key, data.NewValue)
	})
	defer unsubscribe()

PublishSync calls subscribers in the publisher's goroutine, so subscribers
must not publish re-entrantly or take locks the publisher holds. Publish
fans out on one goroutine per subscriber.

Every published event is mirrored onto a watermill gochannel topic named
after its type. Stream returns the message channel for one topic:

	msgs, err := bus.Stream(ctx, event.ServerListening)
	for msg := range msgs {
		e, _ := event.Decode(msg)
		msg.Ack()
	}
*/
package event
