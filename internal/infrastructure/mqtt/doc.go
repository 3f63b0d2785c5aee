// Package mqtt provides a publish-only MQTT client for staffgate's
// domain events.
//
// It wraps eclipse/paho.mqtt.golang with connection management,
// auto-reconnect with backoff, and a retained online/offline status topic
// backed by a Last Will and Testament.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(client.Topics().AccountRegistered(), payload, 1, false)
//
// All methods are safe for concurrent use.
package mqtt
