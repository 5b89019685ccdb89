// Command relay-thermostat samples ambient temperature, drives a relay from a
// critical threshold, and serves an HTTP page for status and manual override.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/relay-thermostat/internal/control"
	"github.com/sweeney/relay-thermostat/internal/mqtt"
	"github.com/sweeney/relay-thermostat/internal/relay"
	"github.com/sweeney/relay-thermostat/internal/sensor"
	"github.com/sweeney/relay-thermostat/internal/web"
)

func main() {
	poll := flag.Duration("poll", 2*time.Second, "Temperature sampling interval")
	critical := flag.Float64("critical", control.DefaultCritical, "Critical temperature in °C (relay on below it in automatic mode)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable MQTT)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	sensorPath := flag.String("sensor", "", "Path to the DS18B20 w1_slave file (empty to auto-discover)")
	relayPin := flag.Int("relay-pin", relay.DefaultPin, "BCM pin number for the relay")
	refresh := flag.Int("refresh", 10, "Status page auto-refresh interval in seconds")
	httpAddr := flag.String("http", ":8080", "HTTP address (empty to disable)")
	printTemp := flag.Bool("print-temp", false, "Print current temperature and exit")

	flag.Parse()

	if err := run(*poll, *critical, *broker, *heartbeat, *sensorPath, *relayPin, *refresh, *httpAddr, *printTemp); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, critical float64, broker string, heartbeat time.Duration, sensorPath string, relayPin, refresh int, httpAddr string, printTemp bool) error {
	// Initialize sensor
	reader, err := sensor.NewW1Reader(sensorPath)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	// Print temperature mode
	if printTemp {
		temp, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("%.3f°C\n", temp)
		return nil
	}

	// Initialize relay
	driver, err := relay.NewRealDriver(relayPin)
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	defer driver.Close()

	// Initialize MQTT. The initial connect blocks and retries until the
	// broker is reachable — the daemon does not serve before then, the same
	// way the device waited for network association.
	var publisher mqtt.Publisher = mqtt.NewNopPublisher()
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		real, err := mqtt.NewRealPublisher(broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = real
		mqttStatus = real
	}
	defer publisher.Close()

	startTime := time.Now()
	ctrl := control.New(reader, driver, critical, startTime, control.Config{
		PollMs:         poll.Milliseconds(),
		HeartbeatMs:    heartbeat.Milliseconds(),
		RefreshSeconds: refresh,
		Broker:         broker,
		HTTPAddr:       httpAddr,
		SensorPath:     sensorPath,
		RelayPin:       relayPin,
	})
	if mqttStatus != nil {
		ctrl.SetMQTTConnected(mqttStatus.IsConnected())
	}

	// Publish startup event
	startupEvent := mqtt.SystemEvent{
		Timestamp: startTime,
		Event:     "STARTUP",
		Retained:  true,
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP control surface
	if httpAddr != "" {
		srv := web.New(httpAddr, ctrl, publisher)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http control surface listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v critical=%.1f broker=%s heartbeat=%v relay-pin=%d", poll, critical, broker, heartbeat, relayPin)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, publisher, mqttStatus, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(ctrl *control.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			events := ctrl.Tick(t)

			for _, event := range events {
				log.Printf("event: %s (temp=%.1f relay=%v)", event.Type, event.Temperature, event.Relay)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v relay_on=%d relay_off=%d mode_changes=%d sensor_errors=%d",
					hbData.Uptime, hbData.Counts.RelayOn, hbData.Counts.RelayOff, hbData.Counts.ModeChanges, hbData.Counts.SensorErrors)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if mqttStatus != nil {
				ctrl.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}
