package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusgate/internal/attendance"
	"campusgate/internal/config"
	"campusgate/internal/queue"
	"campusgate/internal/smsgw"
	"campusgate/internal/store"
)

// Worker consumes scan events from the queue and sends parent SMS
// notifications for campus entries.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campusgate:scans")
	}

	sms := smsgw.New(cfg.SMSGatewayURL, cfg.SMSSkip)

	// Check gateway health on startup
	if !cfg.SMSSkip {
		if err := sms.Health(ctx); err != nil {
			log.Printf("WARNING: SMS gateway not available: %v", err)
			log.Println("Worker will retry sends as events arrive")
		} else {
			log.Println("SMS gateway connected")
		}
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for scan events...")
	for msg := range messages {
		if msg.Type != "scan" {
			continue
		}

		var evt attendance.ScanEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("bad scan event payload: %v", err)
			continue
		}

		if evt.Type != attendance.TypeEntry {
			continue
		}
		if evt.Role != "student" {
			continue
		}
		if evt.ParentMobile == "" || evt.ParentMobile == "N/A" {
			log.Printf("scan %s: no parent number on file, skipping", evt.LogID)
			continue
		}

		text := fmt.Sprintf("SFM: %s entered campus.", evt.Name)
		result, err := sms.Send(ctx, evt.ParentMobile, text)
		if err != nil {
			log.Printf("sms send failed for scan %s: %v", evt.LogID, err)
			continue
		}
		log.Printf("scan %s: parent notified (message %s)", evt.LogID, result.MessageID)
	}

	log.Println("worker stopped")
}
