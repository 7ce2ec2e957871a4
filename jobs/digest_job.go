package jobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/ripetizioniapp/booking_engine/configs"
	"github.com/ripetizioniapp/booking_engine/database"
	"github.com/ripetizioniapp/booking_engine/notifications"
	"github.com/ripetizioniapp/booking_engine/services"
)

// SendDailyDigest builds today's booking sheet and mails it to the
// staff recipients. It never mutates ledger state; a failed send is
// reported to the caller and retried only by re-triggering.
func SendDailyDigest() error {
	log.Println("Running job: SendDailyDigest...")

	digest, err := services.BuildDailyDigest(database.DB, time.Now())
	if err != nil {
		log.Printf("Error building daily digest: %v", err)
		return err
	}

	recipients := strings.Split(config.Config("DIGEST_RECIPIENTS"), ",")
	if len(recipients) == 1 && strings.TrimSpace(recipients[0]) == "" {
		log.Println("No digest recipients configured, skipping send.")
		return nil
	}

	subject := fmt.Sprintf("Chiamate del %s (%d)", digest.Date.Format("02/01/2006"), len(digest.Bookings))
	if err := notifications.SendDigest(recipients, subject, digest.RenderDigestHTML()); err != nil {
		log.Printf("Error sending daily digest: %v", err)
		return err
	}

	log.Printf("✅ Daily digest sent: %d booking(s).", len(digest.Bookings))
	return nil
}

// RunDailyDigest is the cron entry point; errors are logged, the next
// midnight run is the retry.
func RunDailyDigest() {
	if err := SendDailyDigest(); err != nil {
		log.Printf("🔥 Daily digest failed: %v", err)
	}
}
