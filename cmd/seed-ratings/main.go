// cmd/seed-ratings/main.go
// One-shot initializer that seeds brand-new fighters' ratings from the
// legacy 200-point belt ladder, before they have fought their first match.
// The replay engine never uses this ladder; see ratingkernel.LegacyLadder.

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tournament-engine/internal/config"
	"tournament-engine/internal/database"
	"tournament-engine/internal/models"
	"tournament-engine/internal/ratingkernel"
	"tournament-engine/internal/store/mysqlstore"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "list fighters that would be seeded without writing")
	flag.Parse()

	logger := log.New(os.Stdout, "[seed-ratings] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatalf("failed to initialize databases: %v", err)
	}
	defer db.Close()

	st := mysqlstore.New(db.MySQL)

	fighters, err := st.ListAllFighters(ctx)
	if err != nil {
		logger.Fatalf("failed to list fighters: %v", err)
	}

	seeded := 0
	for _, f := range fighters {
		if f.OverallRating != 0 {
			continue
		}

		baseline := ratingkernel.LegacyLadder[f.Belt]
		if baseline == 0 {
			baseline = ratingkernel.LegacyLadder[models.BeltBlue]
		}

		logger.Printf("seeding fighter %d (%s, belt=%s) to %.0f", f.ID, f.DisplayName, f.Belt, baseline)
		if *dryRun {
			seeded++
			continue
		}

		f.OverallRating = baseline
		f.OverallInitialRating = baseline
		f.ClassRatings.ResetBaseline(models.TrackLightweight, baseline)
		f.ClassRatings.ResetBaseline(models.TrackMiddleweight, baseline)
		f.ClassRatings.ResetBaseline(models.TrackHeavyweight, baseline)

		if err := st.UpdateFighter(ctx, f); err != nil {
			logger.Fatalf("failed to seed fighter %d: %v", f.ID, err)
		}
		seeded++
	}

	logger.Printf("done: %d fighter(s) seeded", seeded)
}
