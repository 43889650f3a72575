package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"housing-agent/config"
	"housing-agent/delivery"
	"housing-agent/digest"
	"housing-agent/models"
	"housing-agent/services"
	"housing-agent/utils"
)

type staticCollector struct {
	listings []models.RawListing
}

func (staticCollector) Source() models.Source { return models.SourceOLX }

func (c staticCollector) Collect(ctx context.Context) ([]models.RawListing, error) {
	return c.listings, nil
}

func TestScheduledRunsShareMemorySeenSet(t *testing.T) {
	logger := utils.NewLoggerTo(io.Discard, io.Discard)
	store, err := openStore(&config.Config{StoreBackend: "memory"}, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var out bytes.Buffer
	pipeline := services.NewPipeline(services.PipelineConfig{
		Collectors: []services.Collector{staticCollector{listings: []models.RawListing{{
			Source: models.SourceOLX,
			Title:  "Apartament 3 camere Titan",
			Price:  "€280,000",
			URL:    "https://www.olx.ro/d/oferta/apartament-3-camere-titan-IDx1.html",
			Area:   "Titan",
			Size:   "95 m²",
			Rooms:  "3 camere",
		}}}},
		Store:            store,
		Summarizer:       digest.Plain{},
		Deliverer:        delivery.NewWriter(&out),
		Criteria:         config.DefaultCriteria(),
		DeliveryAttempts: 1,
	}, logger)

	for tick := 0; tick < 3; tick++ {
		if code := runOnce(context.Background(), pipeline, "", logger); code != 0 {
			t.Fatalf("tick %d exit code = %d", tick, code)
		}
	}

	if n := strings.Count(out.String(), "Subject: "); n != 1 {
		t.Errorf("digests delivered = %d; want 1 across scheduled runs", n)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d; want 1", store.Len())
	}
}
