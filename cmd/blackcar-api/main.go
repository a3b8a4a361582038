// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blackcar/internal/ai"
	"blackcar/internal/config"
	httptransport "blackcar/internal/http"
	"blackcar/internal/infra"
	"blackcar/internal/maps"
	"blackcar/internal/modules/notify"
	"blackcar/internal/modules/pricing"
	"blackcar/internal/modules/quote"
	"blackcar/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	} else {
		log.Print("BLACKCAR_FIREBASE_PROJECT_ID not set; admin routes are open (dev mode)")
	}

	if cfg.Maps.APIKey == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	routeService, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	placesService, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("places init: %v", err)
	}

	rateStore := pricing.NewStore(dbPool, redisClient, cfg.RateBook.CacheTTL)
	pricingSvc := pricing.NewService(rateStore)

	notifySvc := notify.NewService(notify.LogSender{}, notify.LogSender{})

	quoteStore := quote.NewStore(dbPool, redisClient)
	quoteSvc := quote.NewService(quoteStore, pricingSvc, routeService, notifySvc)

	var assistant *service.QuoteAssistant
	if cfg.AI.GeminiKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer provider.Close()
		assistant, err = service.NewQuoteAssistant(provider, routeService, placesService, rateStore)
		if err != nil {
			log.Fatalf("assistant init: %v", err)
		}
	} else {
		log.Print("GEMINI_API_KEY not set; assistant endpoint disabled")
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Quotes:    quoteSvc,
		Pricing:   pricingSvc,
		RateBook:  rateStore,
		Assistant: assistant,
		Verifier:  verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
