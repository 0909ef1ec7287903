package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/GilbertoM0/front-pagina-tienda/internal/auth"
	"github.com/GilbertoM0/front-pagina-tienda/internal/cart"
	"github.com/GilbertoM0/front-pagina-tienda/internal/catalog"
	"github.com/GilbertoM0/front-pagina-tienda/internal/config"
	"github.com/GilbertoM0/front-pagina-tienda/internal/forecast"
	sf "github.com/GilbertoM0/front-pagina-tienda/internal/http"
	"github.com/GilbertoM0/front-pagina-tienda/internal/order"
	"github.com/GilbertoM0/front-pagina-tienda/internal/payment"
	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	relayClient := relay.New(relay.Options{
		RelayURL: cfg.RelayURL,
		UseRelay: cfg.UseRelay,
		Timeout:  cfg.RequestTimeout,
	})

	store, tokens, closeStores, err := buildStores(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize stores")
	}
	defer closeStores()

	catalogClient := catalog.NewClient(relayClient, cfg.CatalogURL)
	cartService := cart.NewService(store, catalogClient, log)
	submitter := order.NewSubmitter(relayClient, cfg.OrdersURL, log)
	authClient := auth.NewClient(relayClient, cfg.AuthBaseURL)
	forecastClient := forecast.NewClient(relayClient, cfg.ForecastURL, log)
	gateway := payment.NewGateway(payment.GatewayOptions{
		Relay:          relayClient,
		IntentURL:      cfg.PaymentIntentURL,
		PreferenceURL:  cfg.MercadoPrefURL,
		PayPalBusiness: cfg.PayPalBusinessEmail,
		PublicBaseURL:  cfg.PublicBaseURL,
		StripeKey:      cfg.StripePublicKey,
	})

	router := sf.NewRouter(sf.Handlers{
		Catalog:  sf.NewCatalogHandler(catalogClient, cfg.RequestTimeout, log),
		Cart:     sf.NewCartHandler(cartService, cfg.RequestTimeout),
		Checkout: sf.NewCheckoutHandler(cartService, submitter, gateway, tokens, cfg.RequestTimeout, log),
		Auth:     sf.NewAuthHandler(authClient, tokens, cfg.RequestTimeout, log),
		Forecast: sf.NewForecastHandler(forecastClient, cfg.RequestTimeout),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// buildStores picks the snapshot and token backends from configuration.
// Redis backs both when selected; mongo backs carts with tokens kept in
// memory.
func buildStores(cfg *config.Config, log logrus.FieldLogger) (cart.SnapshotStore, auth.TokenStore, func(), error) {
	switch cfg.CartStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("using redis cart store")
		return cart.NewRedisStore(client), auth.NewRedisTokenStore(client), func() { client.Close() }, nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, nil, err
		}
		store := cart.NewMongoStore(db)
		if err := store.CreateIndexes(ctx); err != nil {
			return nil, nil, nil, err
		}
		log.WithField("database", cfg.MongoDBName).Info("using mongo cart store")
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(ctx)
		}
		return store, auth.NewMemoryTokenStore(), closer, nil

	default:
		log.Info("using in-memory cart store")
		return cart.NewMemoryStore(), auth.NewMemoryTokenStore(), func() {}, nil
	}
}
