package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment. Defaults point at the public
// Coffeu deployments so the service runs without any configuration.
type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	CatalogURL  string `envconfig:"CATALOG_URL" default:"https://coffeu-16727117187.europe-west1.run.app/products/"`
	OrdersURL   string `envconfig:"ORDERS_URL" default:"https://coffeu-16727117187.europe-west1.run.app/orders/"`
	AuthBaseURL string `envconfig:"AUTH_BASE_URL" default:"https://coffeu-16727117187.europe-west1.run.app/accounts"`
	ForecastURL string `envconfig:"FORECAST_URL" default:"https://coffeuia-16727117187.northamerica-south1.run.app/api/prediccion-ventas/"`

	// Relay is the public CORS relay prefix; targets are appended
	// URL-escaped. UseRelay applies it to reads (catalog, forecast);
	// order submission always goes direct first.
	RelayURL string `envconfig:"RELAY_URL" default:"https://corsproxy.io/?"`
	UseRelay bool   `envconfig:"USE_RELAY" default:"true"`

	// CartStore selects the snapshot store backend: memory, redis or mongo.
	CartStore     string `envconfig:"CART_STORE" default:"memory"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName   string `envconfig:"MONGO_DB_NAME" default:"storefront"`

	// Payment gateway wiring. An empty or placeholder StripePublicKey
	// leaves card payments in the manual-entry fallback mode.
	StripePublicKey     string `envconfig:"STRIPE_PUBLIC_KEY" default:""`
	PaymentIntentURL    string `envconfig:"PAYMENT_INTENT_URL" default:"https://coffeu-16727117187.europe-west1.run.app/create-payment-intent/"`
	MercadoPrefURL      string `envconfig:"MERCADOPAGO_PREFERENCE_URL" default:"https://coffeu-16727117187.europe-west1.run.app/create-mercadopago-preference/"`
	PayPalBusinessEmail string `envconfig:"PAYPAL_BUSINESS_EMAIL" default:"pagos@coffeu.example"`
	PublicBaseURL       string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("storefront", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
