package http

import (
	"context"
	"io"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/auth"
	"github.com/GilbertoM0/front-pagina-tienda/internal/catalog"
	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/forecast"
	"github.com/GilbertoM0/front-pagina-tienda/internal/payment"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// sessionCtx injects a session id the way SessionMiddleware does.
func sessionCtx(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, "session_id", sessionID)
}

func urlParamCtx(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

type mockCartService struct {
	mu      sync.Mutex
	cart    *domain.Cart
	err     error
	cleared bool
}

func (m *mockCartService) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	return m.cart, nil
}

func (m *mockCartService) AddItem(_ context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{SessionID: sessionID}
	}
	m.cart.Items = append(m.cart.Items, domain.CartItem{ProductID: productID, Quantity: 1})
	return m.cart, nil
}

func (m *mockCartService) ChangeQuantity(_ context.Context, sessionID string, productID int64, delta int) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{SessionID: sessionID}
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity += delta
			if m.cart.Items[i].Quantity <= 0 {
				m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			}
			break
		}
	}
	return m.cart, nil
}

func (m *mockCartService) Clear(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	m.cart = nil
	return nil
}

type mockProducts struct {
	products []domain.Product
	err      error
}

func (m *mockProducts) List(_ context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProducts) Get(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

type mockAuthClient struct {
	loginResult *auth.LoginResult
	loginErr    error
	registerErr error
	forgotErr   error
	resetErr    error
	otpValid    bool
	otpErr      error
	resendErr   error
}

func (m *mockAuthClient) Login(_ context.Context, _, _ string) (*auth.LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *mockAuthClient) Register(_ context.Context, _ auth.RegisterRequest) error {
	return m.registerErr
}

func (m *mockAuthClient) Forgot(_ context.Context, _ string) error { return m.forgotErr }

func (m *mockAuthClient) Reset(_ context.Context, _, _, _ string) error { return m.resetErr }

func (m *mockAuthClient) VerifyOTP(_ context.Context, _ string) (bool, error) {
	return m.otpValid, m.otpErr
}

func (m *mockAuthClient) ResendOTP(_ context.Context) error { return m.resendErr }

type mockGateway struct {
	hosted         bool
	stripeKey      string
	clientSecret   string
	intentErr      error
	initPoint      string
	prefErr        error
	paypalCurrency string
}

func (m *mockGateway) HostedConfigured() bool { return m.hosted }

func (m *mockGateway) StripeKey() string { return m.stripeKey }

func (m *mockGateway) CreateIntent(_ context.Context, _ []payment.IntentItem, _ payment.BillingDetails) (string, error) {
	if m.intentErr != nil {
		return "", m.intentErr
	}
	return m.clientSecret, nil
}

func (m *mockGateway) CreateWalletPreference(_ context.Context, _ []payment.PreferenceItem) (string, error) {
	if m.prefErr != nil {
		return "", m.prefErr
	}
	return m.initPoint, nil
}

func (m *mockGateway) PayPalCheckoutURL(itemName string, amount float64, currency string) string {
	m.paypalCurrency = currency
	return "https://www.paypal.com/cgi-bin/webscr?item_name=" + itemName
}

type mockSubmitter struct {
	mu     sync.Mutex
	orders []*domain.Order
	tokens []string
}

func (m *mockSubmitter) SubmitOptimistic(_ context.Context, o *domain.Order, accessToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	m.tokens = append(m.tokens, accessToken)
}

type mockForecast struct {
	result  forecast.Result
	postErr error
	posted  []domain.ProductObservation
}

func (m *mockForecast) Fetch(_ context.Context) forecast.Result { return m.result }

func (m *mockForecast) PostObservation(_ context.Context, obs domain.ProductObservation) error {
	if m.postErr != nil {
		return m.postErr
	}
	m.posted = append(m.posted, obs)
	return nil
}
