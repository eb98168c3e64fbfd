package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xrendezvous/ConnectiveApp/server/logger"
	"github.com/xrendezvous/ConnectiveApp/shared"
	"go.uber.org/zap"
)

const (
	DEFAULT_CITY        = "Kyiv"
	RATES_DATE_LAYOUT   = "02.01.2006"
	WEATHER_CACHE_TTL   = 10 * time.Minute
	RATES_CACHE_TTL     = time.Hour
	CACHE_KEY_PREFIX    = "connective:widget"
	HTTP_CLIENT_TIMEOUT = 10 * time.Second
)

var (
	ErrWeatherUnavailable = errors.New("weather is unavailable")

	// Only these currencies are shown
	widgetCurrencies = map[string]bool{"USD": true, "EUR": true}
)

type Endpoints struct {
	PublicIP      string
	Geolocation   string
	Weather       string
	ExchangeRates string
}

var DefaultEndpoints = Endpoints{
	PublicIP:      "https://api.ipify.org?format=json",
	Geolocation:   "https://ipgeolocation.abstractapi.com/v1/",
	Weather:       "https://api.openweathermap.org/data/2.5/weather",
	ExchangeRates: "https://api.privatbank.ua/p24api/exchange_rates",
}

type Weather struct {
	City           string  `json:"city"`
	Temperature    float64 `json:"temperature"`
	Description    string  `json:"description"`
	Icon           string  `json:"icon"`
	TemperatureMax float64 `json:"temperature_max"`
	TemperatureMin float64 `json:"temperature_min"`
	FeelsLike      float64 `json:"feelslike_weather"`
}

type Rate struct {
	Sale     float64 `json:"sale"`
	Purchase float64 `json:"purchase"`
}

type Widget struct {
	Weather Weather `json:"weather"`
	// Exchange rates by date (DD.MM.YYYY) then currency
	ExchangeRates map[string]map[string]Rate `json:"exchange_rates"`
}

type Service struct {
	config     shared.WidgetConfig
	endpoints  Endpoints
	httpClient *http.Client
	cache      *redis.Client
	logg       *zap.SugaredLogger
}

type Option func(*Service)

func WithEndpoints(endpoints Endpoints) Option {
	return func(s *Service) { s.endpoints = endpoints }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

// NewService returns a widget service. cache may be nil, in which case every
// call goes upstream.
func NewService(config shared.WidgetConfig, cache *redis.Client, opts ...Option) *Service {
	s := &Service{
		config:     config,
		endpoints:  DefaultEndpoints,
		httpClient: &http.Client{Timeout: HTTP_CLIENT_TIMEOUT},
		cache:      cache,
		logg:       logger.NewLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if strings.TrimSpace(s.config.DefaultCity) == "" {
		s.config.DefaultCity = DEFAULT_CITY
	}

	return s
}

// Fetch returns the weather for the caller's city & today's USD/EUR exchange
// rates. A failure to get rates only leaves them empty.
func (s *Service) Fetch(ctx context.Context, today time.Time) (*Widget, error) {
	city := s.locateCity(ctx)

	weather, err := s.weather(ctx, city)
	if err != nil {
		return nil, err
	}

	rates, err := s.exchangeRates(ctx, today)
	if err != nil {
		s.logg.Errorf("exchange rates: %v", err)
		rates = map[string]map[string]Rate{}
	}

	return &Widget{Weather: *weather, ExchangeRates: rates}, nil
}

// locateCity finds the city of the server's public IP, falling back to the
// configured default city on any failure
func (s *Service) locateCity(ctx context.Context) string {
	if s.config.GeolocationAPIKey == "" {
		return s.config.DefaultCity
	}

	ip := struct {
		IP string `json:"ip"`
	}{}
	err := s.getJSON(ctx, s.endpoints.PublicIP, &ip)
	if err != nil || ip.IP == "" {
		s.logWarn("public ip", err)
		return s.config.DefaultCity
	}

	query := url.Values{}
	query.Set("api_key", s.config.GeolocationAPIKey)
	query.Set("ip_address", ip.IP)

	location := struct {
		City string `json:"city"`
	}{}
	err = s.getJSON(ctx, s.endpoints.Geolocation+"?"+query.Encode(), &location)
	if err != nil || strings.TrimSpace(location.City) == "" {
		s.logWarn("geolocation", err)
		return s.config.DefaultCity
	}

	return location.City
}

func (s *Service) weather(ctx context.Context, city string) (*Weather, error) {
	cacheKey := fmt.Sprintf("%s:weather:%s", CACHE_KEY_PREFIX, strings.ToLower(city))

	weather := Weather{}
	if s.cacheGet(ctx, cacheKey, &weather) {
		return &weather, nil
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", "metric")
	query.Set("appid", s.config.WeatherAPIKey)

	response := openWeatherResponse{}
	err := s.getJSON(ctx, s.endpoints.Weather+"?"+query.Encode(), &response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}

	if len(response.Weather) == 0 {
		return nil, fmt.Errorf("%w: no conditions for %v", ErrWeatherUnavailable, city)
	}

	weather = Weather{
		City:           city,
		Temperature:    response.Main.Temp,
		Description:    response.Weather[0].Description,
		Icon:           response.Weather[0].Icon,
		TemperatureMax: response.Main.TempMax,
		TemperatureMin: response.Main.TempMin,
		FeelsLike:      response.Main.FeelsLike,
	}
	s.cacheSet(ctx, cacheKey, weather, WEATHER_CACHE_TTL)

	return &weather, nil
}

func (s *Service) exchangeRates(ctx context.Context, today time.Time) (map[string]map[string]Rate, error) {
	date := today.Format(RATES_DATE_LAYOUT)
	cacheKey := fmt.Sprintf("%s:rates:%s", CACHE_KEY_PREFIX, date)

	rates := map[string]map[string]Rate{}
	if s.cacheGet(ctx, cacheKey, &rates) {
		return rates, nil
	}

	response := privatBankResponse{}
	err := s.getJSON(ctx, s.endpoints.ExchangeRates+"?json&date="+date, &response)
	if err != nil {
		return nil, err
	}

	for _, item := range response.ExchangeRate {
		if !widgetCurrencies[item.Currency] || item.SaleRate == nil || item.PurchaseRate == nil {
			continue
		}

		if rates[date] == nil {
			rates[date] = map[string]Rate{}
		}
		rates[date][item.Currency] = Rate{Sale: *item.SaleRate, Purchase: *item.PurchaseRate}
	}
	s.cacheSet(ctx, cacheKey, rates, RATES_CACHE_TTL)

	return rates, nil
}

func (s *Service) getJSON(ctx context.Context, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %v: unexpected status %v", req.URL.Host+req.URL.Path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func (s *Service) cacheGet(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	value, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logWarn("cache get", err)
		}
		return false
	}

	return json.Unmarshal(value, target) == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logWarn("cache set", err)
		return
	}

	err = s.cache.Set(ctx, key, data, ttl).Err()
	if err != nil {
		s.logWarn("cache set", err)
	}
}

func (s *Service) logWarn(step string, err error) {
	if err != nil {
		s.logg.Warnf("widget %v: %v", step, err)
	}
}

type openWeatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		TempMax   float64 `json:"temp_max"`
		TempMin   float64 `json:"temp_min"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type privatBankResponse struct {
	ExchangeRate []struct {
		Currency     string   `json:"currency"`
		SaleRate     *float64 `json:"saleRate"`
		PurchaseRate *float64 `json:"purchaseRate"`
	} `json:"exchangeRate"`
}

// NewRedisClient returns nil when no redis address is configured
func NewRedisClient(config shared.RedisConfig) *redis.Client {
	if strings.TrimSpace(config.Addr) == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
}
