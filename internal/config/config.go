package config

type Config struct {
	Alpaca    AlpacaConf    `json:"alpaca"`
	RateLimit RateLimitConf `json:"rate_limit"`
	Telegram  TelegramConf  `json:"telegram"`
	Snapshot  SnapshotConf  `json:"snapshot"`
}

type AlpacaConf struct {
	BaseURL     string `json:"base_url"`      // trading API, e.g. https://paper-api.alpaca.markets
	DataBaseURL string `json:"data_base_url"` // market data API, e.g. https://data.alpaca.markets
	StreamURL   string `json:"stream_url"`    // trade-update stream, optional
	APIKey      string `json:"api_key"`
	SecretKey   string `json:"secret_key"`
}

type RateLimitConf struct {
	RequestsPerMinute float64 `json:"requests_per_minute"` // refill rate, default 200
	Burst             float64 `json:"burst"`               // bucket capacity, default 50
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type SnapshotConf struct {
	Cron string `json:"cron"` // account snapshot schedule, default @hourly
}
