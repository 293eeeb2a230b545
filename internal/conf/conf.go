package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of configs/config.yaml.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Auth   *Auth   `json:"auth"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
	Nats     *Data_Nats     `json:"nats"`
}

type Data_Database struct {
	Source          string    `json:"source"`
	MaxIdleConns    int       `json:"max_idle_conns"`
	MaxOpenConns    int       `json:"max_open_conns"`
	ConnMaxLifetime *Duration `json:"conn_max_lifetime"`
}

type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	Db           int       `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
	CacheTtl     *Duration `json:"cache_ttl"`
}

// Data_Nats is optional; an empty Url disables event publishing.
type Data_Nats struct {
	Url string `json:"url"`
}

type Auth struct {
	JwtSecret string    `json:"jwt_secret"`
	TokenTtl  *Duration `json:"token_ttl"`
	RateLimit float64   `json:"rate_limit"`
	RateBurst int       `json:"rate_burst"`

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `json:"trusted_proxies"`
}

// Duration decodes Go duration strings such as "0.2s" or "15m".
type Duration struct {
	d time.Duration
}

func NewDuration(d time.Duration) *Duration {
	return &Duration{d: d}
}

// AsDuration returns zero for a nil receiver.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.d
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid duration %s", string(b))
		}
		d.d = time.Duration(n * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.d = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.d.String())
}
